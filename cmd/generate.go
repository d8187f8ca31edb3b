package main

//go:generate echo "Generating SQLC files..."
//go:generate bash -c "export PATH=$$PATH:~/go/bin && sqlc generate -f ../storage/sqlc.yaml"
//go:generate echo "SQLC files generated"

//go:generate echo "Generating templ files..."
//go:generate bash -c "export PATH=$$PATH:~/go/bin && templ generate -path ../views"
//go:generate echo "templ files generated"

// Regenerate the storage/db query code and the views/**/*_templ.go files
// after editing storage/queries, storage/migrations or any .templ file by
// running, from the project root:
//
// go generate ./...
