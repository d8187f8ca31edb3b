package components

import (
	twmerge "github.com/Oudwins/tailwind-merge-go"
)

type Variant string

// Hidden is a hidden form field carried by PostButton.
type Hidden struct {
	Name  string
	Value string
}

const (
	Primary   Variant = "primary"
	Secondary Variant = "secondary"
	Danger    Variant = "danger"
	Link      Variant = "link"
)

const buttonBase = "inline-flex items-center justify-center rounded-md px-4 py-2 text-sm font-semibold transition-colors focus:outline-none focus:ring-2 focus:ring-offset-2"

var buttonVariants = map[Variant]string{
	Primary:   "bg-slate-900 text-white hover:bg-slate-700 focus:ring-slate-900",
	Secondary: "border border-slate-300 bg-white text-slate-900 hover:bg-slate-50 focus:ring-slate-400",
	Danger:    "bg-white text-red-600 hover:bg-red-50 focus:ring-red-500",
	Link:      "px-0 py-0 bg-transparent text-slate-700 underline hover:text-slate-900 focus:ring-0",
}

// ButtonClass merges the variant classes with caller overrides; later
// Tailwind classes win over conflicting earlier ones.
func ButtonClass(v Variant, extra ...string) string {
	classes := append([]string{buttonBase, buttonVariants[v]}, extra...)
	return twmerge.Merge(classes...)
}

// BadgeClass is the pill used for nav counts and product flags.
func BadgeClass(extra ...string) string {
	classes := append([]string{"inline-flex min-w-5 items-center justify-center rounded-full bg-slate-900 px-1.5 text-xs font-medium text-white"}, extra...)
	return twmerge.Merge(classes...)
}

// CardClass is the product tile container.
func CardClass(extra ...string) string {
	classes := append([]string{"group flex flex-col overflow-hidden rounded-lg border border-slate-200 bg-white shadow-sm"}, extra...)
	return twmerge.Merge(classes...)
}
