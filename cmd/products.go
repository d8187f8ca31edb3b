package main

import (
	"encoding/json"
	"fmt"

	"github.com/loganlanou/podstore/internal/catalog"
	"github.com/loganlanou/podstore/service"
	"github.com/spf13/cobra"
)

var (
	productsSearch   string
	productsCategory string
	productsSort     string
	productsCheck    bool
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Fetch the catalog from Printful and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		config, err := service.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if productsCheck {
			client := newPrintfulClient(config)
			if err := client.TestConnection(ctx); err != nil {
				return fmt.Errorf("printful store %q unreachable: %w", client.StoreID(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: printful store %s\n", client.StoreID())
			return nil
		}

		svc, err := newCatalog(config)
		if err != nil {
			return err
		}

		products, err := svc.ListProducts(ctx)
		if err != nil {
			return fmt.Errorf("failed to list products: %w", err)
		}

		products = catalog.Filter(products, catalog.Query{
			Search:   productsSearch,
			Category: productsCategory,
			Sort:     catalog.ParseSortKey(productsSort),
		})

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(products)
	},
}

var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	productsCmd.Flags().StringVarP(&productsSearch, "query", "q", "", "Case-insensitive name filter")
	productsCmd.Flags().StringVar(&productsCategory, "category", "", "Only products in this category")
	productsCmd.Flags().StringVar(&productsSort, "sort", "", "price-asc, price-desc, best-seller or new")
	productsCmd.Flags().BoolVar(&productsCheck, "check", false, "Only verify the Printful credentials")
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(versionCmd)
}

