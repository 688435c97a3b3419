// ABOUTME: Products command listing the storefront menu
// ABOUTME: Shows both currency prices, with optional tag filtering

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TagleD/coffee-app/internal/client"
)

var productsTag string

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the menu",
	Long:  `List storefront products with card and bean prices. The menu is public and needs no sign-in.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runProducts(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	productsCmd.Flags().StringVar(&productsTag, "tag", "", "Only show products with this tag name")
	rootCmd.AddCommand(productsCmd)
}

// runProducts fetches and prints the catalog
func runProducts(ctx context.Context, w io.Writer) int {
	sess, _, err := newSession()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	products, tags, err := sess.Client().Catalog(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if productsTag != "" {
		products = filterByTag(products, tags, productsTag)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatProductsJSON(products))
	} else {
		fmt.Fprintln(w, formatProductsHuman(products))
	}
	return 0
}

// filterByTag keeps products carrying the named tag (case-insensitive)
func filterByTag(products []client.Product, tags []client.Tag, name string) []client.Product {
	var tagID int64 = -1
	for _, t := range tags {
		if strings.EqualFold(t.Name, name) {
			tagID = t.ID
			break
		}
	}

	var out []client.Product
	for _, p := range products {
		for _, t := range p.Tags {
			if t.ID == tagID {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// formatProductsHuman formats the catalog as an aligned table
func formatProductsHuman(products []client.Product) string {
	if len(products) == 0 {
		return "No products found."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-28s %10s %8s\n", "PRODUCT", "PRICE", "BEANS"))
	for _, p := range products {
		sb.WriteString(fmt.Sprintf("%-28s %10s %8d\n", p.Name, p.Price.StringFixed(0)+" ₸", p.BeanPrice))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatProductsJSON formats the catalog as JSON
func formatProductsJSON(products []client.Product) string {
	data, _ := json.MarshalIndent(products, "", "  ")
	return string(data)
}
