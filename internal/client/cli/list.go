package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

// DefaultPageSize - размер страницы каталога по умолчанию
const DefaultPageSize = 20

func (c *Cli) listCommand() *cobra.Command {
	var (
		filters pkgapi.ProductFilters
		sortBy  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse the public catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters.SortBy = pkgapi.SortField(sortBy)
			switch filters.SortBy {
			case "", pkgapi.SortByCreatedAt, pkgapi.SortByPrice, pkgapi.SortBySoldCount, pkgapi.SortByRating:
			default:
				return errUsage("unknown sort field %q", sortBy)
			}
			if filters.SortOrder != "" && filters.SortOrder != "asc" && filters.SortOrder != "desc" {
				return errUsage("sort order must be asc or desc")
			}

			items, err := c.app.Products.ListPublic(cmd.Context(), filters)
			if err != nil {
				return err
			}

			if len(items) == 0 {
				c.io.Println("No products found.")
				return nil
			}

			w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tTITLE\tPRICE\tSELLER\tRATING\tSOLD")
			for _, p := range items {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.1f\t%d\n",
					p.ID, p.Title, formatPrice(p.Price), deref(p.SellerName), p.AverageRating, p.SoldCount)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&filters.Search, "search", "", "search in title and description")
	cmd.Flags().StringVar(&filters.Category, "category", "", "filter by category")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort by: created_at, price, sold_count, rating")
	cmd.Flags().StringVar(&filters.SortOrder, "order", "", "sort order: asc or desc")
	cmd.Flags().IntVar(&filters.Skip, "skip", 0, "number of products to skip")
	cmd.Flags().IntVar(&filters.Limit, "limit", DefaultPageSize, "page size")

	return cmd
}

func (c *Cli) mineCommand() *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List your products (sellers)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}

			items, err := c.app.Products.ListMine(cmd.Context(), skip, limit)
			if err != nil {
				return err
			}
			c.printProducts(items)
			return nil
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "number of products to skip")
	cmd.Flags().IntVar(&limit, "limit", DefaultPageSize, "page size")

	return cmd
}

// printProducts выводит товары продавца таблицей
func (c *Cli) printProducts(items []pkgapi.Product) {
	if len(items) == 0 {
		c.io.Println("No products found.")
		return
	}

	w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tPRICE\tSTATUS\tACTIVE\tSOLD")
	for _, p := range items {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\t%d\n",
			p.ID, p.Title, formatPrice(p.Price), p.Status, p.IsActive, p.SoldCount)
	}
	_ = w.Flush()
}
