package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/iudanet/digimarket/internal/client/storage"
)

func (c *Cli) dashboardCommand() *cobra.Command {
	var (
		search  string
		offline bool
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Seller dashboard: refresh and search your products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}
			ctx := cmd.Context()

			c.io.Println("=== Seller Dashboard ===")
			c.io.Println()

			if !offline {
				all, err := c.app.Dashboard.Refresh(ctx)
				if err != nil {
					return err
				}
				c.logger.Debug("dashboard refreshed", "products", len(all))
			}

			items, err := c.app.Dashboard.List(ctx, search)
			if err != nil {
				return err
			}
			c.printProducts(items)
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "filter by title or description")
	cmd.Flags().BoolVar(&offline, "offline", false, "use the local cache only")

	return cmd
}

func (c *Cli) toggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Activate or deactivate a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			active, err := c.app.Dashboard.ToggleActive(ctx, id)
			if errors.Is(err, storage.ErrProductNotFound) {
				// Кэш пуст или устарел: загружаем список и пробуем снова
				if _, err := c.app.Dashboard.Refresh(ctx); err != nil {
					return err
				}
				active, err = c.app.Dashboard.ToggleActive(ctx, id)
			}
			if err != nil {
				return err
			}

			state := "deactivated"
			if active {
				state = "activated"
			}
			c.io.Printf("✓ Product %d %s\n", id, state)
			return nil
		},
	}
}
