package cli

import (
	"github.com/spf13/cobra"
)

func (c *Cli) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show product details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			product, err := c.app.Products.GetProduct(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.render(productTmpl, product)
		},
	}
}
