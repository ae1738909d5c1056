package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *Cli) deleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !yes {
				answer, err := c.io.ReadInput(fmt.Sprintf("Delete product %d? This cannot be undone [y/N]: ", id))
				if err != nil {
					return fmt.Errorf("failed to read confirmation: %w", err)
				}
				if a := strings.ToLower(answer); a != "y" && a != "yes" {
					c.io.Println("Cancelled.")
					return nil
				}
			}

			if err := c.app.Dashboard.Delete(cmd.Context(), id); err != nil {
				return err
			}

			c.io.Printf("✓ Product %d deleted\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
