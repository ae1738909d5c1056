package cli

import (
	"github.com/spf13/cobra"
)

func (c *Cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wasAuthenticated := c.app.Store.State().IsAuthenticated
			if err := c.app.Store.Logout(cmd.Context()); err != nil {
				return err
			}

			if wasAuthenticated {
				c.io.Println("✓ Logged out successfully")
			} else {
				c.io.Println("Not logged in")
			}
			return nil
		},
	}
}
