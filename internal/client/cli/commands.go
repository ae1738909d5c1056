package cli

import (
	"github.com/spf13/cobra"
)

func (c *Cli) addCommands(root *cobra.Command) {
	root.AddCommand(
		versionCommand(c),
		c.registerCommand(),
		c.loginCommand(),
		c.logoutCommand(),
		c.statusCommand(),
		c.productsCommand(),
		c.dashboardCommand(),
		c.ordersCommand(),
		c.sellerCommand(),
		c.adminCommand(),
	)
}

func (c *Cli) productsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Browse the catalog and manage your products",
	}
	cmd.AddCommand(
		c.listCommand(),
		c.mineCommand(),
		c.getCommand(),
		c.createCommand(),
		c.updateCommand(),
		c.deleteCommand(),
		c.toggleCommand(),
		c.uploadCommand(),
	)
	return cmd
}
