package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

func (c *Cli) adminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Review seller applications (administrators)",
	}
	cmd.AddCommand(
		c.applicationsCommand(),
		c.approveCommand(),
		c.rejectCommand(),
		c.sellerDetailsCommand(),
	)
	return cmd
}

func (c *Cli) applicationsCommand() *cobra.Command {
	var (
		status      string
		skip, limit int
	)

	cmd := &cobra.Command{
		Use:   "applications",
		Short: "List seller applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}

			apps, err := c.app.Admin.ListApplications(cmd.Context(), pkgapi.ApplicationStatus(status), skip, limit)
			if err != nil {
				return err
			}
			if len(apps) == 0 {
				c.io.Println("No applications found.")
				return nil
			}

			w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "USER ID\tSTORE\tEMAIL\tSTATUS\tAPPLIED")
			for _, a := range apps {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					a.ID, a.StoreName, a.Email, a.Status, a.CreatedAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&status, "status", string(pkgapi.ApplicationPending), "pending, approved or rejected")
	cmd.Flags().IntVar(&skip, "skip", 0, "number of applications to skip")
	cmd.Flags().IntVar(&limit, "limit", DefaultPageSize, "page size")

	return cmd
}

func (c *Cli) approveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <user-id>",
		Short: "Approve a seller application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			resp, err := c.app.Admin.Approve(cmd.Context(), id)
			if err != nil {
				return err
			}
			c.io.Printf("✓ %s (%s) approved\n", resp.StoreName, resp.Email)
			return nil
		},
	}
}

func (c *Cli) rejectCommand() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reject <user-id>",
		Short: "Reject a seller application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			resp, err := c.app.Admin.Reject(cmd.Context(), id, reason)
			if err != nil {
				return err
			}
			c.io.Printf("✓ %s (%s) rejected\n", resp.StoreName, resp.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "rejection reason shown to the applicant")
	return cmd
}

func (c *Cli) sellerDetailsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seller <user-id>",
		Short: "Show seller details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			profile, err := c.app.Admin.SellerDetails(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.render(sellerProfileTmpl, profile)
		},
	}
}
