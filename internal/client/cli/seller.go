package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/digimarket/internal/validation"
	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

func (c *Cli) sellerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seller",
		Short: "Seller application and profile",
	}
	cmd.AddCommand(c.applyCommand(), c.applicationStatusCommand(), c.sellerProfileCommand())
	return cmd
}

func (c *Cli) applyCommand() *cobra.Command {
	var (
		app   pkgapi.SellerApplication
		taxID string
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply to become a seller",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}

			prompts := []struct {
				value  *string
				prompt string
			}{
				{&app.StoreName, "Store name: "},
				{&app.SellerBio, "About your store: "},
				{&app.SellerAddress, "Business address: "},
			}
			for _, p := range prompts {
				if *p.value != "" {
					continue
				}
				v, err := c.io.ReadInput(p.prompt)
				if err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				*p.value = v
			}
			app.SellerTaxID = changedString(cmd.Flags(), "tax-id", taxID)

			if err := validation.ValidateSellerApplication(app); err != nil {
				return err
			}

			resp, err := c.app.Sellers.Apply(cmd.Context(), app)
			if err != nil {
				return err
			}

			c.io.Println("✓ Application submitted!")
			c.io.Printf("Status: %s\n", resp.Status)
			c.io.Println("An administrator will review your application.")
			return nil
		},
	}

	cmd.Flags().StringVar(&app.StoreName, "store-name", "", "store name")
	cmd.Flags().StringVar(&app.SellerBio, "bio", "", "store description")
	cmd.Flags().StringVar(&app.SellerAddress, "address", "", "business address")
	cmd.Flags().StringVar(&taxID, "tax-id", "", "optional tax id")
	cmd.Flags().BoolVar(&app.TermsAccepted, "accept-terms", false, "accept the seller terms and conditions")

	return cmd
}

func (c *Cli) applicationStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show your seller application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}

			resp, err := c.app.Sellers.ApplicationStatus(cmd.Context())
			if err != nil {
				return err
			}
			return c.render(applicationTmpl, resp)
		},
	}
}

func (c *Cli) sellerProfileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show your seller profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}

			profile, err := c.app.Sellers.Profile(cmd.Context())
			if err != nil {
				return err
			}
			return c.render(sellerProfileTmpl, profile)
		},
	}
}
