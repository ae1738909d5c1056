package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/digimarket/internal/validation"
	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

func (c *Cli) registerCommand() *cobra.Command {
	var email, username, fullName, role string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.io.Println("=== Registration ===")
			c.io.Println()

			var err error
			if email == "" {
				if email, err = c.io.ReadInput("Email: "); err != nil {
					return fmt.Errorf("failed to read email: %w", err)
				}
			}

			password, err := c.io.ReadPassword("Password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			confirm, err := c.io.ReadPassword("Confirm password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}

			errs := validation.FieldErrors{}
			errs.Merge(validation.ValidateCredentials(email, password, username))
			if password != confirm {
				errs.Add("confirm_password", "passwords do not match")
			}
			r := pkgapi.Role(role)
			if r != pkgapi.RoleBuyer && r != pkgapi.RoleSeller {
				errs.Add("role", "must be buyer or seller")
			}
			if err := errs.Err(); err != nil {
				return err
			}

			req := pkgapi.RegisterRequest{
				Email:    email,
				Password: password,
				Role:     r,
				Username: changedString(cmd.Flags(), "username", username),
				FullName: changedString(cmd.Flags(), "full-name", fullName),
			}

			if err := c.app.Store.Register(cmd.Context(), req); err != nil {
				return err
			}

			c.io.Println()
			c.io.Println("✓ Registration successful!")
			c.io.Printf("Email: %s\n", email)
			if r == pkgapi.RoleSeller {
				c.io.Println("To sell products, log in and run 'digimarket seller apply'.")
			}
			c.io.Println("Run 'digimarket login' to start a session.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&username, "username", "", "optional public username")
	cmd.Flags().StringVar(&fullName, "full-name", "", "optional full name")
	cmd.Flags().StringVar(&role, "role", string(pkgapi.RoleBuyer), "account role: buyer or seller")

	return cmd
}
