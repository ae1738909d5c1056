package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/digimarket/internal/client/auth"
)

func (c *Cli) loginCommand() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the marketplace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.io.Println("=== Login ===")
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

			c.io.Println("Authenticating...")

			if err := c.app.Store.Login(cmd.Context(), email, password); err != nil {
				return err
			}

			state := c.app.Store.State()
			c.io.Println()
			c.io.Println("✓ Login successful!")
			if state.User != nil {
				c.io.Printf("Welcome, %s (%s)\n", state.User.DisplayName(), state.User.Role)
			}
			c.printTokenExpiry(state.Token)
			c.io.Println("Your session has been saved.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

// printTokenExpiry выводит срок действия токена, если токен - JWT
func (c *Cli) printTokenExpiry(token string) {
	claims, err := auth.ParseTokenClaims(token)
	if err != nil {
		if !errors.Is(err, auth.ErrOpaqueToken) {
			c.logger.Debug("failed to parse token claims", "error", err)
		}
		return
	}
	if claims.ExpiresAt.IsZero() {
		return
	}

	c.io.Printf("Token expires: %s\n", claims.ExpiresAt.Format(time.RFC3339))
	if claims.Expired(time.Now()) {
		c.io.Println("⚠️  Token has expired. Please login again.")
		return
	}
	c.io.Printf("Time remaining: %s\n", time.Until(claims.ExpiresAt).Round(time.Second))
}
