package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/iudanet/digimarket/internal/client/api"
	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

func (c *Cli) statusCommand() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:     "status",
		Aliases: []string{"whoami"},
		Short:   "Show authentication status",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.io.Println("=== Authentication Status ===")
			c.io.Println()

			state := c.app.Store.State()
			if !state.IsAuthenticated {
				c.io.Println("Status: Not authenticated")
				c.io.Println()
				c.io.Println("Run 'digimarket login' to authenticate.")
				return nil
			}

			user := state.User
			isAdmin := user != nil && user.Role == pkgapi.RoleAdmin
			var application *pkgapi.SellerApplicationResponse

			if !offline {
				g, ctx := errgroup.WithContext(cmd.Context())

				g.Go(func() error {
					u, err := c.app.Store.Refresh(ctx)
					if err != nil {
						return err
					}
					user = u
					return nil
				})

				if !isAdmin {
					g.Go(func() error {
						a, err := c.app.Sellers.ApplicationStatus(ctx)
						if err != nil {
							// Заявки может не быть; статус сессии важнее
							if !errors.Is(err, api.ErrNotFound) {
								c.logger.Debug("failed to get application status", "error", err)
							}
							return nil
						}
						application = a
						return nil
					})
				}

				err := g.Wait()
				// Отклоненный токен уже удален middleware, store сброшен
				if errors.Is(err, api.ErrUnauthorized) || !c.app.Store.State().IsAuthenticated {
					c.io.Println("Status: Not authenticated (session rejected by server)")
					return nil
				}
				if err != nil {
					return fmt.Errorf("failed to check session: %w", err)
				}
			}

			c.io.Println("Status: Authenticated")
			if user != nil {
				c.io.Printf("User:  %s\n", user.DisplayName())
				c.io.Printf("Email: %s\n", user.Email)
				c.io.Printf("Role:  %s\n", user.Role)
				if user.Role == pkgapi.RoleSeller {
					c.io.Printf("Approved seller: %t\n", user.ApprovedSeller())
				}
			}
			if application != nil {
				c.io.Printf("Seller application: %s (%s)\n", application.Status, application.StoreName)
			}
			c.printTokenExpiry(state.Token)
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "show the saved session without contacting the server")
	return cmd
}
