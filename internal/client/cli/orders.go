package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/iudanet/digimarket/internal/client/orders"
	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

// maxPriceLookups - сколько карточек товаров запрашивается одновременно
const maxPriceLookups = 4

func (c *Cli) ordersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"order"},
		Short:   "Place and track your orders",
	}
	cmd.AddCommand(
		c.orderCreateCommand(),
		c.orderListCommand(),
		c.orderGetCommand(),
		c.orderUpdateCommand(),
		c.orderCancelCommand(),
	)
	return cmd
}

func (c *Cli) orderCreateCommand() *cobra.Command {
	var (
		items   []string
		address string
	)

	cmd := &cobra.Command{
		Use:   "create --item <product-id>[:<quantity>]...",
		Short: "Place an order at current catalog prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}
			if len(items) == 0 {
				return errUsage("at least one --item is required")
			}

			lines := make([]pkgapi.OrderItemCreate, len(items))
			for i, raw := range items {
				line, err := parseOrderItem(raw)
				if err != nil {
					return err
				}
				lines[i] = line
			}

			// Цена позиции - текущая цена товара в каталоге
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(maxPriceLookups)
			for i := range lines {
				g.Go(func() error {
					p, err := c.app.Products.GetProduct(ctx, lines[i].ProductID)
					if err != nil {
						return fmt.Errorf("product %d: %w", lines[i].ProductID, err)
					}
					lines[i].Price = p.Price
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			req := pkgapi.OrderCreate{Items: lines}
			if strings.TrimSpace(address) != "" {
				req.ShippingAddress = &address
			}

			order, err := c.app.Orders.Create(cmd.Context(), req)
			if err != nil {
				return err
			}

			c.io.Printf("✓ Order %d placed: %s\n", order.ID, formatPrice(order.TotalAmount))
			return c.render(orderTmpl, order)
		},
	}

	cmd.Flags().StringArrayVarP(&items, "item", "i", nil, "product to order as <id> or <id>:<quantity> (repeatable)")
	cmd.Flags().StringVar(&address, "shipping-address", "", "shipping address")

	return cmd
}

func (c *Cli) orderListCommand() *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}

			list, err := c.app.Orders.List(cmd.Context(), skip, limit)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				c.io.Println("No orders yet.")
				return nil
			}

			w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tSTATUS\tITEMS\tTOTAL\tPLACED")
			for _, o := range list {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n",
					o.ID, o.Status, len(o.Items), formatPrice(o.TotalAmount), o.CreatedAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "number of orders to skip")
	cmd.Flags().IntVar(&limit, "limit", orders.MaxPageSize, "page size")

	return cmd
}

func (c *Cli) orderGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			order, err := c.app.Orders.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.render(orderTmpl, order)
		},
	}
}

func (c *Cli) orderUpdateCommand() *cobra.Command {
	var address, tracking string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change shipping details of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			fs := cmd.Flags()
			update := pkgapi.OrderUpdate{
				ShippingAddress: changedString(fs, "shipping-address", address),
				TrackingNumber:  changedString(fs, "tracking-number", tracking),
			}
			if update.ShippingAddress == nil && update.TrackingNumber == nil {
				return errUsage("nothing to update: pass --shipping-address or --tracking-number")
			}

			order, err := c.app.Orders.Update(cmd.Context(), id, update)
			if err != nil {
				return err
			}

			c.io.Printf("✓ Order %d updated\n", order.ID)
			return c.render(orderTmpl, order)
		},
	}

	cmd.Flags().StringVar(&address, "shipping-address", "", "new shipping address")
	cmd.Flags().StringVar(&tracking, "tracking-number", "", "shipment tracking number")

	return cmd
}

func (c *Cli) orderCancelCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel an order",
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
				answer, err := c.io.ReadInput(fmt.Sprintf("Cancel order %d? [y/N]: ", id))
				if err != nil {
					return fmt.Errorf("failed to read confirmation: %w", err)
				}
				if a := strings.ToLower(answer); a != "y" && a != "yes" {
					c.io.Println("Kept.")
					return nil
				}
			}

			if _, err := c.app.Orders.Cancel(cmd.Context(), id); err != nil {
				return err
			}

			c.io.Printf("✓ Order %d cancelled\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// parseOrderItem разбирает "<id>" или "<id>:<quantity>"
func parseOrderItem(raw string) (pkgapi.OrderItemCreate, error) {
	idPart, qtyPart, hasQty := strings.Cut(strings.TrimSpace(raw), ":")

	id, err := parseID(idPart)
	if err != nil {
		return pkgapi.OrderItemCreate{}, err
	}

	quantity := int64(1)
	if hasQty {
		quantity, err = strconv.ParseInt(qtyPart, 10, 64)
		if err != nil || quantity <= 0 {
			return pkgapi.OrderItemCreate{}, errUsage("%q: quantity must be a positive number", raw)
		}
	}

	return pkgapi.OrderItemCreate{ProductID: id, Quantity: quantity}, nil
}
