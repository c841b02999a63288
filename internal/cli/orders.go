package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/agrofix/agrofix-backend/pkg/money"
	"github.com/agrofix/agrofix-backend/pkg/types"
)

type placeFlags struct {
	buyerName    string
	businessName string
	email        string
	phone        string
	address      string
	city         string
	state        string
	pincode      string
	instructions string
	deliveryDate string
	key          string
}

func (a *app) orderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List your orders (all orders for admins)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orders, err := a.api.ListOrders(cmd.Context())
			if err != nil {
				return err
			}
			if len(orders) == 0 {
				a.printf("no orders\n")
				return nil
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			_, _ = tw.Write([]byte("ID\tNUMBER\tBUYER\tSTATUS\tTOTAL\tPLACED\n"))
			for _, o := range orders {
				_, _ = tw.Write([]byte(strconv.FormatInt(o.ID, 10) + "\t" + o.OrderNumber + "\t" + o.BuyerName + "\t" +
					o.Status + "\t" + money.Format(o.TotalAmount) + "\t" + o.CreatedAt.Format(time.DateOnly) + "\n"))
			}
			return tw.Flush()
		},
	}

	show := &cobra.Command{
		Use:   "show <order-id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			order, err := a.api.GetOrder(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.printOrder(order)
			return nil
		},
	}

	var f placeFlags
	place := &cobra.Command{
		Use:   "place",
		Short: "Place an order for the current cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items := a.cart.Items()
			if len(items) == 0 {
				return fmt.Errorf("cart is empty")
			}
			email := f.email
			if email == "" {
				email = a.session.Username
			}
			req := types.CreateOrderRequest{
				BuyerName:             f.buyerName,
				BusinessName:          optional(f.businessName),
				Email:                 email,
				Phone:                 f.phone,
				DeliveryAddress:       f.address,
				City:                  f.city,
				State:                 f.state,
				Pincode:               f.pincode,
				DeliveryInstructions:  optional(f.instructions),
				PreferredDeliveryDate: f.deliveryDate,
			}
			for _, item := range items {
				req.Items = append(req.Items, types.OrderItemRequest{ProductID: item.ProductID, Quantity: item.Quantity})
			}
			total := a.cart.Totals().Amount
			req.TotalAmount = &total

			key := f.key
			if key == "" {
				key = uuid.NewString()
			}
			order, err := a.api.CreateOrder(cmd.Context(), req, key)
			if err != nil {
				return err
			}
			if err := a.cart.Clear(cmd.Context()); err != nil {
				return err
			}
			a.printOrder(order)
			return nil
		},
	}
	place.Flags().StringVar(&f.buyerName, "name", "", "buyer name")
	place.Flags().StringVar(&f.businessName, "business", "", "business name")
	place.Flags().StringVar(&f.email, "email", "", "contact email (defaults to your username)")
	place.Flags().StringVar(&f.phone, "phone", "", "contact phone")
	place.Flags().StringVar(&f.address, "address", "", "delivery address")
	place.Flags().StringVar(&f.city, "city", "", "delivery city")
	place.Flags().StringVar(&f.state, "state", "", "delivery state")
	place.Flags().StringVar(&f.pincode, "pincode", "", "delivery pincode")
	place.Flags().StringVar(&f.instructions, "instructions", "", "delivery instructions")
	place.Flags().StringVar(&f.deliveryDate, "date", "", "preferred delivery date (YYYY-MM-DD)")
	place.Flags().StringVar(&f.key, "idempotency-key", "", "reuse to retry a placement safely (default: random)")
	for _, name := range []string{"name", "phone", "address", "city", "state", "pincode", "date"} {
		_ = place.MarkFlagRequired(name)
	}

	cmd.AddCommand(show, place)
	return cmd
}

func (a *app) trackCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "track <order-number>",
		Short: "Track an order by number, e.g. AGF-2025-000001",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.api.Track(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printf("%s  %s\nplaced %s, delivery %s, total %s\n",
				t.OrderNumber, t.Status, t.CreatedAt.Format(time.DateOnly), t.PreferredDeliveryDate, money.Format(t.TotalAmount))
			return nil
		},
	}
}

func (a *app) printOrder(o *types.Order) {
	a.printf("%s (id %d)  %s\n", o.OrderNumber, o.ID, o.Status)
	a.printf("%s, %s, %s %s %s\n", o.BuyerName, o.DeliveryAddress, o.City, o.State, o.Pincode)
	for _, item := range o.Items {
		a.printf("  %-20s %4d x %s = %s\n", item.Name, item.Quantity, money.Format(item.Price), money.Format(item.Subtotal))
	}
	a.printf("total %s\n", money.Format(o.TotalAmount))
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
