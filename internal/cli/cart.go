package cli

import (
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agrofix/agrofix-backend/pkg/money"
)

func (a *app) cartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and edit the local cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.printCart()
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <product-id> [quantity]",
		Short: "Add a product; the line is raised to its minimum order quantity",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			quantity := 0
			if len(args) == 2 {
				if quantity, err = parseQuantity(args[1]); err != nil {
					return err
				}
			}
			product, err := a.api.GetProduct(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := a.cart.Add(cmd.Context(), *product, quantity); err != nil {
				return err
			}
			a.printCart()
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <product-id> <quantity>",
		Short: "Set a line's quantity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			quantity, err := parseQuantity(args[1])
			if err != nil {
				return err
			}
			if err := a.cart.SetQuantity(cmd.Context(), id, quantity); err != nil {
				return err
			}
			a.printCart()
			return nil
		},
	}

	inc := &cobra.Command{
		Use:   "inc <product-id>",
		Short: "Increase a line by one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.cart.Increment(cmd.Context(), id); err != nil {
				return err
			}
			a.printCart()
			return nil
		},
	}

	dec := &cobra.Command{
		Use:   "dec <product-id>",
		Short: "Decrease a line by one (never below one)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.cart.Decrement(cmd.Context(), id); err != nil {
				return err
			}
			a.printCart()
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Drop a line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.cart.Remove(cmd.Context(), id); err != nil {
				return err
			}
			a.printCart()
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.cart.Clear(cmd.Context())
		},
	}

	cmd.AddCommand(add, set, inc, dec, remove, clearCmd)
	return cmd
}

func (a *app) printCart() {
	items := a.cart.Items()
	if len(items) == 0 {
		a.printf("cart is empty\n")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	_, _ = tw.Write([]byte("ID\tNAME\tPRICE\tQTY\tSUBTOTAL\n"))
	for _, item := range items {
		_, _ = tw.Write([]byte(strconv.FormatInt(item.ProductID, 10) + "\t" + item.Name + "\t" +
			money.Format(item.Price) + "\t" + strconv.Itoa(item.Quantity) + "\t" + money.Format(item.Subtotal) + "\n"))
	}
	_ = tw.Flush()
	totals := a.cart.Totals()
	a.printf("%d items, total %s\n", totals.Items, money.Format(totals.Amount))
}
