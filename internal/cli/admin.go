package cli

import (
	"github.com/spf13/cobra"

	"github.com/agrofix/agrofix-backend/pkg/money"
	"github.com/agrofix/agrofix-backend/pkg/types"
)

func (a *app) adminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Catalog and order management (admin accounts only)",
	}
	cmd.AddCommand(a.productCreateCommand(), a.productUpdateCommand(), a.productDeleteCommand(), a.orderStatusCommand())
	return cmd
}

func (a *app) productCreateCommand() *cobra.Command {
	var category, imageURL, description, price string
	var minQty int
	var outOfStock bool
	cmd := &cobra.Command{
		Use:   "add-product <name>",
		Short: "Create a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cents, err := money.Parse(price)
			if err != nil {
				return err
			}
			inStock := !outOfStock
			p, err := a.api.CreateProduct(cmd.Context(), types.CreateProductRequest{
				Name:             args[0],
				Category:         category,
				Price:            cents,
				MinOrderQuantity: minQty,
				ImageURL:         optional(imageURL),
				Description:      optional(description),
				InStock:          &inStock,
			})
			if err != nil {
				return err
			}
			a.printProducts([]types.Product{*p})
			return nil
		},
	}
	cmd.Flags().StringVar(&price, "price", "", "unit price in rupees, e.g. 25.50")
	cmd.Flags().IntVar(&minQty, "min-qty", 1, "minimum order quantity")
	cmd.Flags().StringVar(&category, "category", "", "category (default General)")
	cmd.Flags().StringVar(&imageURL, "image", "", "image URL")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().BoolVar(&outOfStock, "out-of-stock", false, "list the product as out of stock")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func (a *app) productUpdateCommand() *cobra.Command {
	var name, category, price, imageURL, description string
	var minQty int
	var inStock bool
	cmd := &cobra.Command{
		Use:   "update-product <product-id>",
		Short: "Change the given fields of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var req types.UpdateProductRequest
			flags := cmd.Flags()
			if flags.Changed("name") {
				req.Name = &name
			}
			if flags.Changed("category") {
				req.Category = &category
			}
			if flags.Changed("price") {
				cents, err := money.Parse(price)
				if err != nil {
					return err
				}
				req.Price = &cents
			}
			if flags.Changed("min-qty") {
				req.MinOrderQuantity = &minQty
			}
			if flags.Changed("image") {
				req.ImageURL = &imageURL
			}
			if flags.Changed("description") {
				req.Description = &description
			}
			if flags.Changed("in-stock") {
				req.InStock = &inStock
			}
			p, err := a.api.UpdateProduct(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			a.printProducts([]types.Product{*p})
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().StringVar(&price, "price", "", "new unit price in rupees")
	cmd.Flags().IntVar(&minQty, "min-qty", 0, "new minimum order quantity")
	cmd.Flags().StringVar(&imageURL, "image", "", "new image URL")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().BoolVar(&inStock, "in-stock", true, "stock flag")
	return cmd
}

func (a *app) productDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-product <product-id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.api.DeleteProduct(cmd.Context(), id); err != nil {
				return err
			}
			a.printf("product %d deleted\n", id)
			return nil
		},
	}
}

func (a *app) orderStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <order-id> <status>",
		Short: `Set an order status: "Pending", "In Progress", "Out for Delivery" or "Delivered"`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			order, err := a.api.UpdateOrderStatus(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			a.printf("%s is now %s\n", order.OrderNumber, order.Status)
			return nil
		},
	}
}
