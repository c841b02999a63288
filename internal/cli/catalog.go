package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agrofix/agrofix-backend/pkg/client"
	"github.com/agrofix/agrofix-backend/pkg/money"
	"github.com/agrofix/agrofix-backend/pkg/types"
)

func (a *app) productsCommand() *cobra.Command {
	var q client.ProductQuery
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := a.api.ListProducts(cmd.Context(), q)
			if err != nil {
				return err
			}
			a.printProducts(products)
			return nil
		},
	}
	cmd.Flags().StringVar(&q.Category, "category", "", "only this category")
	cmd.Flags().BoolVar(&q.InStock, "in-stock", false, "only products in stock")
	return cmd
}

func (a *app) printProducts(products []types.Product) {
	if len(products) == 0 {
		a.printf("no products\n")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	_, _ = tw.Write([]byte("ID\tNAME\tCATEGORY\tPRICE\tMIN QTY\tSTOCK\n"))
	for _, p := range products {
		stock := "in stock"
		if !p.InStock {
			stock = "out of stock"
		}
		_, _ = tw.Write([]byte(strconv.FormatInt(p.ID, 10) + "\t" + p.Name + "\t" + p.Category + "\t" +
			money.Format(p.Price) + "\t" + strconv.Itoa(p.MinOrderQuantity) + "\t" + stock + "\n"))
	}
	_ = tw.Flush()
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func parseQuantity(raw string) (int, error) {
	quantity, err := strconv.Atoi(raw)
	if err != nil || quantity < 0 {
		return 0, fmt.Errorf("invalid quantity %q", raw)
	}
	return quantity, nil
}
