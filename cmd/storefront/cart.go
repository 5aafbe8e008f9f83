package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/allegrolike/storefront/internal/guard"
	"github.com/allegrolike/storefront/internal/models"
	"github.com/allegrolike/storefront/internal/result"
)

func (a *app) cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and mutate the shopping cart",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(guard.None, "/cart"); err != nil {
				return err
			}
			return a.renderCart(a.cart.Load(a.ctx()))
		},
	}

	var productID uint
	var qty int
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a product to the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(guard.None, "/cart"); err != nil {
				return err
			}
			return a.renderCart(a.cart.AddItem(a.ctx(), productID, qty))
		},
	}
	add.Flags().UintVar(&productID, "product-id", 0, "product id")
	add.Flags().IntVar(&qty, "quantity", 1, "units to add")
	_ = add.MarkFlagRequired("product-id")

	var itemID uint
	var newQty int
	update := &cobra.Command{
		Use:   "update",
		Short: "Set a cart line's quantity (0 removes it)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(guard.None, "/cart"); err != nil {
				return err
			}
			return a.renderCart(a.cart.UpdateItem(a.ctx(), itemID, newQty))
		},
	}
	update.Flags().UintVar(&itemID, "item-id", 0, "cart item id")
	update.Flags().IntVar(&newQty, "quantity", 0, "new quantity")
	_ = update.MarkFlagRequired("item-id")
	_ = update.MarkFlagRequired("quantity")

	var removeID uint
	remove := &cobra.Command{
		Use:   "remove",
		Short: "Remove a cart line",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(guard.None, "/cart"); err != nil {
				return err
			}
			return a.renderCart(a.cart.RemoveItem(a.ctx(), removeID))
		},
	}
	remove.Flags().UintVar(&removeID, "item-id", 0, "cart item id")
	_ = remove.MarkFlagRequired("item-id")

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(guard.None, "/cart"); err != nil {
				return err
			}
			return a.renderCart(a.cart.Clear(a.ctx()))
		},
	}

	cmd.AddCommand(show, add, update, remove, clear)
	return cmd
}

func (a *app) renderCart(r result.Result[models.Cart]) error {
	if !r.OK {
		return errors.New(r.ErrMessage)
	}
	c := r.Content
	if len(c.Items) == 0 {
		fmt.Println("cart is empty")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tPRODUCT\tPRICE\tQTY\tLINE TOTAL")
	for _, it := range c.Items {
		line := it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", it.ID, it.Product.Name, it.Product.Price.StringFixed(2), it.Quantity, line.StringFixed(2))
	}
	w.Flush()
	fmt.Printf("total: %s\n", c.TotalPrice().StringFixed(2))
	return nil
}
