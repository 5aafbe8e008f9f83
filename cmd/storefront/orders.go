package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/allegrolike/storefront/internal/api"
	"github.com/allegrolike/storefront/internal/checkout"
	"github.com/allegrolike/storefront/internal/guard"
	"github.com/allegrolike/storefront/internal/models"
)

func (a *app) ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Order history",
	}

	var page, size int
	list := &cobra.Command{
		Use:   "list",
		Short: "List your orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(guard.None, "/orders"); err != nil {
				return err
			}
			_, user := a.session.State()
			r := a.orders.LoadMine(a.ctx(), user.ID, page, size)
			if !r.OK {
				return errors.New(r.ErrMessage)
			}
			printOrders(r.Content)
			return nil
		},
	}
	list.Flags().IntVar(&page, "page", 1, "page number")
	list.Flags().IntVar(&size, "size", 10, "page size")

	var allPage, allSize int
	all := &cobra.Command{
		Use:   "all",
		Short: "List every user's orders (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(guard.AdminOnly, "/admin/orders"); err != nil {
				return err
			}
			r := a.orders.LoadAll(a.ctx(), allPage, allSize)
			if !r.OK {
				return errors.New(r.ErrMessage)
			}
			printOrders(r.Content)
			return nil
		},
	}
	all.Flags().IntVar(&allPage, "page", 1, "page number")
	all.Flags().IntVar(&allSize, "size", 10, "page size")

	cmd.AddCommand(list, all)
	return cmd
}

func (a *app) checkoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Turn the cart into an order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(guard.None, "/checkout"); err != nil {
				return err
			}
			ctx := a.ctx()

			r := a.checkout.PlaceOrder(ctx)
			if step, _ := a.checkout.Step(); step == checkout.NeedAddress {
				fmt.Println("no shipping address on file; let's add one")
				req, err := promptAddress(os.Stdin)
				if err != nil {
					return err
				}
				if sr := a.checkout.SubmitAddress(ctx, req); !sr.OK {
					return errors.New(sr.ErrMessage)
				}
				r = a.checkout.PlaceOrder(ctx)
			}
			if !r.OK {
				return errors.New(r.ErrMessage)
			}

			order := r.Content
			fmt.Printf("order #%d placed, total %s, status %s\n", order.ID, order.TotalPrice.StringFixed(2), order.Status)
			printOrders([]models.Order{order})
			return nil
		},
	}
}

func promptAddress(in *os.File) (api.CreateAddressRequest, error) {
	reader := bufio.NewReader(in)
	ask := func(label string) (string, error) {
		fmt.Printf("%s: ", label)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}

	var req api.CreateAddressRequest
	var err error
	if req.Country, err = ask("country"); err != nil {
		return req, err
	}
	if req.City, err = ask("city"); err != nil {
		return req, err
	}
	if req.Street, err = ask("street"); err != nil {
		return req, err
	}
	houseRaw, err := ask("house number")
	if err != nil {
		return req, err
	}
	if req.HouseNumber, err = strconv.Atoi(houseRaw); err != nil {
		return req, fmt.Errorf("house number must be numeric: %w", err)
	}
	return req, nil
}

func printOrders(list []models.Order) {
	if len(list) == 0 {
		fmt.Println("no orders")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLACED\tSTATUS\tITEMS\tTOTAL")
	for _, o := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", o.ID, o.CreatedAt.Format("2006-01-02 15:04"), o.Status, len(o.Items), o.TotalPrice.StringFixed(2))
	}
	w.Flush()
}
