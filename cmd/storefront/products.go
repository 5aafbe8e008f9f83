package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/allegrolike/storefront/internal/api"
	"github.com/allegrolike/storefront/internal/guard"
	"github.com/allegrolike/storefront/internal/models"
)

func (a *app) productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalog",
	}
	cmd.AddCommand(a.productsListCmd(), a.productsShowCmd(), a.productsCreateCmd())
	return cmd
}

func (a *app) productsListCmd() *cobra.Command {
	var (
		search, category   string
		minPrice, maxPrice string
		page, size         int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := api.ProductFilters{
				Search:   search,
				Category: category,
				Page:     page,
				Size:     size,
			}
			if minPrice != "" {
				d, err := decimal.NewFromString(minPrice)
				if err != nil {
					return fmt.Errorf("invalid --min-price: %w", err)
				}
				filters.MinPrice = &d
			}
			if maxPrice != "" {
				d, err := decimal.NewFromString(maxPrice)
				if err != nil {
					return fmt.Errorf("invalid --max-price: %w", err)
				}
				filters.MaxPrice = &d
			}

			r := a.client.GetProducts(a.ctx(), filters)
			if !r.OK {
				return errors.New(r.ErrMessage)
			}
			printProducts(r.Content)
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "free-text search")
	cmd.Flags().StringVar(&category, "category", "", "category name")
	cmd.Flags().StringVar(&minPrice, "min-price", "", "minimum price")
	cmd.Flags().StringVar(&maxPrice, "max-price", "", "maximum price")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&size, "size", 10, "page size")
	return cmd
}

func (a *app) productsShowCmd() *cobra.Command {
	var id uint
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show one product",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := a.client.GetProduct(a.ctx(), id)
			if !r.OK {
				return errors.New(r.ErrMessage)
			}
			p := r.Content
			fmt.Printf("#%d %s — %s\n", p.ID, p.Name, p.Price.StringFixed(2))
			fmt.Println(p.Description)
			fmt.Printf("in stock: %d\n", p.StockQuantity)
			if p.Category != nil {
				fmt.Printf("category: %s\n", p.Category.Name)
			}
			return nil
		},
	}
	cmd.Flags().UintVar(&id, "id", 0, "product id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func (a *app) productsCreateCmd() *cobra.Command {
	var (
		name, description, price string
		stock, categoryID        uint
		imagePath                string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product with an image (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(guard.AdminOnly, "/admin/products"); err != nil {
				return err
			}
			_, user := a.session.State()

			d, err := decimal.NewFromString(price)
			if err != nil {
				return fmt.Errorf("invalid --price: %w", err)
			}
			img, err := os.Open(imagePath)
			if err != nil {
				return err
			}
			defer img.Close()

			r := a.client.CreateProduct(a.ctx(), api.CreateProductRequest{
				Name:          name,
				Description:   description,
				Price:         d,
				StockQuantity: stock,
				SellerID:      user.ID,
				CategoryID:    categoryID,
			}, filepath.Base(imagePath), img)
			if !r.OK {
				return errors.New(r.ErrMessage)
			}
			fmt.Printf("created product #%d %s\n", r.Content.ID, r.Content.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "product name")
	cmd.Flags().StringVar(&description, "description", "", "product description")
	cmd.Flags().StringVar(&price, "price", "", "unit price")
	cmd.Flags().UintVar(&stock, "stock", 0, "stock quantity")
	cmd.Flags().UintVar(&categoryID, "category-id", 0, "category id")
	cmd.Flags().StringVar(&imagePath, "image", "", "path to the product image")
	for _, f := range []string{"name", "price", "category-id", "image"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func (a *app) categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Browse and manage categories",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := a.client.GetCategories(a.ctx())
			if !r.OK {
				return errors.New(r.ErrMessage)
			}
			for _, c := range r.Content {
				if c.Parent != nil {
					fmt.Printf("#%d %s (under %s)\n", c.ID, c.Name, c.Parent.Name)
				} else {
					fmt.Printf("#%d %s\n", c.ID, c.Name)
				}
			}
			return nil
		},
	}

	var name string
	var parentID uint
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a category (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(guard.AdminOnly, "/admin/categories"); err != nil {
				return err
			}
			req := api.CreateCategoryRequest{Name: name}
			if parentID != 0 {
				req.ParentCategoryID = &parentID
			}
			r := a.client.CreateCategory(a.ctx(), req)
			if !r.OK {
				return errors.New(r.ErrMessage)
			}
			fmt.Printf("created category #%d %s\n", r.Content.ID, r.Content.Name)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "category name")
	create.Flags().UintVar(&parentID, "parent-id", 0, "parent category id (0 for a root category)")
	_ = create.MarkFlagRequired("name")

	cmd.AddCommand(list, create)
	return cmd
}

func printProducts(products []models.Product) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK\tCATEGORY")
	for _, p := range products {
		category := ""
		if p.Category != nil {
			category = p.Category.Name
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Price.StringFixed(2), p.StockQuantity, category)
	}
	w.Flush()
}
