package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

type User struct {
	ID       uint     `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Role     string   `json:"role"`
	Address  *Address `json:"address"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

type Address struct {
	ID          uint   `json:"id"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Street      string `json:"street"`
	HouseNumber int    `json:"houseNumber"`
}

type Category struct {
	ID     uint      `json:"id"`
	Name   string    `json:"name"`
	Parent *Category `json:"parentCategory"`
}

type Product struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity uint            `json:"stockQuantity"`
	ImageURL      string          `json:"imageUrl"`
	Seller        *User           `json:"seller"`
	Category      *Category       `json:"category"`
}

type CartItem struct {
	ID       uint    `json:"id"`
	Product  Product `json:"product"`
	Quantity uint    `json:"quantity"`
}

type Cart struct {
	ID    uint       `json:"id"`
	Items []CartItem `json:"items"`
}

// TotalPrice sums price*quantity over the items. Display only: the server's
// order total stays authoritative.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

type OrderItem struct {
	ID       uint    `json:"id"`
	Product  Product `json:"product"`
	Quantity uint    `json:"quantity"`
}

type Order struct {
	ID              uint            `json:"id"`
	CreatedAt       time.Time       `json:"createdAt"`
	UserID          uint            `json:"userId"`
	Status          string          `json:"status"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	ShippingAddress *Address        `json:"shippingAddress"`
	Items           []OrderItem     `json:"items"`
}
