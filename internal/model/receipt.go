// internal/model/receipt.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptData is the canonical printable receipt produced by the
// normalizer and consumed by the command encoders.
type ReceiptData struct {
	Header      string        `json:"header"`
	OrderNumber string        `json:"order_number"`
	OrderTime   time.Time     `json:"order_time"`
	OrderType   string        `json:"order_type"` // delivery, pickup, dine-in
	Payment     string        `json:"payment_method,omitempty"`

	CustomerName    string `json:"customer_name,omitempty"`
	CustomerPhone   string `json:"customer_phone,omitempty"`
	DeliveryAddress string `json:"delivery_address,omitempty"`

	Items        []ReceiptItem `json:"items"`
	Instructions string        `json:"instructions,omitempty"`

	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	SmallOrderFee decimal.Decimal `json:"small_order_fee"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`

	BranchName    string `json:"branch_name,omitempty"`
	BranchAddress string `json:"branch_address,omitempty"`
	BranchPhone   string `json:"branch_phone,omitempty"`

	Footer string `json:"footer,omitempty"`

	// Warnings collected by non-fatal validation
	Warnings []string `json:"warnings,omitempty"`
}

// ReceiptItem is a single line of a receipt
type ReceiptItem struct {
	Name       string          `json:"name"`
	Size       string          `json:"size,omitempty"` // regular, large, family
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Toppings   []Topping       `json:"toppings,omitempty"`
	Notes      string          `json:"notes,omitempty"`

	// Number of toppings included in the base price of the
	// originating menu item. The first N priced toppings print free.
	IncludedToppings int `json:"included_toppings,omitempty"`
	MenuItemID       string `json:"menu_item_id,omitempty"`
}

// Topping is an extra on a receipt item
type Topping struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Validate flags data problems without blocking the print. Only an
// empty item list is fatal; everything else becomes a warning so that
// printing something is preferred over printing nothing.
func (r *ReceiptData) Validate() error {
	if len(r.Items) == 0 {
		return ErrInvalidData
	}
	if r.OrderNumber == "" {
		r.Warnings = append(r.Warnings, "missing order number")
	}
	for _, item := range r.Items {
		if item.Name == "" {
			r.Warnings = append(r.Warnings, "item without a name")
		}
		if item.Quantity <= 0 {
			r.Warnings = append(r.Warnings, "non-positive quantity on "+item.Name)
		}
		if item.UnitPrice.IsNegative() {
			r.Warnings = append(r.Warnings, "negative price on "+item.Name)
		}
	}
	return nil
}
