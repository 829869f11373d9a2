// internal/encoder/pricing.go
package encoder

import (
	"strings"

	"github.com/shopspring/decimal"

	"printer-service/internal/model"
)

// FreeToppingMarker is printed in place of a price for an included
// topping.
const FreeToppingMarker = "ILMAINEN"

// legacyFourToppingItemID is a menu item that historically shipped
// with four included toppings before the menu data carried an
// included-toppings count. Kept as-is; receipts in the field depend
// on it.
const legacyFourToppingItemID = "616"

var (
	one = decimal.NewFromInt(1)
	two = decimal.NewFromInt(2)
)

// PricedTopping is a topping with its print price resolved.
type PricedTopping struct {
	Name  string
	Price decimal.Decimal
	Free  bool
}

// PriceToppings resolves the print price of every topping on an item.
//
// The first N toppings with a nonzero base price are free, where N is
// the item's included-toppings count; a free topping consumes one
// slot and is skipped by later free checks. Remaining priced toppings
// are adjusted by the item size: family size doubles the price, and
// large size turns an exactly 1.00 base price into 2.00. The 1.00
// rule is an exact match, not a multiplier.
func PriceToppings(item *model.ReceiptItem) []PricedTopping {
	if item == nil || len(item.Toppings) == 0 {
		return nil
	}

	included := item.IncludedToppings
	if item.MenuItemID == legacyFourToppingItemID {
		included = 4
	}

	size := normalizeSize(item.Size)
	out := make([]PricedTopping, 0, len(item.Toppings))
	freeLeft := included

	for _, t := range item.Toppings {
		if freeLeft > 0 && t.Price.IsPositive() {
			freeLeft--
			out = append(out, PricedTopping{Name: t.Name, Price: decimal.Zero, Free: true})
			continue
		}

		price := t.Price
		switch size {
		case "family":
			price = price.Mul(two)
		case "large":
			if price.Equal(one) {
				price = two
			}
		}
		out = append(out, PricedTopping{Name: t.Name, Price: price})
	}
	return out
}

// normalizeSize folds the Finnish and English size labels used across
// the menus into the three canonical sizes.
func normalizeSize(size string) string {
	s := strings.ToLower(strings.TrimSpace(size))
	switch {
	case strings.Contains(s, "family"), strings.Contains(s, "perhe"):
		return "family"
	case strings.Contains(s, "large"), strings.Contains(s, "iso"):
		return "large"
	default:
		return "regular"
	}
}
