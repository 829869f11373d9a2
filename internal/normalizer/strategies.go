// internal/normalizer/strategies.go
package normalizer

import (
	"github.com/shopspring/decimal"

	"printer-service/internal/model"
)

// strategy attempts to extract receipt items from one payload shape.
// The first strategy returning at least one item wins.
type strategy struct {
	name  string
	parse func(payload model.JSONObject) []model.ReceiptItem
}

var strategies = []strategy{
	{name: "relational", parse: parseRelational},
	{name: "flat_items", parse: parseFlatItems},
	{name: "minimal", parse: parseMinimal},
	{name: "exhaustive", parse: parseExhaustive},
}

// parseRelational handles the relational export shape where each
// order line carries the menu item as a nested object.
func parseRelational(payload model.JSONObject) []model.ReceiptItem {
	rows := arrayField(payload, "order_items", "orderItems", "OrderItems", "order_item")
	if rows == nil {
		return nil
	}

	var items []model.ReceiptItem
	for _, raw := range rows {
		row, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		menu := mapField(row, "menu_items", "menu_item", "menuItem", "menuItems", "item", "product")
		if menu == nil {
			continue
		}
		item := extractItem(menu)
		if q := intField(row, "quantity", "qty", "amount", "count"); q > 0 {
			item.Quantity = q
		}
		// row-level price overrides the menu price when present
		if unit, ok := decimalField(row, "price", "unit_price", "item_price"); ok {
			item.UnitPrice = unit
		}
		if total, ok := decimalField(row, "total", "total_price", "line_total"); ok && total.IsPositive() {
			item.TotalPrice = total
		}
		mergeRowDetails(&item, row)
		if item.Name != "" {
			items = append(items, finishItem(item))
		}
	}
	return items
}

// parseFlatItems handles the legacy shape with a flat items array.
func parseFlatItems(payload model.JSONObject) []model.ReceiptItem {
	return parseFlatArray(arrayField(payload, "items", "Items", "order_lines"))
}

// parseMinimal handles payloads that only carry a product or cart
// array.
func parseMinimal(payload model.JSONObject) []model.ReceiptItem {
	return parseFlatArray(arrayField(payload, "products", "cart", "cart_items", "cartItems"))
}

// exhaustiveKeys is the last-resort list of array field names scanned
// when the known shapes all miss.
var exhaustiveKeys = []string{
	"items", "order_items", "orderItems", "products", "cart",
	"cart_items", "lines", "line_items", "entries", "dishes", "contents",
}

func parseExhaustive(payload model.JSONObject) []model.ReceiptItem {
	for _, key := range exhaustiveKeys {
		if items := parseFlatArray(arrayField(payload, key)); len(items) > 0 {
			return items
		}
	}
	// one level of nesting: order wrapped in an envelope
	for _, v := range payload {
		if nested, ok := v.(map[string]interface{}); ok {
			for _, key := range exhaustiveKeys {
				if items := parseFlatArray(arrayField(nested, key)); len(items) > 0 {
					return items
				}
			}
		}
	}
	return nil
}

func parseFlatArray(rows []interface{}) []model.ReceiptItem {
	var items []model.ReceiptItem
	for _, raw := range rows {
		row, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		item := extractItem(row)
		mergeRowDetails(&item, row)
		if item.Name != "" {
			items = append(items, finishItem(item))
		}
	}
	return items
}

// extractItem pulls name/price/id out of a single item map.
func extractItem(m map[string]interface{}) model.ReceiptItem {
	item := model.ReceiptItem{
		Name:     stringField(m, "name", "item_name", "title", "product_name", "menu_item_name"),
		Size:     stringField(m, "size", "item_size", "variant"),
		Quantity: intField(m, "quantity", "qty", "amount", "count"),
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if unit, ok := decimalField(m, "price", "unit_price", "item_price", "cost"); ok {
		item.UnitPrice = unit
	}
	if total, ok := decimalField(m, "total", "total_price", "line_total", "subtotal"); ok && total.IsPositive() {
		item.TotalPrice = total
	}
	item.MenuItemID = stringField(m, "menu_item_id", "menuItemId", "item_id", "product_id", "id")
	item.IncludedToppings = intField(m, "included_toppings", "free_toppings", "includedToppings")
	item.Toppings = extractToppings(m)
	return item
}

// mergeRowDetails folds row-level notes, toppings and instruction
// segments into an already extracted item.
func mergeRowDetails(item *model.ReceiptItem, row map[string]interface{}) {
	if len(item.Toppings) == 0 {
		item.Toppings = extractToppings(row)
	}

	notes := stringField(row, "special_instructions", "specialInstructions", "instructions", "notes", "comment")
	if notes == "" {
		return
	}
	parsed := ParseInstructions(notes)
	for _, name := range parsed.Toppings {
		item.Toppings = append(item.Toppings, model.Topping{Name: name})
	}
	if item.Size == "" && parsed.Size != "" {
		item.Size = parsed.Size
	}
	if clean := parsed.CleanNotes(); clean != "" {
		if item.Notes != "" {
			item.Notes += "; "
		}
		item.Notes += clean
	}
}

func extractToppings(m map[string]interface{}) []model.Topping {
	var toppings []model.Topping
	for _, raw := range arrayField(m, "toppings", "extras", "additions", "add_ons") {
		switch t := raw.(type) {
		case string:
			toppings = append(toppings, model.Topping{Name: t})
		case map[string]interface{}:
			top := model.Topping{Name: stringField(t, "name", "topping_name", "title")}
			if price, ok := decimalField(t, "price", "topping_price", "cost"); ok {
				top.Price = price
			}
			if top.Name != "" {
				toppings = append(toppings, top)
			}
		}
	}
	return toppings
}

// finishItem backfills the computed total when the payload carried
// none.
func finishItem(item model.ReceiptItem) model.ReceiptItem {
	if item.TotalPrice.IsZero() && item.UnitPrice.IsPositive() {
		item.TotalPrice = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	}
	return item
}
