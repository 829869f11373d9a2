package normalizer

import (
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"printer-service/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNormalizeRelationalShape(t *testing.T) {
	n := New(zap.NewNop())

	payload := model.JSONObject{
		"order_number": "A-1042",
		"order_type":   "pickup",
		"order_items": []interface{}{
			map[string]interface{}{
				"quantity": float64(2),
				"price":    float64(5.00),
				"menu_items": map[string]interface{}{
					"name": "Margherita",
					"id":   float64(12),
				},
			},
		},
	}

	receipt, err := n.Normalize(payload)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if receipt.OrderNumber != "A-1042" {
		t.Fatalf("order number = %q", receipt.OrderNumber)
	}
	if len(receipt.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(receipt.Items))
	}
	item := receipt.Items[0]
	if item.Name != "Margherita" || item.Quantity != 2 {
		t.Fatalf("unexpected item %+v", item)
	}
	if !item.TotalPrice.Equal(dec("10")) {
		t.Fatalf("line total = %s, want 10", item.TotalPrice)
	}
	if !receipt.Total.Equal(dec("10")) {
		t.Fatalf("total = %s, want 10", receipt.Total)
	}
}

func TestNormalizeDeliverySynthesizesFee(t *testing.T) {
	n := New(zap.NewNop())

	payload := model.JSONObject{
		"order_number": "B-7",
		"is_delivery":  true,
		"items": []interface{}{
			map[string]interface{}{
				"name":     "Pizza Special",
				"quantity": float64(1),
				"price":    float64(12.50),
			},
		},
	}

	receipt, err := n.Normalize(payload)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if receipt.OrderType != "delivery" {
		t.Fatalf("order type = %q, want delivery", receipt.OrderType)
	}
	if len(receipt.Items) != 2 {
		t.Fatalf("items = %d, want pizza plus fee line", len(receipt.Items))
	}
	fee := receipt.Items[1]
	if fee.Name != DeliveryFeeLabel {
		t.Fatalf("fee item name = %q, want %q", fee.Name, DeliveryFeeLabel)
	}
	if !fee.TotalPrice.Equal(dec("3")) {
		t.Fatalf("fee = %s, want 3", fee.TotalPrice)
	}
	if !receipt.Total.Equal(dec("15.5")) {
		t.Fatalf("total = %s, want 15.50", receipt.Total)
	}
}

func TestNormalizeExplicitFeeWinsOverDefault(t *testing.T) {
	n := New(zap.NewNop())

	payload := model.JSONObject{
		"order_number": "B-8",
		"order_type":   "delivery",
		"delivery_fee": float64(4.90),
		"items": []interface{}{
			map[string]interface{}{"name": "Kebab", "quantity": float64(1), "price": float64(9)},
		},
	}

	receipt, err := n.Normalize(payload)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	var feeLines int
	for _, item := range receipt.Items {
		if item.Name == DeliveryFeeLabel {
			feeLines++
			if !item.TotalPrice.Equal(dec("4.9")) {
				t.Fatalf("fee = %s, want 4.90", item.TotalPrice)
			}
		}
	}
	if feeLines != 1 {
		t.Fatalf("fee lines = %d, want exactly 1", feeLines)
	}
}

func TestNormalizeEuropeanPriceFormat(t *testing.T) {
	n := New(zap.NewNop())

	payload := model.JSONObject{
		"order_number": "C-1",
		"items": []interface{}{
			map[string]interface{}{
				"name":     "Pizza",
				"quantity": float64(1),
				"price":    "8,90 €",
			},
		},
	}

	receipt, err := n.Normalize(payload)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if !receipt.Items[0].UnitPrice.Equal(dec("8.9")) {
		t.Fatalf("unit price = %s, want 8.90", receipt.Items[0].UnitPrice)
	}
}

func TestNormalizeDegradesToTotalOnly(t *testing.T) {
	n := New(zap.NewNop())

	payload := model.JSONObject{
		"order_number": "D-1",
		"total":        float64(24.80),
	}

	receipt, err := n.Normalize(payload)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if len(receipt.Items) != 1 || receipt.Items[0].Name != "Order Total" {
		t.Fatalf("unexpected degraded items %+v", receipt.Items)
	}
	if !receipt.Total.Equal(dec("24.8")) {
		t.Fatalf("total = %s, want 24.80", receipt.Total)
	}
	if len(receipt.Warnings) == 0 {
		t.Fatal("expected a degradation warning")
	}
}

func TestNormalizeEmergencyReceipt(t *testing.T) {
	n := New(zap.NewNop())

	receipt, err := n.Normalize(model.JSONObject{"order_number": "E-1"})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if len(receipt.Items) != 1 || receipt.Items[0].Name != "Tilaus" {
		t.Fatalf("unexpected emergency items %+v", receipt.Items)
	}
}

func TestNormalizeNilPayload(t *testing.T) {
	n := New(zap.NewNop())

	receipt, err := n.Normalize(nil)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if len(receipt.Items) != 1 {
		t.Fatalf("expected emergency receipt, got %+v", receipt.Items)
	}
}

func TestNormalizeNestedCustomer(t *testing.T) {
	n := New(zap.NewNop())

	payload := model.JSONObject{
		"order_number": "F-1",
		"customer": map[string]interface{}{
			"name":  "Matti Meikäläinen",
			"phone": "+358 40 1234567",
		},
		"items": []interface{}{
			map[string]interface{}{"name": "Pizza", "quantity": float64(1), "price": float64(10)},
		},
	}

	receipt, err := n.Normalize(payload)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if receipt.CustomerName != "Matti Meikäläinen" {
		t.Fatalf("customer name = %q", receipt.CustomerName)
	}
	if receipt.CustomerPhone != "+358 40 1234567" {
		t.Fatalf("customer phone = %q", receipt.CustomerPhone)
	}
}

func TestNormalizeExplicitTotalWins(t *testing.T) {
	n := New(zap.NewNop())

	payload := model.JSONObject{
		"order_number": "G-1",
		"total":        float64(99),
		"items": []interface{}{
			map[string]interface{}{"name": "Pizza", "quantity": float64(1), "price": float64(10)},
		},
	}

	receipt, err := n.Normalize(payload)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if !receipt.Total.Equal(dec("99")) {
		t.Fatalf("total = %s, want explicit 99", receipt.Total)
	}
}
