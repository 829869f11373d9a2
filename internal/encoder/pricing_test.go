package encoder

import (
	"testing"

	"github.com/shopspring/decimal"

	"printer-service/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func toppings(prices ...string) []model.Topping {
	out := make([]model.Topping, len(prices))
	for i, p := range prices {
		out[i] = model.Topping{Name: "T", Price: dec(p)}
	}
	return out
}

func TestPriceToppings(t *testing.T) {
	tests := []struct {
		name string
		item model.ReceiptItem
		want []string // expected print prices, "free" marks an included topping
	}{
		{
			name: "regular-no-included",
			item: model.ReceiptItem{Toppings: toppings("1.00", "1.50")},
			want: []string{"1", "1.5"},
		},
		{
			name: "included-consumes-priced-toppings-in-order",
			item: model.ReceiptItem{
				IncludedToppings: 2,
				Toppings:         toppings("1.00", "1.50", "2.00"),
			},
			want: []string{"free", "free", "2"},
		},
		{
			name: "zero-price-topping-does-not-consume-free-slot",
			item: model.ReceiptItem{
				IncludedToppings: 1,
				Toppings:         toppings("0", "1.00"),
			},
			want: []string{"0", "free"},
		},
		{
			name: "family-doubles-every-price",
			item: model.ReceiptItem{
				Size:     "Perhe",
				Toppings: toppings("1.00", "1.50"),
			},
			want: []string{"2", "3"},
		},
		{
			name: "large-bumps-exactly-one-euro",
			item: model.ReceiptItem{
				Size:     "Iso",
				Toppings: toppings("1.00", "1.50", "1.01"),
			},
			want: []string{"2", "1.5", "1.01"},
		},
		{
			name: "legacy-item-616-gets-four-included",
			item: model.ReceiptItem{
				MenuItemID: "616",
				Toppings:   toppings("1.00", "1.00", "1.00", "1.00", "1.00"),
			},
			want: []string{"free", "free", "free", "free", "1"},
		},
		{
			name: "family-applies-after-free-slots",
			item: model.ReceiptItem{
				Size:             "family",
				IncludedToppings: 1,
				Toppings:         toppings("1.00", "1.50"),
			},
			want: []string{"free", "3"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := PriceToppings(&tc.item)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d toppings, want %d", len(got), len(tc.want))
			}
			for i, w := range tc.want {
				if w == "free" {
					if !got[i].Free {
						t.Fatalf("topping %d: expected free, got price %s", i, got[i].Price)
					}
					if !got[i].Price.IsZero() {
						t.Fatalf("topping %d: free topping must print zero, got %s", i, got[i].Price)
					}
					continue
				}
				if got[i].Free {
					t.Fatalf("topping %d: unexpected free", i)
				}
				if !got[i].Price.Equal(dec(w)) {
					t.Fatalf("topping %d: price = %s, want %s", i, got[i].Price, w)
				}
			}
		})
	}
}

func TestPriceToppingsNilAndEmpty(t *testing.T) {
	if got := PriceToppings(nil); got != nil {
		t.Fatalf("nil item: got %v, want nil", got)
	}
	if got := PriceToppings(&model.ReceiptItem{}); got != nil {
		t.Fatalf("no toppings: got %v, want nil", got)
	}
}

func TestNormalizeSize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "regular"},
		{"Normaali", "regular"},
		{"Iso", "large"},
		{"LARGE", "large"},
		{"perhepizza", "family"},
		{"Family size", "family"},
		{"  iso  ", "large"},
	}

	for _, tc := range tests {
		if got := normalizeSize(tc.in); got != tc.want {
			t.Fatalf("normalizeSize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
