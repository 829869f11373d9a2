// internal/normalizer/normalizer.go
package normalizer

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"printer-service/internal/model"
)

// DefaultDeliveryFee is charged when the order is a delivery and no
// explicit fee field is present in the payload.
var DefaultDeliveryFee = decimal.NewFromInt(3)

// DeliveryFeeLabel is the synthetic line item name for the fee.
const DeliveryFeeLabel = "Toimitusmaksu"

// Normalizer turns arbitrary order payload shapes into a canonical
// printable receipt.
type Normalizer struct {
	logger *zap.Logger
}

// New creates an order normalizer.
func New(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger.With(zap.String("component", "normalizer"))}
}

// Normalize canonicalizes a raw order payload. It never returns an
// error for bad item data: if no strategy yields items it degrades to
// a total-only receipt, and failing that to an emergency receipt.
// Printing something is preferred over printing nothing.
func (n *Normalizer) Normalize(payload model.JSONObject) (*model.ReceiptData, error) {
	if payload == nil {
		payload = model.JSONObject{}
	}

	receipt := n.extractOrderFields(payload)

	for _, s := range strategies {
		if items := s.parse(payload); len(items) > 0 {
			receipt.Items = items
			n.logger.Debug("Order parsed",
				zap.String("strategy", s.name),
				zap.String("order_number", receipt.OrderNumber),
				zap.Int("items", len(items)),
			)
			break
		}
	}

	if len(receipt.Items) == 0 {
		n.degrade(receipt, payload)
	}

	n.applyFees(receipt, payload)
	n.computeTotals(receipt, payload)

	if err := receipt.Validate(); err != nil {
		return nil, err
	}
	for _, w := range receipt.Warnings {
		n.logger.Warn("Receipt validation warning",
			zap.String("order_number", receipt.OrderNumber),
			zap.String("warning", w),
		)
	}
	return receipt, nil
}

// extractOrderFields pulls the order-level attributes shared by all
// payload shapes.
func (n *Normalizer) extractOrderFields(payload model.JSONObject) *model.ReceiptData {
	r := &model.ReceiptData{
		OrderNumber: stringField(payload, "order_number", "orderNumber", "number", "order_id", "id"),
		OrderType:   stringField(payload, "order_type", "orderType", "delivery_type", "type"),
		Payment:     stringField(payload, "payment_method", "paymentMethod", "payment"),
		OrderTime:   timeField(payload, "created_at", "createdAt", "timestamp", "order_time"),

		CustomerName:    stringField(payload, "customer_name", "customerName", "name"),
		CustomerPhone:   stringField(payload, "customer_phone", "customerPhone", "phone"),
		DeliveryAddress: stringField(payload, "delivery_address", "deliveryAddress", "address"),

		BranchName:    stringField(payload, "branch_name", "branchName", "restaurant_name"),
		BranchAddress: stringField(payload, "branch_address", "branchAddress"),
		BranchPhone:   stringField(payload, "branch_phone", "branchPhone"),
	}

	if customer := mapField(payload, "customer", "client"); customer != nil {
		if r.CustomerName == "" {
			r.CustomerName = stringField(customer, "name", "full_name")
		}
		if r.CustomerPhone == "" {
			r.CustomerPhone = stringField(customer, "phone", "phone_number")
		}
		if r.DeliveryAddress == "" {
			r.DeliveryAddress = stringField(customer, "address", "delivery_address")
		}
	}

	if r.OrderType == "" && boolField(payload, "is_delivery", "isDelivery") {
		r.OrderType = "delivery"
	}

	r.Instructions = stringField(payload, "order_instructions", "delivery_instructions", "order_notes")

	return r
}

// degrade builds the total-only or emergency receipt when every
// parsing strategy came up empty.
func (n *Normalizer) degrade(r *model.ReceiptData, payload model.JSONObject) {
	if total, ok := decimalField(payload, "total", "total_amount", "totalAmount", "grand_total", "amount"); ok && total.IsPositive() {
		n.logger.Warn("No items extracted, printing total-only receipt",
			zap.String("order_number", r.OrderNumber),
		)
		r.Items = []model.ReceiptItem{{
			Name:       "Order Total",
			Quantity:   1,
			UnitPrice:  total,
			TotalPrice: total,
		}}
		r.Warnings = append(r.Warnings, "order items unavailable, total only")
		return
	}

	n.logger.Error("Order payload unparseable, printing emergency receipt",
		zap.String("order_number", r.OrderNumber),
	)
	r.Items = []model.ReceiptItem{{
		Name:     "Tilaus",
		Quantity: 1,
		Notes:    "Tilauksen tiedot eivät ole saatavilla",
	}}
	r.Warnings = append(r.Warnings, "order details unavailable")
}

// applyFees synthesizes the delivery fee line item for delivery
// orders without an explicit fee, and copies explicit fee fields.
func (n *Normalizer) applyFees(r *model.ReceiptData, payload model.JSONObject) {
	fee, explicit := decimalField(payload, "delivery_fee", "deliveryFee", "shipping_fee")
	isDelivery := r.OrderType == "delivery"

	switch {
	case explicit && fee.IsPositive():
		r.Items = append(r.Items, feeItem(fee))
	case !explicit && isDelivery:
		r.Items = append(r.Items, feeItem(DefaultDeliveryFee))
	}

	if small, ok := decimalField(payload, "small_order_fee", "smallOrderFee"); ok {
		r.SmallOrderFee = small
	}
	if discount, ok := decimalField(payload, "discount", "discount_amount"); ok {
		r.Discount = discount
	}
}

func feeItem(fee decimal.Decimal) model.ReceiptItem {
	return model.ReceiptItem{
		Name:       DeliveryFeeLabel,
		Quantity:   1,
		UnitPrice:  fee,
		TotalPrice: fee,
	}
}

// computeTotals derives subtotal and grand total. An explicit total
// in the payload wins; otherwise the grand total is the item sum
// (delivery fee included as a line item) plus fees minus discount.
func (n *Normalizer) computeTotals(r *model.ReceiptData, payload model.JSONObject) {
	sum := decimal.Zero
	for _, item := range r.Items {
		sum = sum.Add(item.TotalPrice)
	}
	r.Subtotal = sum

	if total, ok := decimalField(payload, "total", "total_amount", "totalAmount", "grand_total"); ok && total.IsPositive() {
		r.Total = total
		return
	}
	r.Total = sum.Add(r.SmallOrderFee).Sub(r.Discount)
}
