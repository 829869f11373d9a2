// internal/encoder/escpos/receipt.go
package escpos

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"printer-service/internal/codec"
	"printer-service/internal/encoder"
	"printer-service/internal/model"
)

// Encoder implements encoder.Encoder for the ESC/POS command family.
type Encoder struct {
	cfg    encoder.Config
	logger *zap.Logger
}

// New creates an ESC/POS encoder.
func New(cfg encoder.Config, logger *zap.Logger) *Encoder {
	return &Encoder{
		cfg:    cfg.WithDefaults(),
		logger: logger.With(zap.String("encoder", "escpos")),
	}
}

// Protocol returns the command family.
func (e *Encoder) Protocol() model.CommandProtocol {
	return model.ProtocolEscPos
}

// EncodeReceipt serializes the full receipt template; malformed data
// drops to the basic template instead of aborting the print.
func (e *Encoder) EncodeReceipt(receipt *model.ReceiptData, device *model.PrinterDevice) ([]byte, error) {
	out, err := e.composeFull(receipt, device)
	if err != nil {
		e.logger.Warn("Full receipt composition failed, using basic template",
			zap.String("order_number", receipt.OrderNumber),
			zap.Error(err),
		)
		return e.composeBasic(receipt, device)
	}
	return out, nil
}

// EncodeText serializes plain text with initialize and cut wrapped
// around it.
func (e *Encoder) EncodeText(text string, device *model.PrinterDevice) ([]byte, error) {
	b := NewBuilder(e.cfg.PaperWidthFor(device))
	b.Initialize()
	b.Align(encoder.AlignLeft)
	for _, line := range strings.Split(text, "\n") {
		b.Line(line)
	}
	b.Cut()
	return b.Bytes(), nil
}

// composeFull lays out the fixed receipt template: header, order
// block, customer block, items with toppings, instructions, totals,
// QR, footer, cut.
func (e *Encoder) composeFull(r *model.ReceiptData, device *model.PrinterDevice) (out []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("receipt composition: %v", rec)
		}
	}()

	if r == nil || len(r.Items) == 0 {
		return nil, fmt.Errorf("receipt has no items: %w", model.ErrInvalidData)
	}

	b := NewBuilder(e.cfg.PaperWidthFor(device))
	b.Initialize()

	// Header
	b.Align(encoder.AlignCenter)
	b.CharSize(2, 2)
	b.Bold(true)
	b.Line(headerText(r))
	b.Bold(false)
	b.CharSize(1, 1)
	if r.BranchAddress != "" {
		b.Line(r.BranchAddress)
	}
	if r.BranchPhone != "" {
		b.Line(r.BranchPhone)
	}
	b.Line(encoder.Separator(b.Width()))

	// Order number and time
	b.Align(encoder.AlignLeft)
	b.Bold(true)
	b.TwoColumn("Tilaus #"+r.OrderNumber, r.OrderTime.Format("02.01.2006 15:04"))
	b.Bold(false)

	// Order type and payment
	b.Line(orderTypeLabel(r.OrderType))
	if r.Payment != "" {
		b.Line("Maksutapa: " + r.Payment)
	}

	// Customer block only for orders that carry one
	if r.CustomerName != "" || r.DeliveryAddress != "" {
		b.Line(encoder.Separator(b.Width()))
		if r.CustomerName != "" {
			b.Line(r.CustomerName)
		}
		if r.CustomerPhone != "" {
			b.Line(r.CustomerPhone)
		}
		if r.DeliveryAddress != "" {
			for _, line := range encoder.WrapText(r.DeliveryAddress, b.Width()) {
				b.Line(line)
			}
		}
	}
	b.Line(encoder.Separator(b.Width()))

	// Items
	for i := range r.Items {
		e.composeItem(b, &r.Items[i])
	}

	// Order-level instructions
	if r.Instructions != "" {
		b.Line(encoder.Separator(b.Width()))
		b.Bold(true)
		b.Line("HUOM:")
		b.Bold(false)
		for _, line := range encoder.WrapText(r.Instructions, b.Width()) {
			b.Line(line)
		}
	}

	// Totals
	b.Line(encoder.Separator(b.Width()))
	b.TwoColumn("Välisumma", r.Subtotal.StringFixed(2))
	if r.DeliveryFee.IsPositive() {
		b.TwoColumn("Toimitusmaksu", r.DeliveryFee.StringFixed(2))
	}
	if r.SmallOrderFee.IsPositive() {
		b.TwoColumn("Pientilauslisä", r.SmallOrderFee.StringFixed(2))
	}
	if r.Discount.IsPositive() {
		b.TwoColumn("Alennus", "-"+r.Discount.StringFixed(2))
	}
	b.Bold(true)
	b.CharSize(2, 2)
	b.TwoColumn("YHTEENSÄ", r.Total.StringFixed(2)+"€")
	b.CharSize(1, 1)
	b.Bold(false)

	// QR link
	e.composeQR(b, device)

	// Footer
	b.Align(encoder.AlignCenter)
	if r.Footer != "" {
		b.Line(r.Footer)
	}
	b.Line("Kiitos käynnistä!")
	b.Cut()

	return b.Bytes(), nil
}

// composeItem lays out one item with its size, toppings and notes.
func (e *Encoder) composeItem(b *Builder, item *model.ReceiptItem) {
	name, size := encoder.ItemNameSize(item)
	left := fmt.Sprintf("%dx %s", item.Quantity, name)
	if size != "" {
		left += " (" + size + ")"
	}
	b.TwoColumn(left, item.TotalPrice.StringFixed(2))

	for _, t := range encoder.PriceToppings(item) {
		price := t.Price.StringFixed(2)
		if t.Free {
			price = encoder.FreeToppingMarker
		}
		b.TwoColumn("  + "+t.Name, price)
	}

	if notes := strings.TrimSpace(item.Notes); notes != "" && !strings.HasPrefix(strings.ToLower(notes), "size:") {
		for _, line := range encoder.WrapText("* "+notes, b.Width()-2) {
			b.Line("  " + line)
		}
	}
}

// composeQR prints the receipt link: natively when the device has the
// QR command set, as a dithered bitmap when it can only print images,
// and not at all otherwise.
func (e *Encoder) composeQR(b *Builder, device *model.PrinterDevice) {
	b.Align(encoder.AlignCenter)
	b.Feed(1)
	switch {
	case device == nil || device.SupportsQR:
		b.QRCode(e.cfg.QRURL)
	case device.SupportsImage:
		bm, err := codec.QRBitmap(e.cfg.QRURL, 240)
		if err != nil {
			e.logger.Warn("QR bitmap generation failed", zap.Error(err))
			return
		}
		b.Image(bm)
	default:
		return
	}
	b.Line(e.cfg.QRURL)
}

// composeBasic is the minimal fallback template used when the full
// composition fails: one line per item, a total, no formatting beyond
// a bold header.
func (e *Encoder) composeBasic(r *model.ReceiptData, device *model.PrinterDevice) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("no receipt data: %w", model.ErrInvalidData)
	}

	b := NewBuilder(e.cfg.PaperWidthFor(device))
	b.Initialize()
	b.Align(encoder.AlignCenter)
	b.Bold(true)
	b.Line(headerText(r))
	b.Bold(false)
	b.Align(encoder.AlignLeft)
	if r.OrderNumber != "" {
		b.Line("Tilaus #" + r.OrderNumber)
	}
	b.Line(encoder.Separator(b.Width()))
	for _, item := range r.Items {
		b.TwoColumn(fmt.Sprintf("%dx %s", item.Quantity, item.Name), item.TotalPrice.StringFixed(2))
	}
	b.Line(encoder.Separator(b.Width()))
	b.Bold(true)
	b.TwoColumn("YHTEENSÄ", r.Total.StringFixed(2)+"€")
	b.Bold(false)
	b.Cut()
	return b.Bytes(), nil
}

func headerText(r *model.ReceiptData) string {
	if r.Header != "" {
		return r.Header
	}
	if r.BranchName != "" {
		return r.BranchName
	}
	return "KUITTI"
}

func orderTypeLabel(orderType string) string {
	switch strings.ToLower(orderType) {
	case "delivery":
		return "KOTIINKULJETUS"
	case "pickup", "takeaway":
		return "NOUTO"
	case "dine-in", "dinein":
		return "PAIKAN PÄÄLLÄ"
	default:
		return strings.ToUpper(orderType)
	}
}
