// internal/codec/qr.go
package codec

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QRBitmap renders QR content to a monochrome bitmap for printers
// without a native QR command. size is the edge length in pixels.
func QRBitmap(content string, size int) (*Bitmap, error) {
	if size <= 0 {
		size = 256
	}
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	qr.DisableBorder = false
	return Rasterize(qr.Image(size)), nil
}
