// internal/codec/raster.go
package codec

// Raster packing for the two command families. Both pack 8 horizontal
// pixels per byte with bit 7 as the leftmost pixel; a source pixel
// below 128 sets its bit. Width is padded up to a multiple of 8 with
// white pixels.

// rowBytes packs one pixel row starting at off into widthBytes bytes.
func rowBytes(bm *Bitmap, off, widthBytes int) []byte {
	row := make([]byte, widthBytes)
	for x := 0; x < bm.Width; x++ {
		if bm.Pixels[off+x] < 128 {
			row[x/8] |= 0x80 >> uint(x%8)
		}
	}
	return row
}

// PackEscPosRaster emits the bitmap in 24-row stripes using ESC * 33
// (24-dot double-density bit image mode). Each stripe carries the
// column data for 24 pixel rows, three bytes per column.
func PackEscPosRaster(bm *Bitmap) []byte {
	var out []byte
	width := bm.Width

	for top := 0; top < bm.Height; top += 24 {
		// ESC * m nL nH
		out = append(out, 0x1B, 0x2A, 0x21, byte(width&0xFF), byte(width>>8))
		for x := 0; x < width; x++ {
			for band := 0; band < 3; band++ {
				var b byte
				for bit := 0; bit < 8; bit++ {
					y := top + band*8 + bit
					if y >= bm.Height {
						continue
					}
					if bm.Pixels[y*width+x] < 128 {
						b |= 0x80 >> uint(bit)
					}
				}
				out = append(out, b)
			}
		}
		// LF advances past the stripe
		out = append(out, 0x0A)
	}
	return out
}

// PackStarRaster emits the bitmap one 8-pixel-high row of bytes at a
// time using ESC K (Star normal-density bit image), the stripe height
// Star Line Mode firmwares accept universally.
func PackStarRaster(bm *Bitmap) []byte {
	widthBytes := (bm.Width + 7) / 8
	var out []byte

	for y := 0; y < bm.Height; y++ {
		// ESC K nL nH
		out = append(out, 0x1B, 0x4B, byte(widthBytes&0xFF), byte(widthBytes>>8))
		out = append(out, rowBytes(bm, y*bm.Width, widthBytes)...)
		out = append(out, 0x0A)
	}
	return out
}
