// Package image converts the core's raw framebuffer into encoded
// screenshots.
package image

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
)

// HasAlpha samples every 4th byte of a 4-byte-per-pixel buffer and
// reports whether any pixel carries a non-zero alpha. The core's native
// format is XBGR with the X byte always zero, so an all-zero channel
// means the layout has no real alpha.
func HasAlpha(data []byte) bool {
	for i := 3; i < len(data); i += 4 {
		if data[i] != 0 {
			return true
		}
	}
	return false
}

// ToRGBA interprets raw 4-byte R,G,B,X pixel data as an RGBA image.
// When the alpha channel is dead the X bytes are forced opaque,
// otherwise the buffer is taken as true RGBA.
func ToRGBA(data []byte, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	n := copy(img.Pix, data)
	if !HasAlpha(data) {
		for i := 3; i < n; i += 4 {
			img.Pix[i] = 0xFF
		}
	}
	return img
}

// Crop cuts the visible window out of the full framebuffer.
func Crop(img *image.RGBA, x, y, w, h int) *image.RGBA {
	r := image.Rect(x, y, x+w, y+h).Intersect(img.Bounds())
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for row := 0; row < r.Dy(); row++ {
		src := img.PixOffset(r.Min.X, r.Min.Y+row)
		dst := out.PixOffset(0, row)
		copy(out.Pix[dst:dst+r.Dx()*4], img.Pix[src:src+r.Dx()*4])
	}
	return out
}

func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Base64(data []byte) string { return base64.StdEncoding.EncodeToString(data) }
