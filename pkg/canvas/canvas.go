// Package canvas holds the packed-RGB pixel buffer the renderer writes into.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrSizeMismatch is returned when pixel data does not match the declared dimensions
var ErrSizeMismatch = errors.New("pixel buffer size mismatch")

// PixelBuffer is a fixed-size, row-major buffer of packed 0xRRGGBB values.
// Pixel (col, row) lives at index row*Width + col; row 0 is the top of the image.
type PixelBuffer struct {
	Width  int
	Height int
	Pixels []uint32
}

// New allocates a zeroed (black) buffer
func New(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pixels: make([]uint32, width*height),
	}
}

// FromPixels wraps existing pixel data, checking its length
func FromPixels(pixels []uint32, width, height int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height {
		return nil, fmt.Errorf("%w: %d pixels for %dx%d", ErrSizeMismatch, len(pixels), width, height)
	}
	return &PixelBuffer{Width: width, Height: height, Pixels: pixels}, nil
}

// Index returns the linear index of pixel (col, row)
func (b *PixelBuffer) Index(col, row int) int {
	return row*b.Width + col
}

// Set stores a packed color at (col, row)
func (b *PixelBuffer) Set(col, row int, packed uint32) {
	b.Pixels[b.Index(col, row)] = packed
}

// At returns the packed color at (col, row)
func (b *PixelBuffer) At(col, row int) uint32 {
	return b.Pixels[b.Index(col, row)]
}

// Pack combines 8-bit channels into 0xRRGGBB
func Pack(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Unpack splits 0xRRGGBB into 8-bit channels
func Unpack(packed uint32) (r, g, b uint8) {
	return uint8(packed >> 16), uint8(packed >> 8), uint8(packed)
}

// ToImage converts the buffer into an opaque RGBA image
func (b *PixelBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for row := 0; row < b.Height; row++ {
		for col := 0; col < b.Width; col++ {
			r, g, bl := Unpack(b.At(col, row))
			img.SetRGBA(col, row, color.RGBA{R: r, G: g, B: bl, A: 255})
		}
	}
	return img
}

// RGB returns the buffer as tightly packed 8-bit RGB triples, row by row
func (b *PixelBuffer) RGB() []byte {
	out := make([]byte, 0, len(b.Pixels)*3)
	for _, p := range b.Pixels {
		r, g, bl := Unpack(p)
		out = append(out, r, g, bl)
	}
	return out
}
