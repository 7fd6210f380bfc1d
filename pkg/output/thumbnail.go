package output

import (
	"image"

	"github.com/nfnt/resize"
)

// Thumbnail scales img to the given width, keeping its aspect ratio
func Thumbnail(img image.Image, width int) image.Image {
	return resize.Resize(uint(width), 0, img, resize.Bilinear)
}
