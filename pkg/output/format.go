// Package output encodes rendered pixel buffers and writes them to local files or object storage.
package output

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrUnsupportedFormat is returned for destinations whose extension has no encoder
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Format is an image encoding
type Format int

const (
	FormatPPM Format = iota
	FormatPNG
	FormatJPEG
)

func (f Format) String() string {
	switch f {
	case FormatPPM:
		return "ppm"
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ContentType returns the MIME type of the encoded image
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	default:
		return "image/x-portable-pixmap"
	}
}

// Compression is an optional stream compression applied after encoding
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
	CompressionLZ4
)

var compressionSuffixes = map[string]Compression{
	".gz":  CompressionGzip,
	".zst": CompressionZstd,
	".lz4": CompressionLZ4,
}

// ContentType returns the MIME type of the compressed stream, or "" for none
func (c Compression) ContentType() string {
	switch c {
	case CompressionGzip:
		return "application/gzip"
	case CompressionZstd:
		return "application/zstd"
	case CompressionLZ4:
		return "application/x-lz4"
	default:
		return ""
	}
}

// DetectFormat derives the encoding and compression from a destination's extensions,
// e.g. "render.ppm.zst" is a zstd-compressed PPM.
func DetectFormat(dest string) (Format, Compression, error) {
	name := strings.ToLower(path.Base(dest))

	compression := CompressionNone
	if c, ok := compressionSuffixes[path.Ext(name)]; ok {
		compression = c
		name = strings.TrimSuffix(name, path.Ext(name))
	}

	switch ext := path.Ext(name); ext {
	case ".ppm":
		return FormatPPM, compression, nil
	case ".png":
		return FormatPNG, compression, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, compression, nil
	default:
		return 0, 0, fmt.Errorf("%w: %q (supported: ppm, png, jpg/jpeg, optionally .gz/.zst/.lz4)", ErrUnsupportedFormat, ext)
	}
}

// ThumbnailPath returns the preview destination for dest: "out/render.ppm.gz" -> "out/render_thumb.png"
func ThumbnailPath(dest string) string {
	dir, name := path.Split(dest)
	if _, ok := compressionSuffixes[strings.ToLower(path.Ext(name))]; ok {
		name = strings.TrimSuffix(name, path.Ext(name))
	}
	name = strings.TrimSuffix(name, path.Ext(name))
	return dir + name + "_thumb.png"
}
