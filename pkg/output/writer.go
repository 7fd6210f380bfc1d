package output

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/df07/go-normals-raytracer/pkg/canvas"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// JPEGQuality is the quality used for .jpg outputs
const JPEGQuality = 95

type saveOptions struct {
	uploader   Uploader
	s3Region   string
	s3Endpoint string
}

// Option configures Save
type Option func(*saveOptions)

// WithUploader sets the object-store client used for s3:// destinations
func WithUploader(u Uploader) Option {
	return func(o *saveOptions) {
		o.uploader = u
	}
}

// WithS3 configures the default S3 uploader's region and endpoint
func WithS3(region, endpoint string) Option {
	return func(o *saveOptions) {
		o.s3Region = region
		o.s3Endpoint = endpoint
	}
}

// Encode writes buf to w in the given format
func Encode(w io.Writer, buf *canvas.PixelBuffer, format Format) error {
	if format == FormatPPM {
		return writePPM(w, buf.Width, buf.Height, buf.RGB())
	}
	return EncodeImage(w, buf.ToImage(), format)
}

// EncodeImage writes any image to w in the given format
func EncodeImage(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPPM:
		b := img.Bounds()
		return writePPM(w, b.Dx(), b.Dy(), imageRGB(img))
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
}

// writePPM writes a binary (P6) PPM
func writePPM(w io.Writer, width, height int, rgb []byte) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", width, height); err != nil {
		return err
	}
	if _, err := bw.Write(rgb); err != nil {
		return err
	}
	return bw.Flush()
}

func imageRGB(img image.Image) []byte {
	b := img.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy()*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			out = append(out, uint8(r>>8), uint8(g>>8), uint8(bl>>8))
		}
	}
	return out
}

// compress wraps w so that everything written is compressed; Close flushes but does not close w
func compress(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionGzip:
		return gzip.NewWriter(w), nil
	case CompressionZstd:
		return zstd.NewWriter(w)
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nopCloser{w}, nil
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// encodeTo encodes with compression into w
func encodeTo(w io.Writer, compression Compression, encode func(io.Writer) error) error {
	cw, err := compress(w, compression)
	if err != nil {
		return err
	}
	if err := encode(cw); err != nil {
		cw.Close()
		return err
	}
	return cw.Close()
}

// Save encodes buf according to dest's extension and writes it to dest,
// which is a local path or s3://bucket/key. It returns the number of bytes written.
func Save(ctx context.Context, buf *canvas.PixelBuffer, dest string, opts ...Option) (int64, error) {
	return save(ctx, dest, func(w io.Writer, f Format) error { return Encode(w, buf, f) }, opts)
}

// SaveImage is like Save for an arbitrary image
func SaveImage(ctx context.Context, img image.Image, dest string, opts ...Option) (int64, error) {
	return save(ctx, dest, func(w io.Writer, f Format) error { return EncodeImage(w, img, f) }, opts)
}

func save(ctx context.Context, dest string, encode func(io.Writer, Format) error, opts []Option) (int64, error) {
	format, compression, err := DetectFormat(dest)
	if err != nil {
		return 0, err
	}

	var o saveOptions
	for _, opt := range opts {
		opt(&o)
	}

	var data bytes.Buffer
	if err := encodeTo(&data, compression, func(w io.Writer) error { return encode(w, format) }); err != nil {
		return 0, fmt.Errorf("encoding %s: %w", dest, err)
	}

	if bucket, key, ok, err := ParseS3URL(dest); ok || err != nil {
		if err != nil {
			return 0, err
		}
		contentType := format.ContentType()
		if ct := compression.ContentType(); ct != "" {
			contentType = ct
		}
		uploader := o.uploader
		if uploader == nil {
			if uploader, err = NewS3Uploader(ctx, o.s3Region, o.s3Endpoint); err != nil {
				return 0, err
			}
		}
		size := int64(data.Len())
		if err := uploader.Upload(ctx, bucket, key, contentType, &data); err != nil {
			return 0, fmt.Errorf("uploading %s: %w", dest, err)
		}
		return size, nil
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return writeFileAtomic(dest, data.Bytes())
}

// writeFileAtomic writes through a temp file in the destination directory and renames it into place
func writeFileAtomic(dest string, data []byte) (int64, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".render-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp file for %s: %w", dest, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	n, err := tmp.Write(data)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return 0, fmt.Errorf("writing %s: %w", dest, err)
	}
	return int64(n), nil
}
