package output

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-normals-raytracer/pkg/canvas"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testBuffer() *canvas.PixelBuffer {
	buf := canvas.New(3, 2)
	buf.Set(0, 0, 0xFF0000)
	buf.Set(1, 0, 0x00FF00)
	buf.Set(2, 0, 0x0000FF)
	buf.Set(0, 1, 0x808080)
	buf.Set(2, 1, 0xFFFFFF)
	return buf
}

func expectedPPM(t *testing.T) []byte {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, Encode(&b, testBuffer(), FormatPPM))
	return b.Bytes()
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		dest        string
		format      Format
		compression Compression
		wantErr     bool
	}{
		{"image.ppm", FormatPPM, CompressionNone, false},
		{"out/render.PNG", FormatPNG, CompressionNone, false},
		{"a.jpg", FormatJPEG, CompressionNone, false},
		{"a.jpeg", FormatJPEG, CompressionNone, false},
		{"render.ppm.gz", FormatPPM, CompressionGzip, false},
		{"render.png.zst", FormatPNG, CompressionZstd, false},
		{"s3://bucket/k/render.ppm.lz4", FormatPPM, CompressionLZ4, false},
		{"render.bmp", 0, 0, true},
		{"render", 0, 0, true},
		{"render.gz", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.dest, func(t *testing.T) {
			format, compression, err := DetectFormat(tt.dest)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnsupportedFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.format, format)
			assert.Equal(t, tt.compression, compression)
		})
	}
}

func TestThumbnailPath(t *testing.T) {
	assert.Equal(t, "image_thumb.png", ThumbnailPath("image.ppm"))
	assert.Equal(t, "out/render_thumb.png", ThumbnailPath("out/render.ppm.gz"))
	assert.Equal(t, "s3://b/renders/x_thumb.png", ThumbnailPath("s3://b/renders/x.png"))
}

func TestEncode_PPM(t *testing.T) {
	data := expectedPPM(t)
	header := "P6\n3 2\n255\n"
	require.True(t, bytes.HasPrefix(data, []byte(header)))

	pixels := data[len(header):]
	assert.Equal(t, []byte{
		255, 0, 0, 0, 255, 0, 0, 0, 255,
		128, 128, 128, 0, 0, 0, 255, 255, 255,
	}, pixels)
}

func TestEncodeImage_PPMMatchesBuffer(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, EncodeImage(&b, testBuffer().ToImage(), FormatPPM))
	assert.Equal(t, expectedPPM(t), b.Bytes())
}

func TestSave_Local(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	decompressors := map[string]func(io.Reader) (io.Reader, error){
		"render.ppm": func(r io.Reader) (io.Reader, error) { return r, nil },
		"render.ppm.gz": func(r io.Reader) (io.Reader, error) {
			return gzip.NewReader(r)
		},
		"render.ppm.zst": func(r io.Reader) (io.Reader, error) {
			return zstd.NewReader(r)
		},
		"render.ppm.lz4": func(r io.Reader) (io.Reader, error) {
			return lz4.NewReader(r), nil
		},
	}

	for name, decompress := range decompressors {
		t.Run(name, func(t *testing.T) {
			dest := filepath.Join(dir, name)
			n, err := Save(ctx, testBuffer(), dest)
			require.NoError(t, err)

			raw, err := os.ReadFile(dest)
			require.NoError(t, err)
			assert.Equal(t, int64(len(raw)), n)

			r, err := decompress(bytes.NewReader(raw))
			require.NoError(t, err)
			plain, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, expectedPPM(t), plain)
		})
	}
}

func TestSave_PNGRoundTrip(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nested", "dir", "render.png")
	_, err := Save(context.Background(), testBuffer(), dest)
	require.NoError(t, err)

	f, err := os.Open(dest)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, color.RGBAModel.Convert(img.At(1, 0)))
}

func TestSave_JPEG(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "render.jpg")
	n, err := Save(context.Background(), testBuffer(), dest)
	require.NoError(t, err)
	assert.Positive(t, n)

	f, err := os.Open(dest)
	require.NoError(t, err)
	defer f.Close()
	_, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestSave_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Save(context.Background(), testBuffer(), filepath.Join(dir, "render.tga"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)

	// Destination is an existing directory: the rename fails and no temp file is left behind
	blocked := filepath.Join(dir, "blocked.png")
	require.NoError(t, os.Mkdir(blocked, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(blocked, "keep"), nil, 0o644))
	_, err = Save(context.Background(), testBuffer(), blocked)
	assert.Error(t, err)
	entries, _ = os.ReadDir(dir)
	assert.Len(t, entries, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Save(ctx, testBuffer(), filepath.Join(dir, "late.png"))
	assert.True(t, errors.Is(err, context.Canceled))
}

// MockUploader implements Uploader for testing
type MockUploader struct {
	mock.Mock
	body []byte
}

func (m *MockUploader) Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.body = data
	args := m.Called(ctx, bucket, key, contentType)
	return args.Error(0)
}

func TestSave_S3(t *testing.T) {
	ctx := context.Background()

	t.Run("uploads encoded bytes", func(t *testing.T) {
		uploader := new(MockUploader)
		uploader.On("Upload", mock.Anything, "renders", "2024/image.ppm", "image/x-portable-pixmap").Return(nil).Once()

		n, err := Save(ctx, testBuffer(), "s3://renders/2024/image.ppm", WithUploader(uploader))
		require.NoError(t, err)
		assert.Equal(t, expectedPPM(t), uploader.body)
		assert.Equal(t, int64(len(uploader.body)), n)
		uploader.AssertExpectations(t)
	})

	t.Run("compressed content type", func(t *testing.T) {
		uploader := new(MockUploader)
		uploader.On("Upload", mock.Anything, "renders", "image.png.gz", "application/gzip").Return(nil).Once()

		_, err := Save(ctx, testBuffer(), "s3://renders/image.png.gz", WithUploader(uploader))
		require.NoError(t, err)
		uploader.AssertExpectations(t)
	})

	t.Run("upload failure is surfaced", func(t *testing.T) {
		uploader := new(MockUploader)
		uploader.On("Upload", mock.Anything, "renders", "x.png", "image/png").Return(errors.New("access denied")).Once()

		_, err := Save(ctx, testBuffer(), "s3://renders/x.png", WithUploader(uploader))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access denied")
	})

	t.Run("malformed URL", func(t *testing.T) {
		_, err := Save(ctx, testBuffer(), "s3://only-bucket.png", WithUploader(new(MockUploader)))
		assert.True(t, errors.Is(err, ErrInvalidDestination))
	})
}

func TestParseS3URL(t *testing.T) {
	bucket, key, ok, err := ParseS3URL("s3://b/a/b/c.png")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", bucket)
	assert.Equal(t, "a/b/c.png", key)

	_, _, ok, err = ParseS3URL("/tmp/c.png")
	assert.NoError(t, err)
	assert.False(t, ok)
}
