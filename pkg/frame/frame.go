package frame

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const dataURIMarker = ";base64,"

const (
	// DefaultMaxPayloadBytes bounds the base64 text accepted for a single frame.
	DefaultMaxPayloadBytes = 8 * 1024 * 1024
	// DefaultMaxPixels bounds the width*height an image header may declare.
	DefaultMaxPixels = 40_000_000
)

var (
	// ErrDecodeFailed is returned when a payload is not valid base64 or not a readable image.
	ErrDecodeFailed = errors.New("decode_failed")
)

// Frame is one decoded webcam image. It only lives for the duration of a single message.
type Frame struct {
	Image  image.Image
	Raw    []byte
	Format string
	Width  int
	Height int
}

type Decoder struct {
	maxPayloadBytes int
	maxPixels       int
}

func NewDecoder(maxPayloadBytes, maxPixels int) *Decoder {
	if maxPayloadBytes <= 0 {
		maxPayloadBytes = DefaultMaxPayloadBytes
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &Decoder{maxPayloadBytes: maxPayloadBytes, maxPixels: maxPixels}
}

// Decode strips an optional data URI prefix, base64-decodes the rest and decodes the
// resulting bytes into a raster. EXIF orientation is applied so that width and height
// match what the browser rendered.
func (d *Decoder) Decode(payload string) (*Frame, error) {
	if len(payload) > d.maxPayloadBytes {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds limit of %d", ErrDecodeFailed, len(payload), d.maxPayloadBytes)
	}

	raw, err := DecodeBase64(StripDataURI(payload))
	if err != nil {
		return nil, err
	}

	return decodeImage(raw, d.maxPixels)
}

// Decode uses the default payload and pixel limits.
func Decode(payload string) (*Frame, error) {
	return NewDecoder(DefaultMaxPayloadBytes, DefaultMaxPixels).Decode(payload)
}

// StripDataURI removes everything up to and including the first ";base64," marker.
// Strings without the marker are returned unchanged.
func StripDataURI(payload string) string {
	if idx := strings.Index(payload, dataURIMarker); idx >= 0 {
		return payload[idx+len(dataURIMarker):]
	}
	return payload
}

func DecodeBase64(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, fmt.Errorf("%w: empty image data", ErrDecodeFailed)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err == nil {
		return data, nil
	}

	// some encoders drop the trailing padding
	if len(encoded)%4 != 0 {
		if data, rawErr := base64.RawStdEncoding.DecodeString(encoded); rawErr == nil {
			return data, nil
		}
	}

	return nil, fmt.Errorf("%w: invalid base64: %v", ErrDecodeFailed, err)
}

// DecodeImage decodes raw with the default pixel limit.
func DecodeImage(raw []byte) (*Frame, error) {
	return decodeImage(raw, DefaultMaxPixels)
}

// decodeImage reads the header first so that a declared size above maxPixels is
// rejected before any pixel buffer is allocated.
func decodeImage(raw []byte, maxPixels int) (*Frame, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: unrecognized image container: %v", ErrDecodeFailed, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %s header declares %dx%d", ErrDecodeFailed, format, cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, fmt.Errorf("%w: %s image of %dx%d exceeds limit of %d pixels", ErrDecodeFailed, format, cfg.Width, cfg.Height, maxPixels)
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s image: %v", ErrDecodeFailed, format, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty %s image", ErrDecodeFailed, format)
	}

	return &Frame{
		Image:  img,
		Raw:    raw,
		Format: format,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// Encode returns bytes suitable for forwarding to a landmark service. The original
// upload is reused when available.
func (f *Frame) Encode() ([]byte, error) {
	if len(f.Raw) > 0 {
		return f.Raw, nil
	}
	if f.Image == nil {
		return nil, fmt.Errorf("%w: frame has no image", ErrDecodeFailed)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, f.Image, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}
