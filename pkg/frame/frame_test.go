package frame

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeDataURI(t *testing.T) {
	raw := encodePNG(t, 640, 480)
	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	f, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if f.Width != 640 || f.Height != 480 {
		t.Errorf("Expected 640x480, got %dx%d", f.Width, f.Height)
	}
	if f.Format != "png" {
		t.Errorf("Expected png format, got %q", f.Format)
	}
	if !bytes.Equal(f.Raw, raw) {
		t.Error("Raw bytes do not match the uploaded image")
	}
}

func TestDecodeWithoutPrefix(t *testing.T) {
	var buf bytes.Buffer
	img := image.NewGray(image.Rect(0, 0, 32, 16))
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}

	f, err := Decode(base64.StdEncoding.EncodeToString(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if f.Width != 32 || f.Height != 16 {
		t.Errorf("Expected 32x16, got %dx%d", f.Width, f.Height)
	}
	if f.Format != "jpeg" {
		t.Errorf("Expected jpeg format, got %q", f.Format)
	}
}

func TestDecodeUnpadded(t *testing.T) {
	raw := encodePNG(t, 3, 3)
	encoded := strings.TrimRight(base64.StdEncoding.EncodeToString(raw), "=")

	if _, err := Decode("data:image/png;base64," + encoded); err != nil {
		t.Fatalf("Decode of unpadded payload failed: %v", err)
	}
}

func TestDecodeFailures(t *testing.T) {
	cases := map[string]string{
		"invalid base64":    "data:image/jpeg;base64,@@@not-base64@@@",
		"not an image":      "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("hello world")),
		"empty after strip": "data:image/jpeg;base64,",
		"truncated png":     base64.StdEncoding.EncodeToString(encodePNG(t, 8, 8)[:20]),
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(payload)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, ErrDecodeFailed) {
				t.Errorf("Expected ErrDecodeFailed, got %v", err)
			}
		})
	}
}

func TestDecodePayloadLimit(t *testing.T) {
	raw := encodePNG(t, 64, 64)
	payload := base64.StdEncoding.EncodeToString(raw)

	_, err := NewDecoder(len(payload)-1, 0).Decode(payload)
	if !errors.Is(err, ErrDecodeFailed) {
		t.Fatalf("Expected ErrDecodeFailed for oversized payload, got %v", err)
	}
}

// forgedPNG returns a PNG that declares w x h RGBA pixels but carries no image data.
func forgedPNG(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	chunk := func(kind string, data []byte) {
		binary.Write(&buf, binary.BigEndian, uint32(len(data)))
		body := append([]byte(kind), data...)
		buf.Write(body)
		binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(body))
	}

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // truecolor with alpha
	chunk("IHDR", ihdr)
	chunk("IDAT", nil)
	chunk("IEND", nil)

	return buf.Bytes()
}

func TestDecodeRejectsOversizedHeader(t *testing.T) {
	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(forgedPNG(60000, 60000))

	_, err := Decode(payload)
	if !errors.Is(err, ErrDecodeFailed) {
		t.Fatalf("Expected ErrDecodeFailed for a 60000x60000 header, got %v", err)
	}
	if !strings.Contains(err.Error(), "exceeds limit") {
		t.Errorf("Expected pixel limit in error, got %v", err)
	}
}

func TestDecodePixelLimit(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString(encodePNG(t, 64, 64))

	if _, err := NewDecoder(0, 64*64-1).Decode(payload); !errors.Is(err, ErrDecodeFailed) {
		t.Errorf("Expected ErrDecodeFailed below the pixel limit, got %v", err)
	}
	if _, err := NewDecoder(0, 64*64).Decode(payload); err != nil {
		t.Errorf("Expected a frame at exactly the pixel limit, got %v", err)
	}
}

func TestStripDataURI(t *testing.T) {
	if got := StripDataURI("data:image/png;base64,AAAA;base64,BBBB"); got != "AAAA;base64,BBBB" {
		t.Errorf("Expected only the first marker to be stripped, got %q", got)
	}
	if got := StripDataURI("AAAA"); got != "AAAA" {
		t.Errorf("Expected unchanged payload, got %q", got)
	}
}

func TestEncodeReusesRaw(t *testing.T) {
	raw := encodePNG(t, 4, 4)
	f, err := DecodeImage(raw)
	if err != nil {
		t.Fatal(err)
	}

	out, err := f.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, raw) {
		t.Error("Expected Encode to return the original bytes")
	}

	f.Raw = nil
	out, err = f.Encode()
	if err != nil {
		t.Fatalf("re-encode failed: %v", err)
	}
	if _, format, err := image.DecodeConfig(bytes.NewReader(out)); err != nil || format != "jpeg" {
		t.Errorf("Expected JPEG re-encode, got format=%q err=%v", format, err)
	}
}
