package utils

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
	"time"
)

func TestNewULIDFromTimestamp(t *testing.T) {
	u := New(0)
	now := time.Now()

	a, err := u.NewULIDFromTimestamp(now)
	if err != nil {
		t.Fatal(err)
	}
	b, err := u.NewULIDFromTimestamp(now)
	if err != nil {
		t.Fatal(err)
	}

	if len(a) != 26 {
		t.Errorf("Expected 26 character ULID, got %q", a)
	}
	if a == b {
		t.Error("Expected distinct ids for the same timestamp")
	}
}

func TestValidateImageFile(t *testing.T) {
	u := New(10)

	header := func(size int64, ctype string) *multipart.FileHeader {
		h := textproto.MIMEHeader{}
		h.Set("Content-Type", ctype)
		return &multipart.FileHeader{Filename: "frame.jpg", Size: size, Header: h}
	}

	if err := u.ValidateImageFile(header(5, "image/jpeg")); err != nil {
		t.Errorf("Expected valid image, got %v", err)
	}
	if err := u.ValidateImageFile(nil); !errors.Is(err, ErrNoFile) {
		t.Errorf("Expected ErrNoFile, got %v", err)
	}
	if err := u.ValidateImageFile(header(11, "image/jpeg")); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("Expected ErrFileTooLarge, got %v", err)
	}
	if err := u.ValidateImageFile(header(5, "text/plain")); !errors.Is(err, ErrNotAnImage) {
		t.Errorf("Expected ErrNotAnImage, got %v", err)
	}
}

func TestConvertFileToBase64(t *testing.T) {
	u := New(4)

	got, err := u.ConvertFileToBase64(bytes.NewReader([]byte{0xFF, 0xD8, 0xFF, 0xD9}))
	if err != nil {
		t.Fatal(err)
	}
	if got != "/9j/2Q==" {
		t.Errorf("Expected /9j/2Q==, got %q", got)
	}

	if _, err := u.ConvertFileToBase64(strings.NewReader("12345")); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("Expected ErrFileTooLarge, got %v", err)
	}
}
