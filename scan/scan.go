// Package scan reads a QR image back into the text it carries. The verify
// command and the round-trip tests use it to check what the generator wrote.
package scan

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"os"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// ErrNoSymbol is returned when the image holds no readable QR symbol.
var ErrNoSymbol = errors.New("no readable qr symbol")

// File decodes the QR symbol stored in the image at path.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("scan %s: %w", path, err)
	}
	defer f.Close()

	text, err := Decode(f)
	if err != nil {
		return "", fmt.Errorf("scan %s: %w", path, err)
	}
	return text, nil
}

// Decode reads an encoded image (PNG) from r and decodes its QR symbol.
func Decode(r io.Reader) (string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if format != "png" {
		return "", fmt.Errorf("unexpected image format %q", format)
	}
	return Image(img)
}

// Image decodes the QR symbol drawn in img. An empty payload is a valid
// result.
func Image(img image.Image) (string, error) {
	bitmap, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("binarize: %w", err)
	}

	res, err := qrcode.NewQRCodeReader().Decode(bitmap, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoSymbol, err)
	}
	return res.GetText(), nil
}
