package qr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// Render draws sym with req's module size, quiet zone and colors. The result
// is a two-color paletted image, so PNG output is 1 bit per pixel.
func Render(sym *Symbol, req Request) (*image.Paletted, error) {
	if sym == nil || sym.Size() == 0 {
		return nil, fmt.Errorf("render: empty symbol")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	fg, bg := req.Foreground, req.Background
	if fg == nil {
		fg = color.Black
	}
	if bg == nil {
		bg = color.White
	}

	side := (sym.Size() + 2*req.Border) * req.ModuleSize
	// Index 0 is the background, so a fresh image is already blank.
	img := image.NewPaletted(image.Rect(0, 0, side, side), color.Palette{bg, fg})

	offset := req.Border * req.ModuleSize
	for y, row := range sym.Modules {
		for x, dark := range row {
			if !dark {
				continue
			}
			x0 := offset + x*req.ModuleSize
			y0 := offset + y*req.ModuleSize
			for py := y0; py < y0+req.ModuleSize; py++ {
				for px := x0; px < x0+req.ModuleSize; px++ {
					img.SetColorIndex(px, py, 1)
				}
			}
		}
	}

	return img, nil
}

// EncodePNG renders sym and returns the PNG bytes.
func EncodePNG(sym *Symbol, req Request) ([]byte, image.Rectangle, error) {
	img, err := Render(sym, req)
	if err != nil {
		return nil, image.Rectangle{}, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, image.Rectangle{}, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), img.Bounds(), nil
}
