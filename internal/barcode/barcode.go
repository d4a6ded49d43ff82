// Package barcode renders asset codes as Code 128 barcode images and
// printable labels.
package barcode

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	barcodeWidth  = 300
	barcodeHeight = 80

	labelWidth  = 400
	labelHeight = 200
)

// PNG encodes the given code as a Code 128 barcode PNG.
func PNG(code string) ([]byte, error) {
	img, err := render(code, barcodeWidth, barcodeHeight)
	if err != nil {
		return nil, err
	}
	return encodePNG(img)
}

// Label composes a printable white label: the barcode on top and
// caption lines for the code, item name, and location below it.
func Label(code, itemName, location string) ([]byte, error) {
	bc, err := render(code, barcodeWidth, barcodeHeight)
	if err != nil {
		return nil, err
	}

	label := image.NewRGBA(image.Rect(0, 0, labelWidth, labelHeight))
	draw.Draw(label, label.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(label, bc.Bounds().Add(image.Pt(50, 20)), bc, image.Point{}, draw.Over)

	drawText(label, 50, 130, "Code: "+code)
	drawText(label, 50, 150, "Item: "+truncate(itemName, 30))
	if location != "" {
		drawText(label, 50, 170, "Loc: "+truncate(location, 20))
	}

	return encodePNG(label)
}

func render(code string, width, height int) (image.Image, error) {
	if code == "" {
		return nil, fmt.Errorf("empty barcode content")
	}
	bc, err := code128.Encode(code)
	if err != nil {
		return nil, fmt.Errorf("encode %q: %w", code, err)
	}
	// Scale refuses targets narrower than the module count.
	if w := bc.Bounds().Dx(); w > width {
		width = w
	}
	scaled, err := barcode.Scale(bc, width, height)
	if err != nil {
		return nil, fmt.Errorf("scale barcode: %w", err)
	}
	return scaled, nil
}

func drawText(dst draw.Image, x, y int, text string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
