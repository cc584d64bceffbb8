// Package render produces the image artifacts the games send to chat:
// the cropped puzzle fragment and the multi-card info composite.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math/rand/v2"
)

// Window describes where a puzzle crop may land inside card art.
// Left/Top/Right/Bottom are fractional insets of the full frame; WSize is
// the square window side as a fraction of the image height. Art layouts
// differ per provider, so each engine carries its own window.
type Window struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	WSize  float64 `json:"wsize"`
}

// Crop cuts a uniformly random square window fully inside the inset box.
func Crop(src image.Image, w Window) (image.Image, error) {
	b := src.Bounds()
	width, height := b.Dx(), b.Dy()

	x0 := int(float64(width) * w.Left)
	y0 := int(float64(height) * w.Top)
	ws := int(float64(height) * w.WSize)
	x1 := int(float64(width)*w.Right) - ws
	y1 := int(float64(height)*w.Bottom) - ws

	if ws <= 0 || x1 < x0 || y1 < y0 {
		return nil, fmt.Errorf("crop window %+v does not fit image %dx%d", w, width, height)
	}

	x := x0 + rand.IntN(x1-x0+1)
	y := y0 + rand.IntN(y1-y0+1)

	out := image.NewRGBA(image.Rect(0, 0, ws, ws))
	draw.Draw(out, out.Bounds(), src, b.Min.Add(image.Pt(x, y)), draw.Src)
	return out, nil
}

// Placeholder stands in for card art that failed to fetch, so one bad URL
// does not sink a whole info composite.
func Placeholder() image.Image {
	const side = 256
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 0xDD, G: 0xDD, B: 0xDD, A: 0xFF}), image.Point{}, draw.Src)
	border := color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xFF}
	for i := 0; i < side; i++ {
		img.Set(i, 0, border)
		img.Set(i, side-1, border)
		img.Set(0, i, border)
		img.Set(side-1, i, border)
	}
	return img
}
