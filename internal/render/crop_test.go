package render

import (
	"image"
	"testing"
)

func TestCropGeometry(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1000, 1000))
	w := Window{Left: 0.1, Top: 0.1, Right: 0.9, Bottom: 0.9, WSize: 0.2}

	// Random placement: check the invariant over many draws.
	for i := 0; i < 200; i++ {
		got, err := Crop(src, w)
		if err != nil {
			t.Fatalf("Crop: %v", err)
		}
		b := got.Bounds()
		if b.Dx() != 200 || b.Dy() != 200 {
			t.Fatalf("crop size = %dx%d, want 200x200", b.Dx(), b.Dy())
		}
	}
}

func TestCropPlacementWithinInset(t *testing.T) {
	// Mark the inset region; every crop must contain only marked pixels.
	src := image.NewRGBA(image.Rect(0, 0, 1000, 1000))
	for y := 100; y < 800+200; y++ {
		for x := 100; x < 800+200; x++ {
			src.Pix[src.PixOffset(x, y)+3] = 0xFF // alpha marks the valid zone
		}
	}
	w := Window{Left: 0.1, Top: 0.1, Right: 0.9, Bottom: 0.9, WSize: 0.2}

	for i := 0; i < 100; i++ {
		got, err := Crop(src, w)
		if err != nil {
			t.Fatalf("Crop: %v", err)
		}
		rgba := got.(*image.RGBA)
		b := rgba.Bounds()
		for _, pt := range []image.Point{b.Min, {X: b.Max.X - 1, Y: b.Max.Y - 1}} {
			if _, _, _, a := rgba.At(pt.X, pt.Y).RGBA(); a == 0 {
				t.Fatal("crop escaped the inset window")
			}
		}
	}
}

func TestCropWindowTooLarge(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 100))
	w := Window{Left: 0.4, Top: 0.4, Right: 0.6, Bottom: 0.6, WSize: 0.5}
	if _, err := Crop(src, w); err == nil {
		t.Error("expected an error when the window cannot fit the inset box")
	}
}
