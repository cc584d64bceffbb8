package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"

	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/playverse/cardbot/internal/card"
)

// InfoConfig controls the lookup composite layout.
type InfoConfig struct {
	FontSize    float64 `json:"font_size"`
	FontSpacing int     `json:"font_spacing"`
	CountMax    int     `json:"count_max"`
	LineSizeMax int     `json:"line_size_max"`
	CardMargin  int     `json:"card_margin"`
}

// DefaultInfoConfig mirrors the lookup command defaults.
func DefaultInfoConfig() InfoConfig {
	return InfoConfig{
		FontSize:    16,
		FontSpacing: 4,
		CountMax:    10,
		LineSizeMax: 40,
		CardMargin:  16,
	}
}

// Composer renders multi-card info images with one loaded typeface.
type Composer struct {
	font *opentype.Font
}

// NewComposer loads the typeface at path, or the embedded Go Regular face
// when path is empty. CJK catalogs need a CJK-capable TTF.
func NewComposer(path string) (*Composer, error) {
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading font: %w", err)
		}
		data = b
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	return &Composer{font: f}, nil
}

// Compose stacks "art beside wrapped text" sections for up to
// cfg.CountMax cards. images must align with cards; nil entries are
// replaced by the placeholder.
func (cp *Composer) Compose(cards []card.Card, images []image.Image, cfg InfoConfig) (image.Image, error) {
	if len(cards) == 0 {
		return nil, errors.New("no cards to render")
	}
	if len(images) != len(cards) {
		return nil, fmt.Errorf("got %d images for %d cards", len(images), len(cards))
	}
	if cfg.CountMax > 0 && len(cards) > cfg.CountMax {
		cards = cards[:cfg.CountMax]
		images = images[:cfg.CountMax]
	}

	// Faces are stateful; build one per render instead of sharing.
	face, err := opentype.NewFace(cp.font, &opentype.FaceOptions{
		Size:    cfg.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("building font face: %w", err)
	}
	defer face.Close()

	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	lineHeight := (metrics.Ascent + metrics.Descent).Ceil()

	// Shrink all art to the narrowest width among the batch.
	minWidth := math.MaxInt
	for i, img := range images {
		if img == nil {
			images[i] = Placeholder()
			img = images[i]
		}
		if w := img.Bounds().Dx(); w < minWidth {
			minWidth = w
		}
	}
	for i, img := range images {
		if img.Bounds().Dx() > minWidth {
			images[i] = resize.Thumbnail(uint(minWidth), math.MaxUint32, img, resize.Lanczos3)
		}
	}

	sections := make([][]string, len(cards))
	textW := make([]int, len(cards))
	textH := make([]int, len(cards))
	for i, c := range cards {
		lines := CardTextLines(c, cfg.LineSizeMax)
		sections[i] = lines
		for _, line := range lines {
			if w := font.MeasureString(face, line).Ceil(); w > textW[i] {
				textW[i] = w
			}
		}
		textH[i] = len(lines)*lineHeight + cfg.FontSpacing*(len(lines)-1)
	}

	margin := cfg.CardMargin
	canvasW, canvasH := 0, margin
	for i := range cards {
		if w := images[i].Bounds().Dx() + textW[i]; w > canvasW {
			canvasW = w
		}
		canvasH += max(images[i].Bounds().Dy(), textH[i]) + margin
	}
	canvasW += margin * 3

	canvas := image.NewRGBA(image.Rect(0, 0, canvasW, canvasH))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	drawer := &font.Drawer{Dst: canvas, Src: image.Black, Face: face}

	sectionTop := margin
	for i := range cards {
		img := images[i]
		imgW, imgH := img.Bounds().Dx(), img.Bounds().Dy()
		sectionH := max(imgH, textH[i])

		// Art centered in its column, text vertically centered beside it.
		artPos := image.Pt(margin+(minWidth-imgW)/2, sectionTop+(sectionH-imgH)/2)
		draw.Draw(canvas, image.Rectangle{Min: artPos, Max: artPos.Add(img.Bounds().Size())}, img, img.Bounds().Min, draw.Over)

		left := minWidth + margin*2
		top := sectionTop + (sectionH-textH[i])/2
		for _, line := range sections[i] {
			drawer.Dot = fixed.P(left, top+ascent)
			drawer.DrawString(line)
			top += lineHeight + cfg.FontSpacing
		}

		sectionTop += sectionH + margin
	}

	return canvas, nil
}
