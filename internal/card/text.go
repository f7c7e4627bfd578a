package card

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"now-playing/internal/logging"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Font sizes in pixels.
const (
	HeaderFontSize = 90
	TitleFontSize  = 50
	InfoFontSize   = 35
	FooterFontSize = 25
)

// ShadowOffset is how far the drop shadow is shifted right and down.
const ShadowOffset = 3

// FontSet holds the parsed bold (header/title) and regular (info/footer)
// fonts. It is safe for concurrent use; the faces created from it are not.
type FontSet struct {
	bold    *opentype.Font
	regular *opentype.Font
}

// Faces are the four font faces used by one render.
type Faces struct {
	Header font.Face
	Title  font.Face
	Info   font.Face
	Footer font.Face
}

// LoadFontSet parses the bold and regular fonts from the given paths.
// An empty path selects the embedded Go font of the same weight.
func LoadFontSet(boldPath, regularPath string) (*FontSet, error) {
	bold, err := loadFont(boldPath, gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to load header font: %w", err)
	}
	regular, err := loadFont(regularPath, goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to load info font: %w", err)
	}
	return &FontSet{bold: bold, regular: regular}, nil
}

func loadFont(path string, fallback []byte) (*opentype.Font, error) {
	data := fallback
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data = b
		logging.Debug("Loaded font %s (%d bytes)", path, len(b))
	}
	return opentype.Parse(data)
}

// Faces creates a fresh set of faces at the fixed card sizes.
// The caller must Close them.
func (fs *FontSet) Faces() (*Faces, error) {
	var (
		faces Faces
		err   error
	)
	if faces.Header, err = newFace(fs.bold, HeaderFontSize); err != nil {
		return nil, err
	}
	if faces.Title, err = newFace(fs.bold, TitleFontSize); err != nil {
		faces.Close()
		return nil, err
	}
	if faces.Info, err = newFace(fs.regular, InfoFontSize); err != nil {
		faces.Close()
		return nil, err
	}
	if faces.Footer, err = newFace(fs.regular, FooterFontSize); err != nil {
		faces.Close()
		return nil, err
	}
	return &faces, nil
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %.0fpx face: %w", size, err)
	}
	return face, nil
}

// Close releases all non-nil faces.
func (f *Faces) Close() {
	for _, face := range []font.Face{f.Header, f.Title, f.Info, f.Footer} {
		if face == nil {
			continue
		}
		if err := face.Close(); err != nil {
			logging.Warn("failed to close font face: %v", err)
		}
	}
}

// DrawTextWithShadow draws text twice: first in the shadow color offset by
// ShadowOffset pixels, then in the fill color at pos. pos is the top-left
// corner of the text box. Nil colors default to white text on a black
// shadow.
func DrawTextWithShadow(dst draw.Image, pos image.Point, text string, face font.Face, fill, shadow color.Color) {
	if fill == nil {
		fill = color.White
	}
	if shadow == nil {
		shadow = color.Black
	}
	drawText(dst, pos.Add(image.Pt(ShadowOffset, ShadowOffset)), text, face, shadow)
	drawText(dst, pos, text, face, fill)
}

func drawText(dst draw.Image, pos image.Point, text string, face font.Face, c color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(pos.X),
			Y: fixed.I(pos.Y) + face.Metrics().Ascent,
		},
	}
	d.DrawString(text)
}

// MeasureText returns the width in pixels of the inked area of text.
func MeasureText(face font.Face, text string) int {
	bounds, _ := font.BoundString(face, text)
	return (bounds.Max.X - bounds.Min.X).Ceil()
}
