package card

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Default canvas size.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// Layout constants, in pixels.
const (
	ArtSize      = 380
	ArtX         = 120
	ArtY         = 170
	CornerRadius = 30

	shadowPad    = 30
	shadowRadius = 30
	shadowAlpha  = 120
	shadowSigma  = 10

	backgroundSigma      = 15
	backgroundBrightness = 0.6

	TextX          = 580
	HeaderY        = 140
	TitleY         = 250
	TitleLineGap   = 60
	TitleMaxLen    = 20
	InfoY          = 320
	InfoYTwoLines  = 380
	InfoLineHeight = 45
	FooterMargin   = 40
)

// HeaderText is drawn above the title.
const HeaderText = "NOW PLAYING"

// DefaultFooter is the footer label used when Options.Footer is empty.
const DefaultFooter = "TgMusicBots"

// Info is the text drawn on the card.
type Info struct {
	Title    string
	Duration string
	Views    string
	Channel  string
}

// Options control a single Compose call.
type Options struct {
	Width  int
	Height int
	Faces  *Faces
	Footer string
}

// InfoStartY returns the y coordinate of the first metadata line.
func InfoStartY(twoLineTitle bool) int {
	if twoLineTitle {
		return InfoYTwoLines
	}
	return InfoY
}

// Compose renders the card for src. The returned image is exactly
// opts.Width x opts.Height (DefaultWidth x DefaultHeight when zero).
func Compose(src image.Image, info Info, opts Options) (*image.NRGBA, error) {
	if src == nil {
		return nil, errors.New("card: nil source image")
	}
	if b := src.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, errors.New("card: empty source image")
	}
	if opts.Faces == nil {
		return nil, errors.New("card: no font faces")
	}

	w, h := opts.Width, opts.Height
	if w == 0 && h == 0 {
		w, h = DefaultWidth, DefaultHeight
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("card: invalid canvas size %dx%d", w, h)
	}

	canvas := Background(src, w, h)

	art := AddCorners(imaging.Fill(src, ArtSize, ArtSize, imaging.Center, imaging.Lanczos), CornerRadius)
	shadow := Shadow(ArtSize+shadowPad, ArtSize+shadowPad)

	canvas = imaging.Overlay(canvas, shadow, image.Pt(ArtX-shadowPad/2, ArtY-shadowPad/2), 1.0)
	canvas = imaging.Overlay(canvas, art, image.Pt(ArtX, ArtY), 1.0)

	drawLabels(canvas, info, opts.Faces, opts.Footer)

	return canvas, nil
}

// Background resizes src to w x h, blurs it and darkens it.
func Background(src image.Image, w, h int) *image.NRGBA {
	bg := imaging.Resize(src, w, h, imaging.Lanczos)
	bg = imaging.Blur(bg, backgroundSigma)
	return imaging.AdjustFunc(bg, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: scale(c.R, backgroundBrightness),
			G: scale(c.G, backgroundBrightness),
			B: scale(c.B, backgroundBrightness),
			A: c.A,
		}
	})
}

// Shadow is the soft glow pasted behind the album art.
func Shadow(w, h int) *image.NRGBA {
	rect := roundedRect(w, h, shadowRadius, color.NRGBA{A: shadowAlpha})
	return imaging.Blur(rect, shadowSigma)
}

func drawLabels(canvas *image.NRGBA, info Info, faces *Faces, footer string) {
	DrawTextWithShadow(canvas, image.Pt(TextX, HeaderY), HeaderText, faces.Header, nil, nil)

	line1, line2 := Truncate(info.Title, TitleMaxLen)
	DrawTextWithShadow(canvas, image.Pt(TextX, TitleY), line1, faces.Title, nil, nil)
	if line2 != "" {
		DrawTextWithShadow(canvas, image.Pt(TextX, TitleY+TitleLineGap), line2, faces.Title, nil, nil)
	}

	y := InfoStartY(line2 != "")
	for i, line := range []string{
		fmt.Sprintf("Views : %s views", info.Views),
		fmt.Sprintf("Duration : %s Mins", info.Duration),
		fmt.Sprintf("Channel : %s", info.Channel),
	} {
		DrawTextWithShadow(canvas, image.Pt(TextX, y+i*InfoLineHeight), line, faces.Info, nil, nil)
	}

	if footer == "" {
		footer = DefaultFooter
	}
	b := canvas.Bounds()
	x := b.Dx() - MeasureText(faces.Footer, footer) - FooterMargin
	DrawTextWithShadow(canvas, image.Pt(x, b.Dy()-FooterMargin), footer, faces.Footer, nil, nil)
}

func scale(v uint8, f float64) uint8 {
	s := float64(v)*f + 0.5
	if s > 255 {
		return 255
	}
	return uint8(s)
}
