package card

import (
	"image"
	"image/color"
)

// AddCorners replaces the alpha channel of img with a mask that is opaque
// except for quarter-circle cutouts of the given radius at each corner.
// The image is modified in place and returned.
//
// A radius larger than half of the shorter side makes the corner cutouts
// overlap; that case is not guarded.
func AddCorners(img *image.NRGBA, radius int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	for y := 0; y < h; y++ {
		row := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w; x++ {
			img.Pix[row+x*4+3] = cornerAlpha(x, y, w, h, radius)
		}
	}
	return img
}

// roundedRect returns a w x h image filled with c inside a rectangle with
// rounded corners and fully transparent outside it.
func roundedRect(w, h, radius int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if cornerAlpha(x, y, w, h, radius) == 0 {
				continue
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// cornerAlpha is 0 for pixels whose center lies outside the rounded
// rectangle of size w x h and 255 otherwise.
func cornerAlpha(x, y, w, h, radius int) uint8 {
	if radius <= 0 {
		return 255
	}

	var cx, cy int
	switch {
	case x < radius:
		cx = radius
	case x >= w-radius:
		cx = w - radius
	default:
		return 255
	}
	switch {
	case y < radius:
		cy = radius
	case y >= h-radius:
		cy = h - radius
	default:
		return 255
	}

	dx := float64(x) + 0.5 - float64(cx)
	dy := float64(y) + 0.5 - float64(cy)
	if dx*dx+dy*dy > float64(radius*radius) {
		return 0
	}
	return 255
}
