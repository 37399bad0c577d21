// MODUL: resize
// ZWECK: Skalierung der kuerzeren Bildkante auf eine Zielgroesse
// INPUT: ImageInput, Zielgroesse, maximale Kantenlaenge
// OUTPUT: Skaliertes ImageInput
// NEBENEFFEKTE: keine
// ABHAENGIGKEITEN: golang.org/x/image/draw (extern)
// HINWEISE: Entspricht der RandomResize([800], max_size=1333) Transformation
//           der Detektions-Transforms (deterministisch bei einer Zielgroesse)

package vision

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

const (
	// DefaultShortestSide ist die Zielgroesse der kuerzeren Kante
	DefaultShortestSide = 800

	// DefaultMaxSize deckelt die laengere Kante
	DefaultMaxSize = 1333
)

// ResizeShortestSide skaliert die kuerzere Kante auf target Pixel unter
// Beibehaltung des Seitenverhaeltnisses. Wuerde die laengere Kante
// dabei max ueberschreiten, wird stattdessen auf max gedeckelt.
func ResizeShortestSide(img *ImageInput, target, max int) (*ImageInput, error) {
	if target <= 0 || max <= 0 {
		return nil, fmt.Errorf("ungueltige zielgroesse: %d/%d", target, max)
	}
	if img.Width <= 0 || img.Height <= 0 {
		return nil, fmt.Errorf("ungueltiges bild: %dx%d", img.Width, img.Height)
	}

	newW, newH := scaledSize(img.Width, img.Height, target, max)
	if newW == img.Width && newH == img.Height {
		return img, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.BiLinear.Scale(dst, dst.Bounds(), img.Image, img.Image.Bounds(), draw.Over, nil)

	return &ImageInput{
		Image:  dst,
		Width:  newW,
		Height: newH,
	}, nil
}

// scaledSize berechnet die Zielgroesse fuer die Kanten-Skalierung
func scaledSize(w, h, target, max int) (int, int) {
	short, long := w, h
	if h < w {
		short, long = h, w
	}

	scale := float64(target) / float64(short)
	if float64(long)*scale > float64(max) {
		scale = float64(max) / float64(long)
	}

	newW := int(float64(w)*scale + 0.5)
	newH := int(float64(h)*scale + 0.5)

	// Minimum 1 Pixel pro Kante
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	return newW, newH
}
