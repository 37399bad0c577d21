// MODUL: draw_test
// ZWECK: Tests fuer das Box-Rendering
// INPUT: Synthetische Bilder und Pixel-Boxen
// OUTPUT: Testresultate
// NEBENEFFEKTE: keine
// HINWEISE: Prueft Umrandung, Clipping und dass das Original unveraendert bleibt

package draw

import (
	"image"
	"image/color"
	"testing"

	"github.com/linyu92/sd-webui-segment-anything/api"
)

var white = color.NRGBA{255, 255, 255, 255}

// whiteImage erzeugt ein weisses Testbild
func whiteImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, white)
		}
	}
	return img
}

func TestBoxesEmptyReturnsCopy(t *testing.T) {
	src := whiteImage(8, 8)

	out := Boxes(src, nil, DefaultOptions())

	nrgba, ok := out.(*image.NRGBA)
	if !ok {
		t.Fatalf("erwartet *image.NRGBA, erhalten %T", out)
	}

	// Pixel unveraendert
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if nrgba.NRGBAAt(x, y) != white {
				t.Fatalf("Pixel (%d,%d) veraendert: %+v", x, y, nrgba.NRGBAAt(x, y))
			}
		}
	}

	// Kopie, nicht dasselbe Backing-Array
	nrgba.SetNRGBA(0, 0, color.NRGBA{0, 0, 0, 255})
	if src.NRGBAAt(0, 0) != white {
		t.Error("Mutation der Kopie darf das Original nicht veraendern")
	}
}

func TestBoxesDrawsOutline(t *testing.T) {
	src := whiteImage(12, 12)
	red := color.NRGBA{255, 0, 0, 255}

	boxes := []api.Rect{{X0: 2, Y0: 2, X1: 8, Y1: 8}}
	opts := Options{Color: color.RGBA{255, 0, 0, 255}, Thickness: 1}

	out := Boxes(src, boxes, opts).(*image.NRGBA)

	// Kanten sind gefaerbt
	edges := []image.Point{
		{2, 2}, // obere linke Ecke
		{5, 2}, // obere Kante
		{2, 5}, // linke Kante
		{7, 5}, // rechte Kante (x1-thickness)
		{5, 7}, // untere Kante (y1-thickness)
	}
	for _, p := range edges {
		if out.NRGBAAt(p.X, p.Y) != red {
			t.Errorf("Kanten-Pixel (%d,%d) = %+v, erwartet rot", p.X, p.Y, out.NRGBAAt(p.X, p.Y))
		}
	}

	// Inneres und Aeusseres bleiben weiss
	for _, p := range []image.Point{{5, 5}, {0, 0}, {10, 10}} {
		if out.NRGBAAt(p.X, p.Y) != white {
			t.Errorf("Pixel (%d,%d) = %+v, erwartet weiss", p.X, p.Y, out.NRGBAAt(p.X, p.Y))
		}
	}

	// Das Original ist unveraendert
	if src.NRGBAAt(2, 2) != white {
		t.Error("Boxes darf das Eingabebild nicht veraendern")
	}
}

func TestBoxesClipsToImage(t *testing.T) {
	src := whiteImage(10, 10)

	// Box ragt ueber alle Raender hinaus
	boxes := []api.Rect{{X0: -5, Y0: -5, X1: 20, Y1: 20}}

	// Darf nicht panicen
	out := Boxes(src, boxes, DefaultOptions()).(*image.NRGBA)

	// Innerhalb des Bildes bleibt alles weiss (die Kanten liegen ausserhalb)
	if out.NRGBAAt(5, 5) != white {
		t.Errorf("Pixel (5,5) = %+v, erwartet weiss", out.NRGBAAt(5, 5))
	}
}

func TestBoxesShowIndex(t *testing.T) {
	src := whiteImage(40, 40)
	boxes := []api.Rect{{X0: 5, Y0: 5, X1: 35, Y1: 35}}

	opts := DefaultOptions()
	plain := Boxes(src, boxes, opts).(*image.NRGBA)

	opts.ShowIndex = true
	indexed := Boxes(src, boxes, opts).(*image.NRGBA)

	// Der Index bringt zusaetzliche gefaerbte Pixel ins Innere der Box
	countColored := func(img *image.NRGBA) int {
		var n int
		for y := 0; y < 40; y++ {
			for x := 0; x < 40; x++ {
				if img.NRGBAAt(x, y) != white {
					n++
				}
			}
		}
		return n
	}

	if countColored(indexed) <= countColored(plain) {
		t.Error("ShowIndex sollte zusaetzliche Pixel zeichnen")
	}
}

func TestBoxesDefaultThickness(t *testing.T) {
	src := whiteImage(20, 20)
	boxes := []api.Rect{{X0: 4, Y0: 4, X1: 16, Y1: 16}}

	// Thickness 0 faellt auf den Default (2) zurueck
	out := Boxes(src, boxes, Options{Color: color.RGBA{0, 0, 255, 255}}).(*image.NRGBA)

	blue := color.NRGBA{0, 0, 255, 255}
	if out.NRGBAAt(4, 4) != blue || out.NRGBAAt(5, 5) != blue {
		t.Error("Default-Thickness 2 sollte zwei Pixel-Reihen faerben")
	}
	if out.NRGBAAt(6, 6) == blue {
		t.Error("Pixel (6,6) liegt innerhalb und darf nicht gefaerbt sein")
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in       float32
		expected int
	}{
		{1.4, 1},
		{1.5, 2},
		{0.0, 0},
		{-1.4, -1},
		{-1.5, -2},
	}

	for _, tt := range tests {
		if got := round(tt.in); got != tt.expected {
			t.Errorf("round(%f) = %d, erwartet %d", tt.in, got, tt.expected)
		}
	}
}
