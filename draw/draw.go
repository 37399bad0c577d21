// MODUL: draw
// ZWECK: Rendern von Bounding-Boxen in eine Bild-Kopie
// INPUT: Bild, Pixel-Boxen (Ecken-Format), Farbe/Staerke/Index-Flag
// OUTPUT: Neues Bild mit Box-Umrandungen, Original unveraendert
// NEBENEFFEKTE: keine (pure Funktion auf einer Kopie)
// ABHAENGIGKEITEN: disintegration/imaging (Clone), golang.org/x/image/font
// HINWEISE: Der Box-Index wird innerhalb der Box gezeichnet, um die
//           gerenderte Texthoehe nach unten versetzt

package draw

import (
	"image"
	"image/color"
	"strconv"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/linyu92/sd-webui-segment-anything/api"
)

// Options konfiguriert das Rendering
type Options struct {
	// Color ist die Linien- und Textfarbe (Default: rot, deckend)
	Color color.RGBA

	// Thickness ist die Linienstaerke in Pixeln (Default: 2)
	Thickness int

	// ShowIndex blendet den nullbasierten Box-Index ein
	ShowIndex bool
}

// DefaultOptions gibt die Standard-Render-Einstellungen zurueck
func DefaultOptions() Options {
	return Options{
		Color:     color.RGBA{R: 255, G: 0, B: 0, A: 255},
		Thickness: 2,
	}
}

// Boxes zeichnet Box-Umrandungen in eine Kopie des Bildes.
// Leere Boxen ergeben eine unveraenderte Kopie.
func Boxes(img image.Image, boxes []api.Rect, opts Options) image.Image {
	out := imaging.Clone(img)
	if len(boxes) == 0 {
		return out
	}

	if opts.Thickness <= 0 {
		opts.Thickness = 2
	}

	for idx, box := range boxes {
		x0, y0 := round(box.X0), round(box.Y0)
		x1, y1 := round(box.X1), round(box.Y1)

		drawOutline(out, x0, y0, x1, y1, opts.Color, opts.Thickness)

		if opts.ShowIndex {
			drawIndex(out, idx, x0, y0, opts.Color)
		}
	}

	return out
}

// round rundet eine Pixel-Koordinate kaufmaennisch
func round(v float32) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

// drawOutline zeichnet die vier Kanten einer Box als gefuellte Streifen
func drawOutline(img *image.NRGBA, x0, y0, x1, y1 int, c color.RGBA, thickness int) {
	// oben, unten
	fillRect(img, x0, y0, x1, y0+thickness, c)
	fillRect(img, x0, y1-thickness, x1, y1, c)
	// links, rechts
	fillRect(img, x0, y0, x0+thickness, y1, c)
	fillRect(img, x1-thickness, y0, x1, y1, c)
}

// fillRect fuellt den Bereich [x0,x1)x[y0,y1), geclippt auf das Bild
func fillRect(img *image.NRGBA, x0, y0, x1, y1 int, c color.RGBA) {
	bounds := img.Bounds()
	if x0 < bounds.Min.X {
		x0 = bounds.Min.X
	}
	if y0 < bounds.Min.Y {
		y0 = bounds.Min.Y
	}
	if x1 > bounds.Max.X {
		x1 = bounds.Max.X
	}
	if y1 > bounds.Max.Y {
		y1 = bounds.Max.Y
	}

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A})
		}
	}
}

// drawIndex zeichnet den Box-Index an der linken oberen Ecke.
// Die Baseline liegt um die Texthoehe unterhalb der Ecke, damit die
// Ziffer innerhalb der Box bleibt.
func drawIndex(img *image.NRGBA, idx, x, y int, c color.RGBA) {
	face := basicfont.Face7x13

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(x),
			Y: fixed.I(y + face.Height),
		},
	}

	drawer.DrawString(strconv.Itoa(idx))
}
