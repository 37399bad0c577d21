// MODUL: resize_test
// ZWECK: Tests fuer die Kanten-Skalierung
// INPUT: Synthetische Bilder
// OUTPUT: Testresultate
// NEBENEFFEKTE: keine
// HINWEISE: Prueft Seitenverhaeltnis, Max-Deckel und Degenerat-Faelle

package vision

import (
	"image"
	"testing"
)

func TestScaledSize(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		target int
		max    int
		wantW  int
		wantH  int
	}{
		{
			name: "Querformat auf 800 skaliert",
			w:    640, h: 480,
			target: 800, max: 1333,
			wantW: 1067, wantH: 800,
		},
		{
			name: "Hochformat auf 800 skaliert",
			w:    480, h: 640,
			target: 800, max: 1333,
			wantW: 800, wantH: 1067,
		},
		{
			name: "laengere Kante am Max gedeckelt",
			w:    2000, h: 800,
			target: 800, max: 1333,
			wantW: 1333, wantH: 533,
		},
		{
			name: "Quadrat bleibt quadratisch",
			w:    400, h: 400,
			target: 800, max: 1333,
			wantW: 800, wantH: 800,
		},
		{
			name: "Verkleinerung",
			w:    100, h: 50,
			target: 10, max: 1333,
			wantW: 20, wantH: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH := scaledSize(tt.w, tt.h, tt.target, tt.max)
			if gotW != tt.wantW || gotH != tt.wantH {
				t.Errorf("scaledSize(%d, %d) = (%d, %d), erwartet (%d, %d)",
					tt.w, tt.h, gotW, gotH, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestScaledSizeMinimumOnePixel(t *testing.T) {
	// Extreme Seitenverhaeltnisse duerfen keine Null-Kante erzeugen
	w, h := scaledSize(10000, 2, 800, 1333)
	if w < 1 || h < 1 {
		t.Errorf("scaledSize = (%d, %d), Kanten muessen >= 1 sein", w, h)
	}
}

func TestResizeShortestSide(t *testing.T) {
	img := FromImage(image.NewRGBA(image.Rect(0, 0, 640, 480)))

	resized, err := ResizeShortestSide(img, DefaultShortestSide, DefaultMaxSize)
	if err != nil {
		t.Fatalf("ResizeShortestSide fehlgeschlagen: %v", err)
	}

	if resized.Width != 1067 || resized.Height != 800 {
		t.Errorf("Skaliert auf %dx%d, erwartet 1067x800", resized.Width, resized.Height)
	}

	// Metadaten und Bild muessen uebereinstimmen
	bounds := resized.Image.Bounds()
	if bounds.Dx() != resized.Width || bounds.Dy() != resized.Height {
		t.Errorf("Bounds %v passen nicht zu %dx%d", bounds, resized.Width, resized.Height)
	}
}

func TestResizeShortestSideNoOp(t *testing.T) {
	// Passt die Groesse bereits, wird nicht neu gerendert
	img := FromImage(image.NewRGBA(image.Rect(0, 0, 1000, 800)))

	resized, err := ResizeShortestSide(img, 800, 1333)
	if err != nil {
		t.Fatalf("ResizeShortestSide fehlgeschlagen: %v", err)
	}
	if resized != img {
		t.Error("unveraenderte Groesse sollte dasselbe ImageInput zurueckgeben")
	}
}

func TestResizeShortestSideInvalid(t *testing.T) {
	img := FromImage(image.NewRGBA(image.Rect(0, 0, 10, 10)))

	if _, err := ResizeShortestSide(img, 0, 1333); err == nil {
		t.Error("target 0 sollte einen Fehler ergeben")
	}
	if _, err := ResizeShortestSide(img, 800, 0); err == nil {
		t.Error("max 0 sollte einen Fehler ergeben")
	}

	empty := &ImageInput{Image: image.NewRGBA(image.Rect(0, 0, 0, 0))}
	if _, err := ResizeShortestSide(empty, 800, 1333); err == nil {
		t.Error("leeres Bild sollte einen Fehler ergeben")
	}
}
