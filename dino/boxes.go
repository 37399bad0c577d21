// MODUL: boxes
// ZWECK: Box-Mathematik - Threshold-Filter und Koordinaten-Transformation
// INPUT: Roh-Logits und normalisierte (cx, cy, w, h) Boxen
// OUTPUT: Pixel-Boxen im Ecken-Format (x0, y0, x1, y1)
// NEBENEFFEKTE: keine
// HINWEISE: Threshold-Vergleich ist strikt (>), leere Ergebnisse sind gueltig

package dino

import (
	"math"

	"github.com/linyu92/sd-webui-segment-anything/api"
	"github.com/linyu92/sd-webui-segment-anything/dino/backend"
)

// sigmoid normalisiert einen Logit auf [0,1]
func sigmoid(x float32) float32 {
	return float32(1.0 / (1.0 + math.Exp(-float64(x))))
}

// maxConfidence gibt die maximale Sigmoid-Confidence einer Logit-Zeile
// zurueck (Maximum ueber die Text-Tokens einer Query)
func maxConfidence(logits []float32) float32 {
	var max float32
	for i, logit := range logits {
		c := sigmoid(logit)
		if i == 0 || c > max {
			max = c
		}
	}
	return max
}

// FilterByThreshold behaelt nur Queries deren maximale Confidence den
// Threshold strikt ueberschreitet. Logits und Boxen werden ueber
// dieselbe Maske gefiltert, die Reihenfolge bleibt erhalten.
func FilterByThreshold(out *backend.Output, threshold float32) [][4]float32 {
	var kept [][4]float32
	for i, logits := range out.Logits {
		if maxConfidence(logits) > threshold {
			kept = append(kept, out.Boxes[i])
		}
	}
	return kept
}

// RescaleToCorners skaliert normalisierte (cx, cy, w, h) Boxen auf
// Pixel-Koordinaten und konvertiert ins Ecken-Format: erst mit
// (W, H, W, H) multiplizieren, dann obere linke Ecke = Zentrum - Groesse/2
// und untere rechte Ecke = obere linke Ecke + Groesse.
func RescaleToCorners(boxes [][4]float32, width, height int) []api.Rect {
	rects := make([]api.Rect, 0, len(boxes))
	w := float32(width)
	h := float32(height)

	for _, box := range boxes {
		cx, cy := box[0]*w, box[1]*h
		bw, bh := box[2]*w, box[3]*h

		x0 := cx - bw/2
		y0 := cy - bh/2

		rects = append(rects, api.Rect{
			X0: x0,
			Y0: y0,
			X1: x0 + bw,
			Y1: y0 + bh,
		})
	}

	return rects
}

// CornersToCenterSize ist die Umkehrung von RescaleToCorners: Pixel-Ecken
// zurueck zu normalisierten (cx, cy, w, h) relativ zu den Bild-Dimensionen.
func CornersToCenterSize(r api.Rect, width, height int) [4]float32 {
	w := float32(width)
	h := float32(height)

	bw := r.X1 - r.X0
	bh := r.Y1 - r.Y0

	return [4]float32{
		(r.X0 + bw/2) / w,
		(r.Y0 + bh/2) / h,
		bw / w,
		bh / h,
	}
}
