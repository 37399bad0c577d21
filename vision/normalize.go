// MODUL: normalize
// ZWECK: Normalisierung und Tensor-Konvertierung fuer die Detektions-Pipeline
// INPUT: ImageInput, Normalisierungs-Parameter (mean, std)
// OUTPUT: float32-Tensor im CHW Layout
// NEBENEFFEKTE: keine
// ABHAENGIGKEITEN: keine (nur Standardbibliothek)
// HINWEISE: ImageNet-Werte entsprechen den Detektions-Transforms

package vision

// ImageNet-Normalisierungswerte (Swin-Backbones)
var (
	ImageNetMean = [3]float32{0.485, 0.456, 0.406}
	ImageNetStd  = [3]float32{0.229, 0.224, 0.225}
)

// NormalizeCHW normalisiert ein Bild mit gegebenen mean/std Werten.
// Gibt einen float32-Slice im CHW Format zurueck (Channel-First),
// Werte vorher auf [0,1] skaliert.
func NormalizeCHW(img *ImageInput, mean, std [3]float32) []float32 {
	bounds := img.Image.Bounds()
	h := bounds.Dy()
	w := bounds.Dx()
	size := h * w

	// Pre-allozieren fuer CHW Layout
	result := make([]float32, size*3)
	rOffset := 0
	gOffset := size
	bOffset := size * 2

	idx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b := extractRGB(img, x, y)

			result[rOffset+idx] = (r - mean[0]) / std[0]
			result[gOffset+idx] = (g - mean[1]) / std[1]
			result[bOffset+idx] = (b - mean[2]) / std[2]
			idx++
		}
	}

	return result
}

// extractRGB holt RGB-Werte als float32 im Bereich [0,1]
func extractRGB(img *ImageInput, x, y int) (float32, float32, float32) {
	c := img.Image.At(x, y)
	r, g, b, _ := c.RGBA()
	// RGBA gibt 16-bit Werte zurueck, auf 8-bit konvertieren
	return float32(r>>8) / 255.0, float32(g>>8) / 255.0, float32(b>>8) / 255.0
}

// TensorShape gibt die Tensor-Form als (C, H, W) zurueck
func (img *ImageInput) TensorShape() []int {
	return []int{3, img.Height, img.Width}
}
