// MODUL: pipeline
// ZWECK: Inferenz-Pipeline - Preprocessing, Forward-Pass, Filter, Rescale
// INPUT: Bild, Modell-Name, Text-Prompt, Box-Threshold
// OUTPUT: Pixel-Boxen im Ecken-Format, Verfuegbarkeits-Flag
// NEBENEFFEKTE: Laedt Modelle ueber den Cache, reklamiert Speicher
// HINWEISE: Fehlende Runtime ist ein Soft-Fail (ok=false, kein Fehler);
//           Lade- und Inferenz-Fehler werden propagiert

package dino

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/linyu92/sd-webui-segment-anything/api"
	"github.com/linyu92/sd-webui-segment-anything/dino/backend"
	"github.com/linyu92/sd-webui-segment-anything/envconfig"
	"github.com/linyu92/sd-webui-segment-anything/vision"
)

// FetchFunc stellt sicher dass der Checkpoint eines Modells lokal
// vorliegt und gibt seinen Pfad zurueck (laedt bei Bedarf herunter)
type FetchFunc func(ctx context.Context, d Descriptor) (string, error)

// Predictor ist der Besitzer des Modell-Caches und der Einstiegspunkt
// fuer Detektions-Aufrufe. Die Lebensdauer entspricht der
// Host-Session, nicht dem Prozess.
type Predictor struct {
	// mu serialisiert Predict-Aufrufe komplett: der Cache ist
	// ungeschuetzter Zustand und der Beschleuniger traegt ohnehin
	// nur ein Modell
	mu sync.Mutex

	cache   *Cache
	runtime backend.Runtime
	fetch   FetchFunc
	lowVRAM func() bool
}

// NewPredictor erstellt einen Predictor mit Default-Kollaborateuren.
// fetch darf nil sein; dann muessen Checkpoints bereits lokal liegen.
func NewPredictor(fetch FetchFunc) *Predictor {
	return &Predictor{
		cache:   NewCache(),
		runtime: backend.DefaultRuntime(),
		fetch:   fetch,
		lowVRAM: envconfig.LowVRAM,
	}
}

// Predict fuehrt eine Objekt-Detektion aus.
//
// Gibt (nil, false, nil) zurueck wenn die Detektions-Runtime nicht
// verfuegbar ist - der Aufrufer sollte das Feature fuer die Session
// deaktivieren. Ein leeres Ergebnis bei ok=true ist gueltig (nichts
// ueber dem Threshold gefunden).
func (p *Predictor) Predict(ctx context.Context, img image.Image, modelName, prompt string, threshold float32) ([]api.Rect, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.runtime.Ensure() {
		return nil, false, nil
	}

	desc, ok := Lookup(modelName)
	if !ok {
		return nil, true, fmt.Errorf("%w: %q", ErrUnknownModel, modelName)
	}

	caption := NormalizeCaption(prompt)

	input := vision.FromImage(img)
	resized, err := vision.ResizeShortestSide(input, vision.DefaultShortestSide, vision.DefaultMaxSize)
	if err != nil {
		return nil, true, fmt.Errorf("preprocess: %w", err)
	}

	tensor := backend.ImageTensor{
		Data:     vision.NormalizeCHW(resized, vision.ImageNetMean, vision.ImageNetStd),
		Channels: 3,
		Height:   resized.Height,
		Width:    resized.Width,
	}

	if p.fetch != nil {
		if _, err := p.fetch(ctx, desc); err != nil {
			return nil, true, fmt.Errorf("%w: %v", backend.ErrModelLoad, err)
		}
	}

	model, err := p.cache.Load(desc)
	if err != nil {
		return nil, true, err
	}

	// Inferenz ist speicherintensiv und der Host macht viele
	// sequentielle Aufrufe: unabhaengig vom Ergebnis reklamieren
	defer backend.Reclaim()

	slog.Info("running GroundingDINO inference", "model", desc.Name, "caption", caption, "threshold", threshold)

	out, err := model.Forward(tensor, caption)
	if err != nil {
		return nil, true, err
	}

	if p.lowVRAM() {
		// Latenz gegen Beschleuniger-Speicher tauschen
		if err := model.MoveTo(backend.LocationHost); err != nil {
			slog.Warn("offloading model to host", "model", desc.Name, "error", err)
		}
	}

	kept := FilterByThreshold(out, threshold)

	// Pixel-Skala des Original-Bildes, nicht des skalierten Tensors
	bounds := img.Bounds()
	boxes := RescaleToCorners(kept, bounds.Dx(), bounds.Dy())

	return boxes, true, nil
}

// ClearCache entlaedt das gecachte Modell
func (p *Predictor) ClearCache() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache.Clear()
}
