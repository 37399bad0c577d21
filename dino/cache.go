// MODUL: cache
// ZWECK: Single-Slot Modell-Cache mit Evict-All beim Modell-Wechsel
// INPUT: Descriptor des angeforderten Modells
// OUTPUT: Inferenzbereites Model-Handle
// NEBENEFFEKTE: Laedt/entlaedt Modelle, triggert Speicher-Reklamation
// HINWEISE: Nicht selbst synchronisiert - Zugriffe muessen extern
//           serialisiert werden (der Predictor haelt waehrend eines
//           Aufrufs seinen Mutex); der Single-Slot begrenzt den
//           Beschleuniger-Verbrauch auf einen Modell-Footprint

package dino

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/linyu92/sd-webui-segment-anything/dino/backend"
	"github.com/linyu92/sd-webui-segment-anything/envconfig"
)

// ErrUnknownModel: Anzeige-Name ist nicht in der Modell-Tabelle
var ErrUnknownModel = errors.New("dino: unknown model name")

// loadFunc konstruiert ein Model-Handle aus einem Descriptor
type loadFunc func(d Descriptor, opts backend.LoadOptions) (backend.Model, error)

// Cache haelt hoechstens ein geladenes Modell, gekeyt ueber den
// Checkpoint-Namen. Das Laden eines anderen Checkpoints verdraengt
// den bisherigen Eintrag vollstaendig.
type Cache struct {
	key   string
	model backend.Model

	loadFn  loadFunc
	lowVRAM func() bool
}

// NewCache erstellt einen leeren Modell-Cache
func NewCache() *Cache {
	return &Cache{
		loadFn: func(d Descriptor, opts backend.LoadOptions) (backend.Model, error) {
			return backend.New(d.CheckpointPath(), d.ConfigPath(), opts)
		},
		lowVRAM: envconfig.LowVRAM,
	}
}

// Load gibt das Handle fuer den Checkpoint des Descriptors zurueck.
// Cache-Hit: dasselbe Handle, bei LowVRAM vorher zurueck auf den
// Beschleuniger verschoben. Cache-Miss: alle Eintraege verdraengen,
// neu laden und als einzigen Eintrag einsetzen. Schlaegt das Laden
// fehl, bleibt der Cache leer (nie teilbefuellt).
func (c *Cache) Load(d Descriptor) (backend.Model, error) {
	slog.Info("initializing GroundingDINO", "model", d.Name)

	if c.model != nil && c.key == d.Checkpoint {
		if c.lowVRAM() {
			if err := c.model.MoveTo(backend.LocationAccelerator); err != nil {
				return nil, fmt.Errorf("%w: %v", backend.ErrModelLoad, err)
			}
		}
		return c.model, nil
	}

	c.Clear()

	opts := backend.LoadOptions{Device: envconfig.Device()}
	model, err := c.loadFn(d, opts)
	if err != nil {
		return nil, err
	}

	c.key = d.Checkpoint
	c.model = model

	return model, nil
}

// Clear entlaedt das gecachte Modell und gibt Laufzeit- und
// Geraete-Speicher zurueck
func (c *Cache) Clear() {
	if c.model != nil {
		if err := c.model.Close(); err != nil {
			slog.Warn("closing cached model", "model", c.key, "error", err)
		}
	}
	c.key = ""
	c.model = nil
	backend.Reclaim()
}

// Cached gibt den Checkpoint-Namen des aktuellen Eintrags zurueck
func (c *Cache) Cached() (string, bool) {
	return c.key, c.model != nil
}
