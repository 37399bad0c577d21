// MODUL: registry
// ZWECK: Statische Modell-Tabelle (Name -> Checkpoint, Config, URL)
// INPUT: Anzeige-Name eines Modells
// OUTPUT: Descriptor mit Checkpoint-Metadaten
// NEBENEFFEKTE: keine
// HINWEISE: Tabelle wird beim Start festgelegt; erweiterbar um Zeilen

package dino

import (
	"path/filepath"

	"github.com/linyu92/sd-webui-segment-anything/envconfig"
)

// Descriptor beschreibt ein registriertes Detektions-Modell.
// Eintraege sind unveraenderlich und beim Prozess-Start definiert.
type Descriptor struct {
	// Name ist der menschenlesbare Anzeige-Name
	Name string

	// Checkpoint ist der Dateiname der exportierten Gewichte
	Checkpoint string

	// Config ist der Dateiname des Konfigurations-Sidecars
	Config string

	// URL ist die Download-Quelle fuer den Checkpoint
	URL string
}

// CheckpointPath gibt den lokalen Pfad des Checkpoints zurueck
func (d Descriptor) CheckpointPath() string {
	return filepath.Join(envconfig.Models(), d.Checkpoint)
}

// ConfigPath gibt den lokalen Pfad der Modell-Konfiguration zurueck
func (d Descriptor) ConfigPath() string {
	return filepath.Join(envconfig.Models(), d.Config)
}

// Modell-Tabelle. Zwei Referenz-Eintraege; neue Modelle werden als
// weitere Zeilen ergaenzt.
var models = []Descriptor{
	{
		Name:       "GroundingDINO_SwinT_OGC (694MB)",
		Checkpoint: "groundingdino_swint_ogc.onnx",
		Config:     "GroundingDINO_SwinT_OGC.json",
		URL:        "https://huggingface.co/ShilongLiu/GroundingDINO/resolve/main/groundingdino_swint_ogc.onnx",
	},
	{
		Name:       "GroundingDINO_SwinB (938MB)",
		Checkpoint: "groundingdino_swinb_cogcoor.onnx",
		Config:     "GroundingDINO_SwinB.cfg.json",
		URL:        "https://huggingface.co/ShilongLiu/GroundingDINO/resolve/main/groundingdino_swinb_cogcoor.onnx",
	},
}

// Models gibt alle registrierten Modelle zurueck (Kopie)
func Models() []Descriptor {
	out := make([]Descriptor, len(models))
	copy(out, models)
	return out
}

// Lookup sucht ein Modell anhand des Anzeige-Namens
func Lookup(name string) (Descriptor, bool) {
	for _, d := range models {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}
