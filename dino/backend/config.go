// MODUL: backend/config
// ZWECK: Laden der Modell-Konfiguration (JSON-Sidecar neben dem Checkpoint)
// INPUT: Pfad zur Konfigurationsdatei
// OUTPUT: Config mit Tensor-Namen und Text-Limits
// NEBENEFFEKTE: Dateisystem-Lesezugriff
// HINWEISE: Nicht-striktes Parsen - unbekannte Keys werden toleriert,
//           fehlende Keys fallen auf Defaults zurueck

package backend

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config beschreibt die Tensor-Schnittstelle eines exportierten
// Detektions-Modells. Die Defaults entsprechen dem Standard-Export.
type Config struct {
	// Tensor-Namen des Exports
	ImageInput     string `json:"image_input"`
	IDsInput       string `json:"ids_input"`
	MaskInput      string `json:"mask_input"`
	TokenTypeInput string `json:"token_type_input"`
	LogitsOutput   string `json:"logits_output"`
	BoxesOutput    string `json:"boxes_output"`

	// Vocab ist der Dateiname des Tokenizer-Vokabulars relativ zur
	// Konfigurationsdatei
	Vocab string `json:"vocab"`

	// MaxTextLen begrenzt die Caption-Tokens (inkl. [CLS]/[SEP])
	MaxTextLen int `json:"max_text_len"`

	// NumQueries ist die Anzahl der Objekt-Queries des Decoders
	NumQueries int `json:"num_queries"`
}

// DefaultConfig gibt die Standard-Konfiguration zurueck
func DefaultConfig() Config {
	return Config{
		ImageInput:     "img",
		IDsInput:       "input_ids",
		MaskInput:      "attention_mask",
		TokenTypeInput: "token_type_ids",
		LogitsOutput:   "logits",
		BoxesOutput:    "boxes",
		Vocab:          "vocab.txt",
		MaxTextLen:     256,
		NumQueries:     900,
	}
}

// LoadConfig laedt eine Konfigurationsdatei. Eine fehlende Datei ist
// kein Fehler (Defaults); eine unparsbare Datei schon.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	} else if err != nil {
		return config, fmt.Errorf("%w: config %s: %v", ErrModelLoad, path, err)
	}

	// json.Unmarshal ignoriert unbekannte Keys und laesst fehlende
	// Keys auf den Defaults
	if err := json.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("%w: config %s: %v", ErrModelLoad, path, err)
	}

	if config.MaxTextLen <= 0 {
		config.MaxTextLen = 256
	}
	if config.NumQueries <= 0 {
		config.NumQueries = 900
	}

	return config, nil
}
