// types.go - API-Typen fuer den Detektions-Service
// Enthaelt: StatusError, Rect, Detect/Draw/Pull/List Requests und Responses
package api

import (
	"fmt"
	"time"
)

// StatusError is an error with an HTTP status code and message.
type StatusError struct {
	StatusCode   int
	Status       string
	ErrorMessage string `json:"error"`
}

func (e StatusError) Error() string {
	switch {
	case e.Status != "" && e.ErrorMessage != "":
		return fmt.Sprintf("%s: %s", e.Status, e.ErrorMessage)
	case e.Status != "":
		return e.Status
	case e.ErrorMessage != "":
		return e.ErrorMessage
	default:
		// this should not happen
		return "something went wrong, please see the server logs for details"
	}
}

// ImageData transportiert rohe Bild-Bytes (JPEG/PNG/WebP).
// Wird in JSON als Base64 kodiert.
type ImageData []byte

// Rect ist eine Bounding-Box in Pixel-Koordinaten, Ecken-Format.
// X0/Y0 ist die linke obere, X1/Y1 die rechte untere Ecke.
type Rect struct {
	X0 float32 `json:"x0"`
	Y0 float32 `json:"y0"`
	X1 float32 `json:"x1"`
	Y1 float32 `json:"y1"`
}

// Width gibt die Breite der Box zurueck
func (r Rect) Width() float32 { return r.X1 - r.X0 }

// Height gibt die Hoehe der Box zurueck
func (r Rect) Height() float32 { return r.Y1 - r.Y0 }

// DetectRequest beschreibt eine Detektions-Anfrage an /api/detect
type DetectRequest struct {
	// Model ist der Anzeige-Name aus der Modell-Tabelle,
	// z.B. "GroundingDINO_SwinT_OGC (694MB)"
	Model string `json:"model"`

	// Prompt ist die Text-Beschreibung der gesuchten Objekte.
	// Wird serverseitig normalisiert (lowercase, trim, Punkt am Ende)
	Prompt string `json:"prompt"`

	// Image sind die Bild-Bytes
	Image ImageData `json:"image"`

	// BoxThreshold filtert Detektionen mit Confidence <= Threshold aus
	BoxThreshold float32 `json:"box_threshold"`
}

// DetectResponse ist die Antwort auf eine Detektions-Anfrage.
// Available ist false wenn die Detektions-Runtime in dieser Session
// nicht bereitsteht; Boxes ist dann leer und der Aufrufer sollte das
// Feature deaktivieren. Ein leeres Boxes-Array bei Available=true ist
// ein gueltiges Ergebnis (nichts gefunden).
type DetectResponse struct {
	Boxes     []Rect `json:"boxes"`
	Available bool   `json:"available"`
}

// DrawRequest beschreibt eine Render-Anfrage an /api/draw
type DrawRequest struct {
	Image     ImageData `json:"image"`
	Boxes     []Rect    `json:"boxes"`
	Color     [4]uint8  `json:"color,omitempty"`
	Thickness int       `json:"thickness,omitempty"`
	ShowIndex bool      `json:"show_index,omitempty"`
}

// DrawResponse enthaelt das annotierte Bild als PNG
type DrawResponse struct {
	Image ImageData `json:"image"`
}

// PullRequest beschreibt einen Checkpoint-Download an /api/pull
type PullRequest struct {
	Model string `json:"model"`
}

// ProgressResponse meldet den Stand eines Checkpoint-Downloads
type ProgressResponse struct {
	Status     string `json:"status"`
	Checkpoint string `json:"checkpoint,omitempty"`
	Total      int64  `json:"total,omitempty"`
	Completed  int64  `json:"completed,omitempty"`
}

// ModelResponse beschreibt ein Modell aus der Registry
type ModelResponse struct {
	Name       string    `json:"name"`
	Checkpoint string    `json:"checkpoint"`
	Size       int64     `json:"size,omitempty"`
	Downloaded bool      `json:"downloaded"`
	ModifiedAt time.Time `json:"modified_at,omitempty"`
}

// ListResponse listet alle registrierten Modelle
type ListResponse struct {
	Models []ModelResponse `json:"models"`
}
