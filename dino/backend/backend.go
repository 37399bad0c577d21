// MODUL: backend
// ZWECK: Runtime-Abstraktion fuer geladene Detektions-Modelle
// INPUT: CHW-Bildtensoren und Captions
// OUTPUT: Roh-Logits und normalisierte Boxen pro Query
// NEBENEFFEKTE: Reclaim triggert Garbage Collection
// ABHAENGIGKEITEN: keine (Implementierungen in ort.go bzw. stub.go)
// HINWEISE: Ein Model-Handle ist nur fuer serialisierte Zugriffe sicher

package backend

import (
	"errors"
	"runtime"
	"runtime/debug"
)

// Fehler der Backend-Schicht
var (
	// ErrModelLoad: Konfiguration, Vokabular oder Checkpoint konnte
	// nicht geladen werden
	ErrModelLoad = errors.New("backend: model load failed")

	// ErrInference: Forward-Pass fehlgeschlagen (z.B. Geraete-OOM).
	// Aufrufer koennen nach einem Cache-Clear erneut versuchen
	ErrInference = errors.New("backend: inference failed")

	// ErrOffloaded: Forward-Pass auf einem Handle im Host-Speicher
	ErrOffloaded = errors.New("backend: model is offloaded to host memory")
)

// Location beschreibt wo die Ressourcen eines Handles liegen
type Location int

const (
	// LocationHost: Gewichte liegen im Host-Speicher, kein
	// Beschleuniger-Speicher belegt
	LocationHost Location = iota

	// LocationAccelerator: Modell ist auf dem Compute-Geraet
	// einsatzbereit
	LocationAccelerator
)

func (l Location) String() string {
	switch l {
	case LocationHost:
		return "host"
	case LocationAccelerator:
		return "accelerator"
	default:
		return "unknown"
	}
}

// ImageTensor ist ein vorverarbeitetes Bild im CHW float32 Layout
type ImageTensor struct {
	Data     []float32
	Channels int
	Height   int
	Width    int
}

// Output enthaelt die Roh-Ausgaben eines Forward-Pass.
// Logits sind unnormalisiert (Sigmoid wendet die Pipeline an),
// Boxes sind (cx, cy, w, h) normalisiert auf [0,1].
type Output struct {
	Logits [][]float32
	Boxes  [][4]float32
}

// Model ist ein geladenes, inferenzbereites Detektions-Modell.
// Handles sind immer im Evaluations-Modus; Trainings-Verhalten
// existiert in dieser Runtime nicht.
type Model interface {
	// Forward fuehrt einen Forward-Pass mit einem Bild und einer
	// einelementigen Caption-Batch aus
	Forward(image ImageTensor, caption string) (*Output, error)

	// MoveTo verschiebt die Modell-Ressourcen zwischen Host- und
	// Beschleuniger-Speicher
	MoveTo(loc Location) error

	// Location gibt den aktuellen Ablageort zurueck
	Location() Location

	// Close gibt alle Ressourcen des Handles frei
	Close() error
}

// Runtime prueft ob die Detektions-Runtime in dieser Session
// verfuegbar ist. Ensure ist idempotent und darf nie panicen;
// false bedeutet "Feature fuer diese Session deaktivieren".
type Runtime interface {
	Ensure() bool
}

// LoadOptions konfiguriert das Laden eines Modells
type LoadOptions struct {
	// Device ist das Compute-Backend: "cpu" oder "cuda"
	Device string

	// Threads begrenzt die CPU-Threads (0 = auto)
	Threads int
}

// Reclaim gibt Laufzeit-Speicher zurueck. Wird nach jedem
// Inferenz-Aufruf und bei Cache-Clears gerufen, da die Tensoren
// gross sind und der Host viele sequentielle Aufrufe macht.
func Reclaim() {
	runtime.GC()
	debug.FreeOSMemory()
}
