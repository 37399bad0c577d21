//go:build !cgo

// MODUL: backend/stub
// ZWECK: Stub-Implementierung wenn CGO nicht verfuegbar ist
// HINWEISE: Ensure meldet "nicht verfuegbar", New gibt Fehler zurueck

package backend

import (
	"fmt"
	"log/slog"
	"sync"
)

type stubRuntime struct{}

var stubOnce sync.Once

// DefaultRuntime gibt eine Runtime zurueck die nie verfuegbar ist
func DefaultRuntime() Runtime {
	return stubRuntime{}
}

// Ensure meldet die fehlende Runtime einmalig und gibt false zurueck
func (stubRuntime) Ensure() bool {
	stubOnce.Do(func() {
		slog.Warn("detection runtime requires a cgo build, feature disabled for this session")
	})
	return false
}

// New gibt immer einen Lade-Fehler zurueck
func New(checkpoint, configPath string, opts LoadOptions) (Model, error) {
	return nil, fmt.Errorf("%w: cgo required", ErrModelLoad)
}
