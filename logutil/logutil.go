// logutil.go - Logger-Konstruktion fuer den Server und die CLI
// Hauptfunktionen: NewLogger
package logutil

import (
	"io"
	"log/slog"
	"path/filepath"
)

// LevelTrace liegt unterhalb von slog.LevelDebug fuer sehr
// gespraechige Diagnose-Ausgaben (z.B. Tensor-Shapes pro Forward-Pass)
const LevelTrace slog.Level = -8

// NewLogger erstellt einen slog-Logger mit gekuerzten Quellpfaden.
// Source-Angaben werden auf den Dateinamen reduziert damit die
// Ausgabe lesbar bleibt.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.SourceKey {
				source := attr.Value.Any().(*slog.Source)
				source.File = filepath.Base(source.File)
			}
			return attr
		},
	}))
}

// Trace loggt auf Trace-Level ueber den Default-Logger
func Trace(msg string, args ...any) {
	slog.Log(nil, LevelTrace, msg, args...) //nolint:sloglint
}
