//go:build cgo

// MODUL: backend/ort
// ZWECK: Detektions-Modell auf ONNX Runtime (Session-Lifecycle, Forward)
// INPUT: Checkpoint (.onnx), Config-Sidecar, Bildtensor + Caption
// OUTPUT: Output mit Logits und Boxen pro Query
// NEBENEFFEKTE: Alloziert ONNX Runtime Ressourcen und Geraete-Speicher
// ABHAENGIGKEITEN: onnxruntime_go
// HINWEISE: MoveTo(Host) zerstoert die Session und haelt nur Metadaten;
//           MoveTo(Accelerator) baut sie aus dem Checkpoint neu auf

package backend

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/linyu92/sd-webui-segment-anything/envconfig"
)

// installIssueText verweist Nutzer bei Runtime-Problemen auf den
// Support-Kanal des Upstream-Projekts
const installIssueText = "submit an issue to https://github.com/IDEA-Research/Grounded-Segment-Anything/issues."

// ============================================================================
// Runtime-Verfuegbarkeit
// ============================================================================

var (
	runtimeOnce sync.Once
	runtimeOK   bool
)

type ortRuntime struct{}

// DefaultRuntime gibt die prozessweite ONNX-Runtime-Pruefung zurueck
func DefaultRuntime() Runtime {
	return ortRuntime{}
}

// Ensure initialisiert die ONNX Runtime einmalig. Ein Fehlschlag ist
// kein harter Fehler: er wird geloggt und als false gemeldet, damit
// der Host das Feature fuer die Session deaktivieren kann.
func (ortRuntime) Ensure() bool {
	runtimeOnce.Do(func() {
		if envconfig.NoInstall() {
			slog.Info("detection runtime setup disabled", "env", "DINO_NOINSTALL")
			return
		}

		if lib := envconfig.OrtLibrary(); lib != "" {
			ort.SetSharedLibraryPath(lib)
		}

		if err := ort.InitializeEnvironment(); err != nil {
			slog.Error("detection runtime unavailable, please "+installIssueText, "error", err)
			return
		}

		runtimeOK = true
	})

	return runtimeOK
}

// ============================================================================
// Modell-Handle
// ============================================================================

// ortModel implementiert Model auf einer ONNX Runtime Session
type ortModel struct {
	checkpoint string
	config     Config
	tokenizer  *Tokenizer
	opts       LoadOptions

	session *ort.DynamicAdvancedSession
	loc     Location
}

// New laedt ein Detektions-Modell aus Checkpoint und Config-Sidecar.
// Das Handle liegt danach auf dem Beschleuniger und ist
// inferenzbereit (eval-only, Trainings-Modi existieren nicht).
func New(checkpoint, configPath string, opts LoadOptions) (Model, error) {
	if !(ortRuntime{}).Ensure() {
		return nil, fmt.Errorf("%w: runtime not available", ErrModelLoad)
	}

	if _, err := os.Stat(checkpoint); err != nil {
		return nil, fmt.Errorf("%w: checkpoint %s: %v", ErrModelLoad, checkpoint, err)
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	tokenizer, err := NewTokenizer(filepath.Join(filepath.Dir(configPath), config.Vocab))
	if err != nil {
		return nil, err
	}

	m := &ortModel{
		checkpoint: checkpoint,
		config:     config,
		tokenizer:  tokenizer,
		opts:       opts,
		loc:        LocationHost,
	}

	if err := m.MoveTo(LocationAccelerator); err != nil {
		return nil, err
	}

	return m, nil
}

// createSession baut die Inference-Session fuer das Compute-Geraet auf
func (m *ortModel) createSession() (*ort.DynamicAdvancedSession, error) {
	sessOpts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("%w: session options: %v", ErrModelLoad, err)
	}
	defer sessOpts.Destroy()

	if m.opts.Threads > 0 {
		if err := sessOpts.SetIntraOpNumThreads(m.opts.Threads); err != nil {
			return nil, fmt.Errorf("%w: threads: %v", ErrModelLoad, err)
		}
	}

	if m.opts.Device == "cuda" || m.opts.Device == "gpu" {
		cudaOpts, err := ort.NewCUDAProviderOptions()
		if err == nil {
			_ = sessOpts.AppendExecutionProviderCUDA(cudaOpts)
			cudaOpts.Destroy()
		} else {
			// Fallback auf CPU, kein harter Fehler
			slog.Warn("cuda provider unavailable, falling back to cpu", "error", err)
		}
	}

	session, err := ort.NewDynamicAdvancedSession(
		m.checkpoint,
		[]string{m.config.ImageInput, m.config.IDsInput, m.config.MaskInput, m.config.TokenTypeInput},
		[]string{m.config.LogitsOutput, m.config.BoxesOutput},
		sessOpts,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: session: %v", ErrModelLoad, err)
	}

	return session, nil
}

// MoveTo verschiebt das Handle zwischen Host und Beschleuniger
func (m *ortModel) MoveTo(loc Location) error {
	if loc == m.loc {
		return nil
	}

	switch loc {
	case LocationAccelerator:
		session, err := m.createSession()
		if err != nil {
			return err
		}
		m.session = session
	case LocationHost:
		if m.session != nil {
			m.session.Destroy()
			m.session = nil
		}
		// Geraete-Pools sofort zurueckgeben
		Reclaim()
	}

	m.loc = loc
	return nil
}

// Location gibt den aktuellen Ablageort zurueck
func (m *ortModel) Location() Location {
	return m.loc
}

// Forward fuehrt einen Forward-Pass aus
func (m *ortModel) Forward(image ImageTensor, caption string) (*Output, error) {
	if m.session == nil {
		return nil, ErrOffloaded
	}

	tokens := m.tokenizer.Encode(caption, m.config.MaxTextLen)
	textLen := int64(len(tokens.IDs))

	imageTensor, err := ort.NewTensor(
		ort.Shape{1, int64(image.Channels), int64(image.Height), int64(image.Width)},
		image.Data,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: image tensor: %v", ErrInference, err)
	}
	defer imageTensor.Destroy()

	idsTensor, err := ort.NewTensor(ort.Shape{1, textLen}, tokens.IDs)
	if err != nil {
		return nil, fmt.Errorf("%w: ids tensor: %v", ErrInference, err)
	}
	defer idsTensor.Destroy()

	maskTensor, err := ort.NewTensor(ort.Shape{1, textLen}, tokens.Mask)
	if err != nil {
		return nil, fmt.Errorf("%w: mask tensor: %v", ErrInference, err)
	}
	defer maskTensor.Destroy()

	typeTensor, err := ort.NewTensor(ort.Shape{1, textLen}, tokens.TypeIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: token type tensor: %v", ErrInference, err)
	}
	defer typeTensor.Destroy()

	nq := int64(m.config.NumQueries)

	logitsData := make([]float32, nq*int64(m.config.MaxTextLen))
	logitsTensor, err := ort.NewTensor(ort.Shape{1, nq, int64(m.config.MaxTextLen)}, logitsData)
	if err != nil {
		return nil, fmt.Errorf("%w: logits tensor: %v", ErrInference, err)
	}
	defer logitsTensor.Destroy()

	boxesData := make([]float32, nq*4)
	boxesTensor, err := ort.NewTensor(ort.Shape{1, nq, 4}, boxesData)
	if err != nil {
		return nil, fmt.Errorf("%w: boxes tensor: %v", ErrInference, err)
	}
	defer boxesTensor.Destroy()

	err = m.session.Run(
		[]ort.ArbitraryTensor{imageTensor, idsTensor, maskTensor, typeTensor},
		[]ort.ArbitraryTensor{logitsTensor, boxesTensor},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}

	return splitOutput(logitsTensor.GetData(), boxesTensor.GetData(), int(nq), m.config.MaxTextLen), nil
}

// splitOutput zerlegt die flachen Output-Tensoren in Query-Zeilen
func splitOutput(logits, boxes []float32, nq, textLen int) *Output {
	out := &Output{
		Logits: make([][]float32, 0, nq),
		Boxes:  make([][4]float32, 0, nq),
	}

	for q := 0; q < nq; q++ {
		row := make([]float32, textLen)
		copy(row, logits[q*textLen:(q+1)*textLen])
		out.Logits = append(out.Logits, row)

		out.Boxes = append(out.Boxes, [4]float32{
			boxes[q*4+0],
			boxes[q*4+1],
			boxes[q*4+2],
			boxes[q*4+3],
		})
	}

	return out
}

// Close gibt alle Ressourcen des Handles frei
func (m *ortModel) Close() error {
	if m.session != nil {
		m.session.Destroy()
		m.session = nil
	}
	m.loc = LocationHost
	return nil
}
