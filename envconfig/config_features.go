// config_features.go - Feature-Flags und Geraete-Konfiguration
//
// Dieses Modul enthaelt:
// - LowVRAM: Offload-Verhalten fuer knappen Beschleuniger-Speicher
// - Device / OrtLibrary: ONNX-Runtime-Einstellungen
// - NoInstall: Deaktiviert den Runtime-Verfuegbarkeits-Check
package envconfig

// =============================================================================
// Feature-Flags
// =============================================================================

var (
	// LowVRAM verschiebt Modelle zwischen den Inferenz-Aufrufen in den
	// Host-Speicher um Beschleuniger-Speicher zu sparen (Latenz-Kosten)
	LowVRAM = Bool("DINO_LOWVRAM")

	// NoInstall ueberspringt den Versuch die Detektions-Runtime
	// bereitzustellen; Predict meldet dann "nicht verfuegbar"
	NoInstall = Bool("DINO_NOINSTALL")
)

// =============================================================================
// Geraete- und Runtime-Konfiguration
// =============================================================================

var (
	// Device waehlt das Compute-Backend: "cpu" oder "cuda"
	Device = String("DINO_DEVICE")

	// OrtLibrary ist der Pfad zur ONNX-Runtime Shared Library
	// (leer = Systemsuche durch die Runtime selbst)
	OrtLibrary = String("DINO_ORT_LIBRARY")

	// CudaVisibleDevices steuert sichtbare NVIDIA-Geraete
	CudaVisibleDevices = String("CUDA_VISIBLE_DEVICES")
)
