// registry_test.go - Unit Tests fuer die Modell-Tabelle
package dino

import (
	"path/filepath"
	"testing"
)

func TestLookup(t *testing.T) {
	d, ok := Lookup("GroundingDINO_SwinT_OGC (694MB)")
	if !ok {
		t.Fatal("SwinT-Eintrag sollte registriert sein")
	}
	if d.Checkpoint != "groundingdino_swint_ogc.onnx" {
		t.Errorf("Checkpoint = %q, erwartet groundingdino_swint_ogc.onnx", d.Checkpoint)
	}

	if _, ok := Lookup("unbekannt"); ok {
		t.Error("unbekannter Name darf keinen Eintrag liefern")
	}
}

func TestModelsReturnsCopy(t *testing.T) {
	first := Models()
	if len(first) < 2 {
		t.Fatalf("erwartet mindestens 2 Eintraege, erhalten %d", len(first))
	}

	// Mutation der Kopie darf die Tabelle nicht veraendern
	first[0].Name = "mutiert"

	second := Models()
	if second[0].Name == "mutiert" {
		t.Error("Models() sollte eine Kopie zurueckgeben")
	}
}

func TestDescriptorPaths(t *testing.T) {
	t.Setenv("DINO_MODELS", filepath.Join("tmp", "checkpoints"))

	d := Descriptor{Checkpoint: "model.onnx", Config: "model.json"}

	if got := d.CheckpointPath(); got != filepath.Join("tmp", "checkpoints", "model.onnx") {
		t.Errorf("CheckpointPath() = %q", got)
	}
	if got := d.ConfigPath(); got != filepath.Join("tmp", "checkpoints", "model.json") {
		t.Errorf("ConfigPath() = %q", got)
	}
}
