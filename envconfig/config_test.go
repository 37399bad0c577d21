// config_test.go - Unit Tests fuer die Environment-Konfiguration
package envconfig

import (
	"log/slog"
	"strings"
	"testing"
)

func TestHost(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{name: "Default", value: "", expected: "127.0.0.1:7861"},
		{name: "nur Port", value: ":1234", expected: "127.0.0.1:1234"},
		{name: "nur Host", value: "0.0.0.0", expected: "0.0.0.0:7861"},
		{name: "Host und Port", value: "0.0.0.0:8080", expected: "0.0.0.0:8080"},
		{name: "http Scheme Default-Port", value: "http://example.com", expected: "example.com:80"},
		{name: "https Scheme Default-Port", value: "https://example.com", expected: "example.com:443"},
		{name: "ungueltiger Port faellt auf Default", value: "127.0.0.1:99999", expected: "127.0.0.1:7861"},
		{name: "gequotet", value: "\"1.2.3.4:5678\"", expected: "1.2.3.4:5678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DINO_HOST", tt.value)
			if got := Host().Host; got != tt.expected {
				t.Errorf("Host() = %q, erwartet %q", got, tt.expected)
			}
		})
	}
}

func TestModels(t *testing.T) {
	t.Setenv("DINO_MODELS", "/tmp/checkpoints")
	if got := Models(); got != "/tmp/checkpoints" {
		t.Errorf("Models() = %q, erwartet /tmp/checkpoints", got)
	}

	// Default liegt unter dem Home-Verzeichnis
	t.Setenv("DINO_MODELS", "")
	if got := Models(); !strings.Contains(got, "grounding-dino") {
		t.Errorf("Models() = %q, erwartet Pfad mit grounding-dino", got)
	}
}

func TestAllowedOrigins(t *testing.T) {
	t.Setenv("DINO_ORIGINS", "")
	origins := AllowedOrigins()

	// Die localhost-Defaults sind immer enthalten
	for _, want := range []string{"http://localhost", "https://127.0.0.1", "app://*"} {
		found := false
		for _, o := range origins {
			if o == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("AllowedOrigins() enthaelt %q nicht: %v", want, origins)
		}
	}

	// Eigene Origins kommen vor die Defaults
	t.Setenv("DINO_ORIGINS", "http://a.com,http://b.com")
	origins = AllowedOrigins()
	if origins[0] != "http://a.com" || origins[1] != "http://b.com" {
		t.Errorf("eigene Origins fehlen: %v", origins[:2])
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		value    string
		expected slog.Level
	}{
		{"", slog.LevelInfo},
		{"false", slog.LevelInfo},
		{"1", slog.LevelDebug},
		{"true", slog.LevelDebug},
		{"2", slog.Level(-8)},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("DINO_DEBUG", tt.value)
			if got := LogLevel(); got != tt.expected {
				t.Errorf("LogLevel() = %v, erwartet %v", got, tt.expected)
			}
		})
	}
}

func TestVar(t *testing.T) {
	tests := []struct {
		value    string
		expected string
	}{
		{"wert", "wert"},
		{"  wert  ", "wert"},
		{"\"wert\"", "wert"},
		{"'wert'", "wert"},
		{" \"wert\" ", "wert"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("DINO_TEST_VAR", tt.value)
			if got := Var("DINO_TEST_VAR"); got != tt.expected {
				t.Errorf("Var() = %q, erwartet %q", got, tt.expected)
			}
		})
	}
}

func TestBool(t *testing.T) {
	getter := Bool("DINO_TEST_BOOL")

	t.Setenv("DINO_TEST_BOOL", "")
	if getter() {
		t.Error("leerer Wert sollte false sein")
	}

	t.Setenv("DINO_TEST_BOOL", "1")
	if !getter() {
		t.Error("1 sollte true sein")
	}

	t.Setenv("DINO_TEST_BOOL", "false")
	if getter() {
		t.Error("false sollte false sein")
	}

	// Unparsbare Werte gelten als gesetzt
	t.Setenv("DINO_TEST_BOOL", "ja")
	if !getter() {
		t.Error("unparsbarer Wert sollte true sein")
	}
}

func TestUint(t *testing.T) {
	getter := Uint("DINO_TEST_UINT", 42)

	t.Setenv("DINO_TEST_UINT", "")
	if got := getter(); got != 42 {
		t.Errorf("Default = %d, erwartet 42", got)
	}

	t.Setenv("DINO_TEST_UINT", "7")
	if got := getter(); got != 7 {
		t.Errorf("Wert = %d, erwartet 7", got)
	}

	t.Setenv("DINO_TEST_UINT", "minus")
	if got := getter(); got != 42 {
		t.Errorf("ungueltiger Wert = %d, erwartet Default 42", got)
	}
}

func TestLowVRAM(t *testing.T) {
	t.Setenv("DINO_LOWVRAM", "")
	if LowVRAM() {
		t.Error("LowVRAM Default sollte false sein")
	}

	t.Setenv("DINO_LOWVRAM", "1")
	if !LowVRAM() {
		t.Error("DINO_LOWVRAM=1 sollte true sein")
	}
}

func TestAsMapContainsKnownKeys(t *testing.T) {
	m := AsMap()
	for _, key := range []string{"DINO_HOST", "DINO_MODELS", "DINO_LOWVRAM", "DINO_DEVICE"} {
		if _, ok := m[key]; !ok {
			t.Errorf("AsMap() enthaelt %q nicht", key)
		}
	}
}
