// tokenizer_test.go - Unit Tests fuer die WordPiece-Tokenisierung
package backend

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// writeVocab schreibt ein Test-Vokabular im vocab.txt Format
// (Zeilennummer = Token-ID)
func writeVocab(t *testing.T, tokens []string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vocab.txt")
	var data []byte
	for _, token := range tokens {
		data = append(data, token...)
		data = append(data, '\n')
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Vokabular schreiben fehlgeschlagen: %v", err)
	}
	return path
}

func testVocab(t *testing.T) *Tokenizer {
	t.Helper()

	// IDs: [CLS]=0, [SEP]=1, [UNK]=2, cat=3, dog=4, .=5, play=6, ##ing=7, two=8
	path := writeVocab(t, []string{"[CLS]", "[SEP]", "[UNK]", "cat", "dog", ".", "play", "##ing", "two"})
	tok, err := NewTokenizer(path)
	if err != nil {
		t.Fatalf("NewTokenizer fehlgeschlagen: %v", err)
	}
	return tok
}

func TestTokenizerMissingFile(t *testing.T) {
	if _, err := NewTokenizer(filepath.Join(t.TempDir(), "fehlt.txt")); err == nil {
		t.Error("fehlendes Vokabular sollte einen Fehler ergeben")
	}
}

func TestEncodeSimpleCaption(t *testing.T) {
	tok := testVocab(t)

	c := tok.Encode("cat dog.", 256)

	expected := []int64{0, 3, 4, 5, 1} // [CLS] cat dog . [SEP]
	if !reflect.DeepEqual(c.IDs, expected) {
		t.Errorf("IDs = %v, erwartet %v", c.IDs, expected)
	}

	// Mask komplett 1, TypeIDs komplett 0, gleiche Laenge
	if len(c.Mask) != len(c.IDs) || len(c.TypeIDs) != len(c.IDs) {
		t.Fatalf("Laengen inkonsistent: ids=%d mask=%d types=%d", len(c.IDs), len(c.Mask), len(c.TypeIDs))
	}
	for i := range c.Mask {
		if c.Mask[i] != 1 {
			t.Errorf("Mask[%d] = %d, erwartet 1", i, c.Mask[i])
		}
		if c.TypeIDs[i] != 0 {
			t.Errorf("TypeIDs[%d] = %d, erwartet 0", i, c.TypeIDs[i])
		}
	}
}

func TestEncodeWordPieceSplit(t *testing.T) {
	tok := testVocab(t)

	// "playing" ist nicht im Vokabular: play + ##ing
	c := tok.Encode("playing", 256)

	expected := []int64{0, 6, 7, 1}
	if !reflect.DeepEqual(c.IDs, expected) {
		t.Errorf("IDs = %v, erwartet %v", c.IDs, expected)
	}
}

func TestEncodeUnknownToken(t *testing.T) {
	tok := testVocab(t)

	c := tok.Encode("x", 256)

	expected := []int64{0, 2, 1} // [CLS] [UNK] [SEP]
	if !reflect.DeepEqual(c.IDs, expected) {
		t.Errorf("IDs = %v, erwartet %v", c.IDs, expected)
	}
}

func TestEncodePunctuationSplit(t *testing.T) {
	tok := testVocab(t)

	// Satzzeichen werden als eigene Tokens abgetrennt, auch ohne Leerzeichen
	c := tok.Encode("cat.dog", 256)

	expected := []int64{0, 3, 5, 4, 1}
	if !reflect.DeepEqual(c.IDs, expected) {
		t.Errorf("IDs = %v, erwartet %v", c.IDs, expected)
	}
}

func TestEncodeTruncation(t *testing.T) {
	tok := testVocab(t)

	// Volle Kodierung waere [CLS] two cat dog . [SEP] = 6 Tokens
	c := tok.Encode("two cat dog.", 4)

	if len(c.IDs) != 4 {
		t.Fatalf("erwartet 4 Tokens nach Truncation, erhalten %d", len(c.IDs))
	}
	// Das letzte Token bleibt [SEP]
	if c.IDs[3] != 1 {
		t.Errorf("letztes Token = %d, erwartet [SEP]=1", c.IDs[3])
	}
	if c.IDs[0] != 0 {
		t.Errorf("erstes Token = %d, erwartet [CLS]=0", c.IDs[0])
	}
}

func TestEncodeEmptyCaption(t *testing.T) {
	tok := testVocab(t)

	c := tok.Encode("", 256)

	expected := []int64{0, 1} // nur [CLS] [SEP]
	if !reflect.DeepEqual(c.IDs, expected) {
		t.Errorf("IDs = %v, erwartet %v", c.IDs, expected)
	}
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"cat dog", []string{"cat", "dog"}},
		{"a red car.", []string{"a", "red", "car", "."}},
		{"  spaced  ", []string{"spaced"}},
		{"", nil},
		{"...", []string{".", ".", "."}},
	}

	for _, tt := range tests {
		result := splitWords(tt.input)
		if !reflect.DeepEqual(result, tt.expected) {
			t.Errorf("splitWords(%q) = %v, erwartet %v", tt.input, result, tt.expected)
		}
	}
}
