// MODUL: backend/tokenizer
// ZWECK: WordPiece-Tokenisierung der Caption fuer den Text-Encoder
// INPUT: Normalisierte Caption, vocab.txt (BERT-Format, ein Token pro Zeile)
// OUTPUT: Token-IDs, Attention-Mask, Token-Type-IDs
// NEBENEFFEKTE: keine
// HINWEISE: Greedy Longest-Match mit ##-Prefix fuer Fortsetzungs-Tokens

package backend

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// Spezial-Tokens des BERT-Vokabulars
const (
	tokenCLS = "[CLS]"
	tokenSEP = "[SEP]"
	tokenUNK = "[UNK]"
)

// Tokenizer kodiert Captions mit einem WordPiece-Vokabular
type Tokenizer struct {
	vocab map[string]int64
	cls   int64
	sep   int64
	unk   int64
}

// NewTokenizer laedt ein Vokabular im BERT vocab.txt Format
// (Zeilennummer = Token-ID)
func NewTokenizer(vocabPath string) (*Tokenizer, error) {
	f, err := os.Open(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("%w: vocab %s: %v", ErrModelLoad, vocabPath, err)
	}
	defer f.Close()

	vocab := make(map[string]int64)
	scanner := bufio.NewScanner(f)
	var id int64
	for scanner.Scan() {
		token := strings.TrimRight(scanner.Text(), "\r\n")
		vocab[token] = id
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: vocab %s: %v", ErrModelLoad, vocabPath, err)
	}

	t := &Tokenizer{vocab: vocab, cls: -1, sep: -1, unk: -1}
	if id, ok := vocab[tokenCLS]; ok {
		t.cls = id
	}
	if id, ok := vocab[tokenSEP]; ok {
		t.sep = id
	}
	if id, ok := vocab[tokenUNK]; ok {
		t.unk = id
	}

	return t, nil
}

// Caption ist eine tokenisierte Text-Eingabe
type Caption struct {
	IDs     []int64
	Mask    []int64
	TypeIDs []int64
}

// Encode tokenisiert eine Caption und begrenzt sie auf maxLen Tokens
// inklusive [CLS] und [SEP]
func (t *Tokenizer) Encode(caption string, maxLen int) Caption {
	ids := make([]int64, 0, 16)
	if t.cls >= 0 {
		ids = append(ids, t.cls)
	}

	for _, word := range splitWords(caption) {
		ids = t.encodeWordPiece(word, ids)
	}

	if t.sep >= 0 {
		ids = append(ids, t.sep)
	}

	if maxLen > 0 && len(ids) > maxLen {
		ids = ids[:maxLen]
		if t.sep >= 0 {
			ids[maxLen-1] = t.sep
		}
	}

	c := Caption{
		IDs:     ids,
		Mask:    make([]int64, len(ids)),
		TypeIDs: make([]int64, len(ids)),
	}
	for i := range c.Mask {
		c.Mask[i] = 1
	}

	return c
}

// splitWords zerlegt in Woerter und einzelne Satzzeichen
// (Basic-Tokenization im BERT-Stil, Eingabe ist bereits lowercase)
func splitWords(s string) []string {
	var words []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			flush()
		case unicode.IsPunct(r):
			flush()
			words = append(words, string(r))
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return words
}

// encodeWordPiece haengt die WordPiece-Tokens eines Wortes an ids an.
// Greedy Longest-Match; Fortsetzungs-Tokens tragen das ##-Prefix.
func (t *Tokenizer) encodeWordPiece(word string, ids []int64) []int64 {
	if word == "" {
		return ids
	}

	// Haeufigster Fall: ganzes Wort im Vokabular
	if id, ok := t.vocab[word]; ok {
		return append(ids, id)
	}

	runes := []rune(word)
	start := 0

	for start < len(runes) {
		end := len(runes)
		found := false

		for end > start {
			substr := string(runes[start:end])
			if start > 0 {
				substr = "##" + substr
			}

			if id, ok := t.vocab[substr]; ok {
				ids = append(ids, id)
				found = true
				start = end
				break
			}
			end--
		}

		if !found {
			if t.unk >= 0 {
				ids = append(ids, t.unk)
			}
			start++
		}
	}

	return ids
}
