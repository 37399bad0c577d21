// prompt.go - Caption-Normalisierung fuer den Text-Encoder
package dino

import "strings"

// NormalizeCaption bereitet einen Prompt fuer das Modell vor:
// lowercase, Whitespace getrimmt, Punkt am Ende. Das Modell erwartet
// satzartige Captions.
func NormalizeCaption(prompt string) string {
	caption := strings.ToLower(prompt)
	caption = strings.TrimSpace(caption)
	if !strings.HasSuffix(caption, ".") {
		caption += "."
	}
	return caption
}
