package ocr

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Lines made only of rule characters; tesseract reads table borders this way.
var reBoxNoise = regexp.MustCompile(`(?m)^\s*[_\-=]{3,}\s*$`)

// Normalize composes the text to NFC, drops ruled lines and flattens the rest
// to single-spaced words. Tesseract emits decomposed accents on some builds,
// which the engine's accent folding would otherwise miss.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reBoxNoise.ReplaceAllString(norm.NFC.String(s), "")
	return strings.Join(strings.Fields(s), " ")
}
