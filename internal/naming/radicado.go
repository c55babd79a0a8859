// Package naming derives filing numbers and output file names for generated
// licenses. Everything here is pure string manipulation with no I/O.
package naming

import (
	"regexp"
	"strings"
)

// Accepts "Radicado: 123456", "RADICADO 123456", "Radicado-123456".
var (
	radicadoExplicitRe = regexp.MustCompile(`(?i)\bradicado\b[:\s\-#]*([0-9]{6,})`)
	radicadoNumberRe   = regexp.MustCompile(`[0-9]{6,}`)
	radicadoLineRe     = regexp.MustCompile(`(?m)^\s*([0-9]{6,})\b`)
)

// headLines bounds how far into a document the radicado is searched for; it
// sits in the header when present at all.
const headLines = 50

// RadicadoFromFilename returns the first 6+ digit group in the file name.
func RadicadoFromFilename(filename string) string {
	return radicadoNumberRe.FindString(filename)
}

// RadicadoFromText searches the first lines of the document text for an
// explicit "radicado" mention, then for a number at the start of a line.
func RadicadoFromText(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > headLines {
		lines = lines[:headLines]
	}
	head := strings.Join(lines, "\n")

	if m := radicadoExplicitRe.FindStringSubmatch(head); m != nil {
		return m[1]
	}
	if m := radicadoLineRe.FindStringSubmatch(head); m != nil {
		return m[1]
	}
	return ""
}

// ResolveRadicado prefers a number carried by the file name, falling back to
// the document text. Empty when neither yields one.
func ResolveRadicado(text, filename string) string {
	if r := RadicadoFromFilename(filename); r != "" {
		return r
	}
	return RadicadoFromText(text)
}
