package extract

import (
	"regexp"
	"strings"
	"unicode"

	"radlic/internal/docx"
	"radlic/internal/textnorm"
)

// Separator is the character that divided a label from its value, kept so the
// writer can reproduce the original layout.
type Separator string

const (
	SepColon     Separator = ":"
	SepEnDash    Separator = "–"
	SepEmDash    Separator = "—"
	SepSemicolon Separator = ";"
	SepHyphen    Separator = "-"
	SepNewline   Separator = "\n"
)

// inlineSeparators in priority order; the bare hyphen is tried last because it
// also appears inside serial numbers and addresses.
var inlineSeparators = []Separator{SepColon, SepEnDash, SepEmDash, SepSemicolon, SepHyphen}

// numericHyphenRe matches values that are digits and hyphens only, e.g. serial
// numbers, which must not be split on the bare hyphen.
var numericHyphenRe = regexp.MustCompile(`^[0-9][0-9\s-]*$`)

// RowEntry is one (label, value) observation extracted from a table row.
type RowEntry struct {
	// Label is the raw label text as written in the document.
	Label string
	// Value is the raw value text.
	Value string
	// Cell is the cell holding the value, used when writing corrections back.
	Cell *docx.Cell
	// Inline is true when label and value share one cell; false when the
	// value lives in the following cell.
	Inline bool
	// Sep is the separator that divided label from value.
	Sep Separator
}

// ParseRow decomposes one table row into its label/value entries. Compact
// layouts put several pairs on one row, so multiple entries are expected.
func ParseRow(cells []*docx.Cell, dict *Dictionary) []RowEntry {
	type indexed struct {
		cell *docx.Cell
		text string
	}
	var nonEmpty []indexed
	for _, c := range cells {
		if text := strings.TrimSpace(c.Text()); text != "" {
			nonEmpty = append(nonEmpty, indexed{cell: c, text: text})
		}
	}
	if len(nonEmpty) == 0 {
		return nil
	}

	var entries []RowEntry
	for i := 0; i < len(nonEmpty); i++ {
		cur := nonEmpty[i]

		if entry, ok := splitCell(cur.text, dict); ok {
			entry.Cell = cur.cell
			entries = append(entries, entry)
			continue
		}

		normalized := textnorm.NormalizeLabel(cur.text)
		if !dict.LooksLikeLabel(cur.text, normalized) {
			continue
		}
		// Candidate split pair: the next non-empty cell is the value unless
		// it is itself a label or splittable on its own. A label with no
		// adjacent value contributes nothing.
		if i+1 >= len(nonEmpty) {
			continue
		}
		next := nonEmpty[i+1]
		if isSplittable(next.text, dict) ||
			dict.LooksLikeLabel(next.text, textnorm.NormalizeLabel(next.text)) {
			continue
		}
		entries = append(entries, RowEntry{
			Label:  cur.text,
			Value:  next.text,
			Cell:   next.cell,
			Inline: false,
			Sep:    SepColon,
		})
		i++
	}
	return entries
}

// splitCell divides one cell's text into label and value. Inline separators
// are only considered on the first line so that hyphens in street addresses or
// serials on later lines cannot masquerade as separators; any trailing lines
// join the value.
func splitCell(text string, dict *Dictionary) (RowEntry, bool) {
	line, rest, multi := strings.Cut(text, "\n")
	if entry, ok := tryInlineSplit(strings.TrimSpace(line), dict); ok {
		if multi {
			if extra := joinLines(rest); extra != "" {
				entry.Value = entry.Value + " " + extra
			}
		}
		return entry, true
	}
	if multi {
		return tryMultilineSplit(text)
	}
	return RowEntry{}, false
}

func tryInlineSplit(line string, dict *Dictionary) (RowEntry, bool) {
	for _, sep := range inlineSeparators {
		idx := strings.Index(line, string(sep))
		if idx <= 0 {
			continue
		}
		left := strings.TrimSpace(line[:idx])
		right := strings.TrimSpace(line[idx+len(sep):])
		if left == "" || right == "" {
			continue
		}
		if sep == SepColon {
			// The colon is decisive on its own; unknown labels still get
			// recorded so reviewers can extend the dictionary.
			if !containsLetter(left) {
				continue
			}
		} else {
			if !dict.LooksLikeLabel(left, textnorm.NormalizeLabel(left)) {
				continue
			}
			if sep == SepHyphen && numericHyphenRe.MatchString(right) {
				continue
			}
		}
		return RowEntry{Label: left, Value: right, Inline: true, Sep: sep}, true
	}
	return RowEntry{}, false
}

func tryMultilineSplit(text string) (RowEntry, bool) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) < 2 {
		return RowEntry{}, false
	}
	return RowEntry{
		Label:  lines[0],
		Value:  strings.Join(lines[1:], " "),
		Inline: true,
		Sep:    SepNewline,
	}, true
}

func joinLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, " ")
}

func isSplittable(text string, dict *Dictionary) bool {
	_, ok := splitCell(text, dict)
	return ok
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
