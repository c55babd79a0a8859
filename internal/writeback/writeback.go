// Package writeback overwrites corrected field values in a source document in
// place, preserving the document's label layout.
package writeback

import (
	"fmt"

	"radlic/internal/docx"
	"radlic/internal/domain"
	"radlic/internal/extract"
	"radlic/internal/textnorm"
)

// Apply walks the document's tables with the same row decomposition the
// extractor uses and rewrites the value cell of every entry whose canonical
// key appears in updated. Returns the number of rewritten entries.
func Apply(doc *docx.Document, updated map[string]string, dict *extract.Dictionary) int {
	changed := 0
	for _, table := range doc.Tables() {
		section := ""
		for _, row := range table.Rows() {
			if normalized := textnorm.NormalizeLabel(extract.RowText(row)); dict.IsSection(normalized) {
				section = normalized
				continue
			}
			for _, entry := range extract.ParseRow(row.Cells(), dict) {
				key, ok := dict.Resolve(section, entry.Label)
				if !ok {
					continue
				}
				value, ok := updated[key]
				if !ok {
					continue
				}
				writeEntry(entry, value)
				changed++
			}
		}
	}
	return changed
}

// ApplyFile rewrites the document at path in place. Callers are expected to
// have confirmed the overwrite upstream.
func ApplyFile(path string, updated map[string]string, dict *extract.Dictionary) (int, error) {
	doc, err := docx.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrDocumentRead, err)
	}
	changed := Apply(doc, updated, dict)
	if changed == 0 {
		return 0, nil
	}
	if err := doc.SaveAs(path); err != nil {
		return 0, err
	}
	return changed, nil
}

// writeEntry rewrites one entry's value. Corrected values are always bold and
// uppercased. Inline entries reconstruct "label separator value" in the shared
// cell; a newline separator puts label and value on separate paragraphs.
func writeEntry(entry extract.RowEntry, value string) {
	text := textnorm.NormalizeValue(value)
	bold := docx.RunProps{Bold: true}

	switch {
	case !entry.Inline:
		entry.Cell.SetParagraphs([]*docx.Paragraph{
			docx.NewParagraph(&docx.Run{Text: text, Props: bold}),
		})
	case entry.Sep == extract.SepNewline:
		entry.Cell.SetParagraphs([]*docx.Paragraph{
			docx.NewParagraph(&docx.Run{Text: entry.Label, Props: bold}),
			docx.NewParagraph(&docx.Run{Text: text, Props: bold}),
		})
	default:
		entry.Cell.SetParagraphs([]*docx.Paragraph{
			docx.NewParagraph(
				&docx.Run{Text: entry.Label + string(entry.Sep) + " ", Props: bold},
				&docx.Run{Text: text, Props: bold},
			),
		})
	}
}
