package template

import (
	"regexp"
	"strings"

	"radlic/internal/docx"
	"radlic/internal/domain"
	"radlic/internal/textnorm"
)

// placeholderRe matches {{ KEY }} markers: non-greedy, no nested braces,
// whitespace inside the braces tolerated.
var placeholderRe = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// KeyEquipos is the placeholder replaced by the synthesized per-device blocks.
const KeyEquipos = "EQUIPOS"

// Options parameterize one render pass over a template document.
type Options struct {
	// Fields maps canonical keys to values. Keys are normalized before
	// lookup, so accented template spellings resolve too.
	Fields map[string]string
	// Equipment supplies the entries rendered where {{EQUIPOS}} appears.
	Equipment []domain.EquipmentEntry
	// IncludeResolutionParagraph requests the clause superseding a previous
	// resolution. Silently dropped when the resolution fields are incomplete.
	IncludeResolutionParagraph bool
}

// Render substitutes every resolvable placeholder in doc. Paragraphs without
// resolvable markers are left untouched so their original markup survives
// byte-exact.
func Render(doc *docx.Document, opts Options) {
	contents := buildContents(opts.Fields)

	if opts.IncludeResolutionParagraph && resolutionComplete(opts.Fields) {
		contents[KeyParrafoResolucion] = resolutionContent(opts.Fields)
	} else if opts.IncludeResolutionParagraph {
		stripParagraphsWithKeys(doc, resolutionKeys)
	} else {
		stripParagraphsWithKeys(doc, map[string]bool{KeyParrafoResolucion: true})
	}

	injectEquipment(doc, opts.Equipment)

	for _, p := range doc.Paragraphs() {
		rewriteParagraph(p, contents)
	}
}

// buildContents normalizes the field map into placeholder content. Substituted
// values are always bold, matching how corrected values are written into
// source documents. Shorthand aliases DIA, MES and ANO mirror the emission
// date components.
func buildContents(fields map[string]string) map[string]Content {
	contents := make(map[string]Content, len(fields)+3)
	for key, value := range fields {
		if value == "" {
			continue
		}
		contents[textnorm.NormalizePlaceholderKey(key)] = BoldText(textnorm.NormalizeValue(value))
	}
	aliases := map[string]string{
		"DIA": domain.FieldDiaEmision,
		"MES": domain.FieldMesEmision,
		"ANO": domain.FieldAnoEmision,
	}
	for short, long := range aliases {
		if _, taken := contents[short]; taken {
			continue
		}
		if c, ok := contents[long]; ok {
			contents[short] = c
		}
	}
	return contents
}

type runSpan struct {
	start, end int
	props      docx.RunProps
}

func runSpans(runs []*docx.Run) []runSpan {
	spans := make([]runSpan, 0, len(runs))
	offset := 0
	for _, r := range runs {
		next := offset + len(r.Text)
		spans = append(spans, runSpan{start: offset, end: next, props: r.Props})
		offset = next
	}
	return spans
}

// propsAt returns the style of the run covering the given offset.
func propsAt(spans []runSpan, offset int) docx.RunProps {
	for _, s := range spans {
		if offset >= s.start && offset < s.end {
			return s.props
		}
	}
	if len(spans) > 0 {
		return spans[len(spans)-1].props
	}
	return docx.RunProps{}
}

// literalRuns re-emits the text range [from, to), split at the original run
// boundaries so each piece keeps the style that covered it.
func literalRuns(text string, spans []runSpan, from, to int) []*docx.Run {
	var out []*docx.Run
	for _, s := range spans {
		lo, hi := s.start, s.end
		if lo < from {
			lo = from
		}
		if hi > to {
			hi = to
		}
		if lo >= hi {
			continue
		}
		out = append(out, &docx.Run{Text: text[lo:hi], Props: s.props})
	}
	return out
}

// rewriteParagraph replaces the paragraph's resolvable markers. Markers whose
// key is absent from contents stay literal.
func rewriteParagraph(p *docx.Paragraph, contents map[string]Content) {
	full := p.Text()
	if !strings.Contains(full, "{{") {
		return
	}

	type resolved struct {
		start, end int
		content    Content
	}
	var hits []resolved
	for _, m := range placeholderRe.FindAllStringSubmatchIndex(full, -1) {
		key := textnorm.NormalizePlaceholderKey(full[m[2]:m[3]])
		content, ok := contents[key]
		if !ok {
			continue
		}
		hits = append(hits, resolved{start: m[0], end: m[1], content: content})
	}
	if len(hits) == 0 {
		return
	}

	spans := runSpans(p.Runs)
	var out []*docx.Run
	cursor := 0
	for _, h := range hits {
		out = append(out, literalRuns(full, spans, cursor, h.start)...)
		ref := propsAt(spans, h.start)
		for _, frag := range h.content {
			if frag.Text == "" {
				continue
			}
			props := ref
			props.Bold = frag.Bold
			out = append(out, &docx.Run{Text: frag.Text, Props: props})
		}
		cursor = h.end
	}
	out = append(out, literalRuns(full, spans, cursor, len(full))...)
	p.SetRuns(out)
}

// paragraphKeys returns the normalized placeholder keys found in a paragraph.
func paragraphKeys(p *docx.Paragraph) []string {
	full := p.Text()
	if !strings.Contains(full, "{{") {
		return nil
	}
	var keys []string
	for _, m := range placeholderRe.FindAllStringSubmatchIndex(full, -1) {
		keys = append(keys, textnorm.NormalizePlaceholderKey(full[m[2]:m[3]]))
	}
	return keys
}

func stripParagraphsWithKeys(doc *docx.Document, keys map[string]bool) {
	var doomed []*docx.Paragraph
	for _, p := range doc.Paragraphs() {
		for _, k := range paragraphKeys(p) {
			if keys[k] {
				doomed = append(doomed, p)
				break
			}
		}
	}
	for _, p := range doomed {
		doc.ReplaceParagraph(p, nil)
	}
}
