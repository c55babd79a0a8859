// Package docx reads and writes the subset of the OOXML wordprocessing format
// that license documents use: body paragraphs, tables, styled text runs. The
// tree is mutable so extracted values can be written back and placeholders
// replaced in place. Markup the package does not model (section properties,
// paragraph properties, table grids, bookmarks) is preserved as raw byte
// slices of the source XML, so untouched content round-trips byte-exact.
package docx

import "strings"

// Block is one node of the document tree.
type Block interface {
	isBlock()
}

// RawXML preserves a span of source markup verbatim.
type RawXML []byte

func (RawXML) isBlock() {}

// RunProps are the per-run style properties the engine copies when rewriting
// text: bold, italic, underline, font name and size.
type RunProps struct {
	Bold           bool
	Italic         bool
	Underline      bool
	Font           string
	SizeHalfPoints int
}

// Run is a contiguous span of identically-styled text.
type Run struct {
	Text  string
	Props RunProps
}

// Paragraph is a sequence of runs plus optional paragraph properties.
type Paragraph struct {
	// PropsXML carries the original <w:pPr> element, if any, so rebuilt
	// paragraphs keep their paragraph-level formatting.
	PropsXML RawXML
	Runs     []*Run

	raw    RawXML   // original <w:p> bytes; nil once the paragraph is rebuilt
	extras []RawXML // unmodeled children, re-emitted only while untouched
}

func (*Paragraph) isBlock() {}

// Text returns the concatenated run text of the paragraph.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// SetRuns replaces the paragraph content. The original markup is discarded
// and the paragraph is re-serialized from its runs on save.
func (p *Paragraph) SetRuns(runs []*Run) {
	p.Runs = runs
	p.raw = nil
	p.extras = nil
}

// NewParagraph builds a paragraph from the given runs.
func NewParagraph(runs ...*Run) *Paragraph {
	p := &Paragraph{}
	p.Runs = append(p.Runs, runs...)
	return p
}

// Table is an ordered list of rows, with table-level markup kept raw.
type Table struct {
	kids []Block
}

func (*Table) isBlock() {}

// Rows returns the table rows in order.
func (t *Table) Rows() []*Row {
	var rows []*Row
	for _, k := range t.kids {
		if r, ok := k.(*Row); ok {
			rows = append(rows, r)
		}
	}
	return rows
}

// Row is an ordered list of cells.
type Row struct {
	kids []Block
}

func (*Row) isBlock() {}

// Cells returns the row cells in order.
func (r *Row) Cells() []*Cell {
	var cells []*Cell
	for _, k := range r.kids {
		if c, ok := k.(*Cell); ok {
			cells = append(cells, c)
		}
	}
	return cells
}

// Cell holds paragraphs and possibly nested tables.
type Cell struct {
	kids []Block
}

func (*Cell) isBlock() {}

// Paragraphs returns the cell's direct paragraphs in order.
func (c *Cell) Paragraphs() []*Paragraph {
	var ps []*Paragraph
	for _, k := range c.kids {
		if p, ok := k.(*Paragraph); ok {
			ps = append(ps, p)
		}
	}
	return ps
}

// Tables returns tables nested directly inside the cell.
func (c *Cell) Tables() []*Table {
	var ts []*Table
	for _, k := range c.kids {
		if t, ok := k.(*Table); ok {
			ts = append(ts, t)
		}
	}
	return ts
}

// Text returns the cell's paragraph texts joined by newlines.
func (c *Cell) Text() string {
	var parts []string
	for _, p := range c.Paragraphs() {
		parts = append(parts, p.Text())
	}
	return strings.Join(parts, "\n")
}

// SetParagraphs replaces the cell content with the given paragraphs. Leading
// raw markup (cell properties) is kept; prior paragraphs and nested tables
// are dropped.
func (c *Cell) SetParagraphs(ps []*Paragraph) {
	var kept []Block
	for _, k := range c.kids {
		if _, isP := k.(*Paragraph); isP {
			break
		}
		if _, isT := k.(*Table); isT {
			break
		}
		kept = append(kept, k)
	}
	for _, p := range ps {
		kept = append(kept, p)
	}
	c.kids = kept
}

// Body is the document body: paragraphs and tables in document order.
type Body struct {
	Blocks []Block

	prefix RawXML // document.xml up to and including the <w:body> start tag
	suffix RawXML // from the </w:body> end tag to the end of document.xml
}

// Tables returns the body's top-level tables in order.
func (b *Body) Tables() []*Table {
	var ts []*Table
	for _, blk := range b.Blocks {
		if t, ok := blk.(*Table); ok {
			ts = append(ts, t)
		}
	}
	return ts
}

// Paragraphs returns every paragraph in the body, including paragraphs inside
// table cells, recursively, in document order.
func (b *Body) Paragraphs() []*Paragraph {
	return collectParagraphs(b.Blocks)
}

func collectParagraphs(blocks []Block) []*Paragraph {
	var ps []*Paragraph
	for _, blk := range blocks {
		switch t := blk.(type) {
		case *Paragraph:
			ps = append(ps, t)
		case *Table:
			for _, row := range t.Rows() {
				for _, cell := range row.Cells() {
					ps = append(ps, collectParagraphs(cell.kids)...)
				}
			}
		}
	}
	return ps
}

// AddParagraph appends a paragraph with a single run to the body and returns it.
func (b *Body) AddParagraph(text string, props RunProps) *Paragraph {
	p := NewParagraph(&Run{Text: text, Props: props})
	b.Blocks = append(b.Blocks, p)
	return p
}

// AddTable appends a table built from cell texts; newlines inside a cell text
// become separate paragraphs. Intended for building documents in memory.
func (b *Body) AddTable(rows [][]string) *Table {
	t := &Table{}
	for _, rowTexts := range rows {
		row := &Row{}
		for _, cellText := range rowTexts {
			cell := &Cell{}
			for _, line := range strings.Split(cellText, "\n") {
				cell.kids = append(cell.kids, NewParagraph(&Run{Text: line}))
			}
			row.kids = append(row.kids, cell)
		}
		t.kids = append(t.kids, row)
	}
	b.Blocks = append(b.Blocks, t)
	return t
}

// ReplaceParagraph substitutes target with the given paragraphs wherever it
// appears, in the body or inside a table cell. Returns false if target is not
// part of the document.
func (b *Body) ReplaceParagraph(target *Paragraph, with []*Paragraph) bool {
	blocks, ok := spliceParagraph(b.Blocks, target, with)
	if ok {
		b.Blocks = blocks
	}
	return ok
}

func spliceParagraph(blocks []Block, target *Paragraph, with []*Paragraph) ([]Block, bool) {
	for i, blk := range blocks {
		switch t := blk.(type) {
		case *Paragraph:
			if t == target {
				out := make([]Block, 0, len(blocks)+len(with)-1)
				out = append(out, blocks[:i]...)
				for _, p := range with {
					out = append(out, p)
				}
				out = append(out, blocks[i+1:]...)
				return out, true
			}
		case *Table:
			for _, row := range t.Rows() {
				for _, cell := range row.Cells() {
					if kids, ok := spliceParagraph(cell.kids, target, with); ok {
						cell.kids = kids
						return blocks, true
					}
				}
			}
		}
	}
	return blocks, false
}
