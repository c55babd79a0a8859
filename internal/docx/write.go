package docx

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"
)

const (
	defaultPrefix = xml.Header +
		`<w:document xmlns:w="` + wordNS + `"><w:body>`
	defaultSuffix = `</w:body></w:document>`
)

// marshal serializes the body back into document.xml bytes. Blocks that were
// never mutated are emitted from their original source bytes.
func (b *Body) marshal() []byte {
	var buf bytes.Buffer
	if b.prefix != nil {
		buf.Write(b.prefix)
	} else {
		buf.WriteString(defaultPrefix)
	}
	writeBlocks(&buf, b.Blocks)
	if b.suffix != nil {
		buf.Write(b.suffix)
	} else {
		buf.WriteString(defaultSuffix)
	}
	return buf.Bytes()
}

func writeBlocks(buf *bytes.Buffer, blocks []Block) {
	for _, blk := range blocks {
		switch t := blk.(type) {
		case RawXML:
			buf.Write(t)
		case *Paragraph:
			writeParagraph(buf, t)
		case *Table:
			buf.WriteString("<w:tbl>")
			writeBlocks(buf, t.kids)
			buf.WriteString("</w:tbl>")
		case *Row:
			buf.WriteString("<w:tr>")
			writeBlocks(buf, t.kids)
			buf.WriteString("</w:tr>")
		case *Cell:
			buf.WriteString("<w:tc>")
			writeBlocks(buf, t.kids)
			buf.WriteString("</w:tc>")
		}
	}
}

func writeParagraph(buf *bytes.Buffer, p *Paragraph) {
	if p.raw != nil {
		buf.Write(p.raw)
		return
	}
	buf.WriteString("<w:p>")
	if p.PropsXML != nil {
		buf.Write(p.PropsXML)
	}
	for _, extra := range p.extras {
		buf.Write(extra)
	}
	for _, run := range p.Runs {
		writeRun(buf, run)
	}
	buf.WriteString("</w:p>")
}

func writeRun(buf *bytes.Buffer, run *Run) {
	buf.WriteString("<w:r>")
	writeRunProps(buf, run.Props)
	for i, segment := range strings.Split(run.Text, "\n") {
		if i > 0 {
			buf.WriteString("<w:br/>")
		}
		if segment == "" {
			continue
		}
		buf.WriteString(`<w:t xml:space="preserve">`)
		_ = xml.EscapeText(buf, []byte(segment))
		buf.WriteString("</w:t>")
	}
	buf.WriteString("</w:r>")
}

func writeRunProps(buf *bytes.Buffer, props RunProps) {
	if props == (RunProps{}) {
		return
	}
	buf.WriteString("<w:rPr>")
	if props.Font != "" {
		buf.WriteString(`<w:rFonts w:ascii="`)
		_ = xml.EscapeText(buf, []byte(props.Font))
		buf.WriteString(`" w:hAnsi="`)
		_ = xml.EscapeText(buf, []byte(props.Font))
		buf.WriteString(`"/>`)
	}
	if props.Bold {
		buf.WriteString("<w:b/>")
	}
	if props.Italic {
		buf.WriteString("<w:i/>")
	}
	if props.SizeHalfPoints > 0 {
		sz := strconv.Itoa(props.SizeHalfPoints)
		buf.WriteString(`<w:sz w:val="` + sz + `"/><w:szCs w:val="` + sz + `"/>`)
	}
	if props.Underline {
		buf.WriteString(`<w:u w:val="single"/>`)
	}
	buf.WriteString("</w:rPr>")
}
