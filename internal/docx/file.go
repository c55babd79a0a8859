package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
)

const documentPart = "word/document.xml"

type part struct {
	name string
	data []byte
}

// Document is one loaded .docx package. A Document must not be shared across
// concurrent operations: run and paragraph mutation is not reentrant-safe.
type Document struct {
	Body *Body

	parts []part
}

// New returns an empty in-memory document with the minimal package parts
// needed to save a valid .docx file.
func New() *Document {
	return &Document{
		Body: &Body{},
		parts: []part{
			{name: "[Content_Types].xml", data: []byte(contentTypesXML)},
			{name: "_rels/.rels", data: []byte(relsXML)},
			{name: documentPart, data: nil},
		},
	}
}

// Open reads a .docx file from disk.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("docx: opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("docx: stat %s: %w", path, err)
	}
	return OpenReader(f, info.Size())
}

// OpenBytes parses a .docx package held in memory.
func OpenBytes(data []byte) (*Document, error) {
	return OpenReader(bytes.NewReader(data), int64(len(data)))
}

// OpenReader parses a .docx package from r.
func OpenReader(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("docx: not a valid document container: %w", err)
	}

	doc := &Document{}
	var docXML []byte
	for _, zf := range zr.File {
		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("docx: opening part %s: %w", zf.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("docx: reading part %s: %w", zf.Name, err)
		}
		doc.parts = append(doc.parts, part{name: zf.Name, data: data})
		if zf.Name == documentPart {
			docXML = data
		}
	}
	if docXML == nil {
		return nil, fmt.Errorf("docx: %s not found in archive", documentPart)
	}

	body, err := parseDocumentXML(docXML)
	if err != nil {
		return nil, err
	}
	doc.Body = body
	return doc, nil
}

// Paragraphs returns every paragraph of the document, including those inside
// table cells, in document order.
func (d *Document) Paragraphs() []*Paragraph {
	return d.Body.Paragraphs()
}

// Tables returns the top-level body tables in document order.
func (d *Document) Tables() []*Table {
	return d.Body.Tables()
}

// Text returns the plain text of the whole document: every paragraph,
// including those inside table cells, joined by newlines.
func (d *Document) Text() string {
	var sb bytes.Buffer
	for i, p := range d.Paragraphs() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(p.Text())
	}
	return sb.String()
}

// ReplaceParagraph substitutes target with the given paragraphs anywhere in
// the document.
func (d *Document) ReplaceParagraph(target *Paragraph, with []*Paragraph) bool {
	return d.Body.ReplaceParagraph(target, with)
}

// Write serializes the package to w, replacing word/document.xml with the
// current body tree and copying every other part unchanged.
func (d *Document) Write(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, p := range d.parts {
		data := p.data
		if p.name == documentPart {
			data = d.Body.marshal()
		}
		fw, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("docx: creating zip entry %s: %w", p.name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("docx: writing zip entry %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("docx: finalizing archive: %w", err)
	}
	return nil
}

// SaveAs writes the document to path, overwriting any existing file.
func (d *Document) SaveAs(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("docx: creating %s: %w", path, err)
	}
	if err := d.Write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("docx: closing %s: %w", path, err)
	}
	return nil
}

// Bytes serializes the package into memory.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`
