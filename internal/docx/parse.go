package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

// wordNS is the WordprocessingML main namespace.
const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// parseDocumentXML builds the body tree from the bytes of word/document.xml.
func parseDocumentXML(data []byte) (*Body, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("docx: no body element in document.xml")
		}
		if err != nil {
			return nil, fmt.Errorf("docx: parsing document.xml: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "body" || se.Name.Space != wordNS {
			continue
		}
		prefix := cloneBytes(data[:dec.InputOffset()])
		blocks, endStart, err := parseChildren(dec, data)
		if err != nil {
			return nil, fmt.Errorf("docx: parsing body: %w", err)
		}
		suffix := cloneBytes(data[endStart:])
		return &Body{Blocks: blocks, prefix: prefix, suffix: suffix}, nil
	}
}

// parseChildren consumes tokens until the enclosing element closes, mapping
// w:p, w:tbl, w:tr and w:tc to tree nodes and capturing anything else as raw
// source bytes. Returns the byte offset where the closing tag starts.
func parseChildren(dec *xml.Decoder, data []byte) ([]Block, int64, error) {
	var blocks []Block
	for {
		start := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, 0, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return blocks, start, nil
		case xml.StartElement:
			blk, err := parseElement(dec, data, start, t)
			if err != nil {
				return nil, 0, err
			}
			blocks = append(blocks, blk)
		case xml.CharData:
			if raw := data[start:dec.InputOffset()]; len(raw) > 0 {
				blocks = append(blocks, RawXML(cloneBytes(raw)))
			}
		}
	}
}

func parseElement(dec *xml.Decoder, data []byte, start int64, se xml.StartElement) (Block, error) {
	if se.Name.Space != wordNS {
		return captureRaw(dec, data, start)
	}
	switch se.Name.Local {
	case "p":
		return parseParagraph(dec, data, start)
	case "tbl":
		blocks, _, err := parseChildren(dec, data)
		if err != nil {
			return nil, err
		}
		return &Table{kids: blocks}, nil
	case "tr":
		blocks, _, err := parseChildren(dec, data)
		if err != nil {
			return nil, err
		}
		return &Row{kids: blocks}, nil
	case "tc":
		blocks, _, err := parseChildren(dec, data)
		if err != nil {
			return nil, err
		}
		return &Cell{kids: blocks}, nil
	default:
		return captureRaw(dec, data, start)
	}
}

func captureRaw(dec *xml.Decoder, data []byte, start int64) (RawXML, error) {
	if err := dec.Skip(); err != nil {
		return nil, err
	}
	return RawXML(cloneBytes(data[start:dec.InputOffset()])), nil
}

func parseParagraph(dec *xml.Decoder, data []byte, start int64) (*Paragraph, error) {
	p := &Paragraph{}
	for {
		cstart := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			p.raw = cloneBytes(data[start:dec.InputOffset()])
			return p, nil
		case xml.StartElement:
			switch {
			case t.Name.Space == wordNS && t.Name.Local == "pPr":
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				p.PropsXML = cloneBytes(data[cstart:dec.InputOffset()])
			case t.Name.Space == wordNS && t.Name.Local == "r":
				run, err := parseRun(dec)
				if err != nil {
					return nil, err
				}
				p.Runs = append(p.Runs, run)
			default:
				raw, err := captureRaw(dec, data, cstart)
				if err != nil {
					return nil, err
				}
				p.extras = append(p.extras, raw)
			}
		}
	}
}

func parseRun(dec *xml.Decoder) (*Run, error) {
	run := &Run{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return run, nil
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				props, err := parseRunProps(dec)
				if err != nil {
					return nil, err
				}
				run.Props = props
			case "t":
				var text string
				if err := dec.DecodeElement(&text, &t); err != nil {
					return nil, err
				}
				run.Text += text
			case "br", "cr":
				run.Text += "\n"
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			case "tab":
				run.Text += "\t"
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			default:
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			}
		}
	}
}

func parseRunProps(dec *xml.Decoder) (RunProps, error) {
	var props RunProps
	for {
		tok, err := dec.Token()
		if err != nil {
			return props, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return props, nil
		case xml.StartElement:
			switch t.Name.Local {
			case "b":
				props.Bold = onOff(t)
			case "i":
				props.Italic = onOff(t)
			case "u":
				val := attrValue(t, "val")
				props.Underline = val != "" && val != "none"
			case "rFonts":
				if f := attrValue(t, "ascii"); f != "" {
					props.Font = f
				}
			case "sz":
				if n, err := strconv.Atoi(attrValue(t, "val")); err == nil {
					props.SizeHalfPoints = n
				}
			}
			if err := dec.Skip(); err != nil {
				return props, err
			}
		}
	}
}

// onOff interprets OOXML boolean property elements, whose presence means true
// unless an explicit off value is given.
func onOff(se xml.StartElement) bool {
	switch attrValue(se, "val") {
	case "false", "0", "none", "off":
		return false
	}
	return true
}

func attrValue(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
