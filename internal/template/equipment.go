package template

import (
	"fmt"
	"strings"

	"radlic/internal/docx"
	"radlic/internal/domain"
	"radlic/internal/textnorm"
)

// noData is the sentinel value clerks type when a tube has no nameplate.
const noData = "NO REGISTRA"

// injectEquipment replaces the paragraph holding the {{EQUIPOS}} marker with
// one synthesized block per non-empty entry. Without entries the marker stays
// literal.
func injectEquipment(doc *docx.Document, entries []domain.EquipmentEntry) {
	var kept []domain.EquipmentEntry
	for _, e := range entries {
		if !e.IsEmpty() {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		return
	}

	for _, p := range doc.Paragraphs() {
		for _, key := range paragraphKeys(p) {
			if key == KeyEquipos {
				doc.ReplaceParagraph(p, equipmentParagraphs(kept))
				return
			}
		}
	}
}

func equipmentParagraphs(entries []domain.EquipmentEntry) []*docx.Paragraph {
	var out []*docx.Paragraph
	for i, entry := range entries {
		for _, line := range equipmentLines(i+1, entry) {
			out = append(out, docx.NewParagraph(&docx.Run{
				Text:  line,
				Props: docx.RunProps{Bold: true},
			}))
		}
	}
	return out
}

// equipmentLines renders one device as its block of bold uppercased lines,
// omitting lines with no data.
func equipmentLines(index int, entry domain.EquipmentEntry) []string {
	v := func(key string) string { return textnorm.NormalizeValue(entry[key]) }

	var lines []string

	header := []string{fmt.Sprintf("EQUIPO No. %d.", index)}
	for _, key := range []string{domain.FieldCategoria, domain.FieldPractica, domain.FieldTipoEquipo} {
		if s := v(key); s != "" {
			header = append(header, s+".")
		}
	}
	lines = append(lines, strings.Join(header, " "))

	if details := labeledLine("", [][2]string{
		{"MARCA", v(domain.FieldMarca)},
		{"MODELO", v(domain.FieldModelo)},
		{"SERIE", v(domain.FieldSerie)},
		{"FECHA DE FABRICACIÓN", v(domain.FieldFechaFabricacion)},
	}); details != "" {
		lines = append(lines, details)
	}

	if tubeHasData(entry) {
		if tube := labeledLine("TUBO RX", [][2]string{
			{"MARCA", v(domain.FieldMarcaTubo)},
			{"MODELO", v(domain.FieldModeloTubo)},
			{"SERIE", v(domain.FieldSerieTubo)},
			{"FECHA DE FABRICACIÓN", v(domain.FieldFechaFabricacionTubo)},
			{"TENSIÓN", v(domain.FieldTension)},
			{"CORRIENTE", v(domain.FieldCorriente)},
			{"POTENCIA", v(domain.FieldPotencia)},
		}); tube != "" {
			lines = append(lines, tube)
		}
	}

	if loc := v(domain.FieldUbicacionEquipo); loc != "" {
		lines = append(lines, "UBICACIÓN: "+loc)
	}

	if qc := qualityControlLine(v(domain.FieldControlCalidad), v(domain.FieldFechaCC)); qc != "" {
		lines = append(lines, qc)
	}

	return lines
}

// tubeHasData reports whether the tube line should render at all. A tube whose
// identifying fields are empty or all marked "NO REGISTRA" is omitted.
func tubeHasData(entry domain.EquipmentEntry) bool {
	for _, key := range []string{domain.FieldMarcaTubo, domain.FieldModeloTubo, domain.FieldSerieTubo} {
		value := textnorm.NormalizeValue(entry[key])
		if value != "" && value != noData {
			return true
		}
	}
	return false
}

func labeledLine(prefix string, pairs [][2]string) string {
	var parts []string
	for _, pair := range pairs {
		if pair[1] != "" {
			parts = append(parts, pair[0]+": "+pair[1])
		}
	}
	if len(parts) == 0 {
		return ""
	}
	joined := strings.Join(parts, ", ")
	if prefix != "" {
		return prefix + ". " + joined
	}
	return joined
}

func qualityControlLine(entity, date string) string {
	switch {
	case entity != "" && date != "":
		return "CONTROL DE CALIDAD: " + entity + ", " + date
	case entity != "":
		return "CONTROL DE CALIDAD: " + entity
	case date != "":
		return "CONTROL DE CALIDAD: " + date
	default:
		return ""
	}
}
