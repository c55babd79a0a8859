package extract

import (
	"regexp"
	"strings"

	"radlic/internal/docx"
	"radlic/internal/domain"
	"radlic/internal/textnorm"
)

// equipmentHeaderRe matches rows that open a numbered device block, e.g.
// "EQUIPO No. 2", "EQUIPO N° 3:", "EQUIPO 1 -". Applied to the accent-stripped
// uppercased row text.
var equipmentHeaderRe = regexp.MustCompile(`^EQUIPO(\s+(NO\.?|N°|N))?(\s*\d+)?[\s:.\-]*$`)

// Extractor walks a document's tables and accumulates canonical fields and
// equipment sub-records.
type Extractor struct {
	dict *Dictionary
}

// NewExtractor creates an extractor over the given dictionary.
func NewExtractor(dict *Dictionary) *Extractor {
	return &Extractor{dict: dict}
}

// equipmentState is the device-accumulation state machine. A sub-record opens
// on an equipment header or on the first equipment field seen inside the
// equipment section, and is finalized on the next header, on a conflicting
// field value, or when the section or table ends. Empty sub-records are
// discarded, never finalized.
type equipmentState struct {
	current domain.EquipmentEntry
	done    []domain.EquipmentEntry
}

func (s *equipmentState) building() bool {
	return s.current != nil
}

func (s *equipmentState) open() {
	s.current = domain.NewEquipmentEntry()
}

func (s *equipmentState) finalize() {
	if s.current != nil && !s.current.IsEmpty() {
		s.done = append(s.done, s.current)
	}
	s.current = nil
}

// shouldSplit reports whether storing key=value must first finalize the open
// sub-record: seeing the equipment-type field again, or a conflicting value
// for an already-filled key, signals that a second device is being described.
func (s *equipmentState) shouldSplit(key, value string) bool {
	if s.current == nil || s.current.IsEmpty() || value == "" {
		return false
	}
	existing := s.current[key]
	if key == domain.FieldTipoEquipo && existing != "" {
		return true
	}
	return existing != "" && existing != value
}

// Extract parses the whole document. Malformed rows never abort the pass;
// they are skipped or recorded under Unmatched.
func (e *Extractor) Extract(doc *docx.Document) *domain.DocumentExtraction {
	result := domain.NewDocumentExtraction()
	state := &equipmentState{}

	for _, table := range doc.Tables() {
		section := ""
		for _, row := range table.Rows() {
			headerText := RowText(row)

			if normalized := textnorm.NormalizeLabel(headerText); e.dict.IsSection(normalized) {
				if normalized != SectionEquipos && section == SectionEquipos {
					state.finalize()
				}
				section = normalized
				continue
			}

			if section == SectionEquipos && isEquipmentHeader(headerText) {
				state.finalize()
				state.open()
				continue
			}

			for _, entry := range ParseRow(row.Cells(), e.dict) {
				e.applyEntry(result, state, section, entry)
			}
		}
		state.finalize()
	}

	state.finalize()
	result.Equipment = state.done
	if len(result.Equipment) == 0 {
		if fallback := fallbackEquipment(result.Fields); fallback != nil {
			result.Equipment = []domain.EquipmentEntry{fallback}
		}
	}

	classify(result)
	return result
}

func (e *Extractor) applyEntry(result *domain.DocumentExtraction, state *equipmentState, section string, entry RowEntry) {
	normalizedLabel := textnorm.NormalizeLabel(entry.Label)
	result.RawLabels[normalizedLabel] = entry.Value

	key, ok := e.dict.Resolve(section, entry.Label)
	if !ok {
		result.Unmatched[normalizedLabel] = entry.Value
		return
	}
	value := textnorm.NormalizeValue(entry.Value)

	if domain.IsEquipmentField(key) && (section == SectionEquipos || state.building()) {
		if state.shouldSplit(key, value) {
			state.finalize()
		}
		if !state.building() {
			state.open()
		}
		state.current[key] = value
		// Mirror into document-level fields so single-equipment documents
		// keep working without an equipment section.
		if result.Fields[key] == "" {
			result.Fields[key] = value
		}
		return
	}

	result.Fields[key] = value
}

// RowText joins the row's distinct cell texts. Adjacent duplicates are
// collapsed because header rows repeat the same label across merged cells.
func RowText(row *docx.Row) string {
	var parts []string
	for _, cell := range row.Cells() {
		text := strings.TrimSpace(cell.Text())
		if text == "" {
			continue
		}
		if len(parts) > 0 && parts[len(parts)-1] == text {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

func isEquipmentHeader(text string) bool {
	upper := strings.ToUpper(strings.TrimSpace(textnorm.StripAccents(text)))
	if upper == "" {
		return false
	}
	if strings.Contains(upper, "A LICENCIAR") || strings.Contains(upper, "TIPO") {
		return false
	}
	return equipmentHeaderRe.MatchString(upper)
}

// fallbackEquipment synthesizes a single entry from document-level fields when
// no explicit equipment block was detected.
func fallbackEquipment(fields map[string]string) domain.EquipmentEntry {
	entry := domain.NewEquipmentEntry()
	any := false
	for _, key := range domain.EquipmentFieldKeys {
		if v := fields[key]; v != "" {
			entry[key] = v
			any = true
		}
	}
	if !any {
		return nil
	}
	return entry
}

// classify infers the applicant type and license category, falling back from
// the category field to the equipment type and finally to the first equipment
// entry's own category.
func classify(result *domain.DocumentExtraction) {
	result.Applicant = domain.ApplicantTypeFromText(result.Fields[domain.FieldTipoSolicitante])

	result.Category = domain.LicenseCategoryFromText(result.Fields[domain.FieldCategoria])
	if result.Category == "" {
		result.Category = domain.LicenseCategoryFromText(result.Fields[domain.FieldTipoEquipo])
	}
	if result.Category == "" && len(result.Equipment) > 0 {
		result.Category = domain.LicenseCategoryFromText(result.Equipment[0][domain.FieldCategoria])
	}
}
