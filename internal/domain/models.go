package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EquipmentEntry holds the fields describing one physical device. Every entry
// carries the full EquipmentFieldKeys set, defaulting to the empty string.
type EquipmentEntry map[string]string

// NewEquipmentEntry returns an entry with every equipment key present and empty.
func NewEquipmentEntry() EquipmentEntry {
	e := make(EquipmentEntry, len(EquipmentFieldKeys))
	for _, k := range EquipmentFieldKeys {
		e[k] = ""
	}
	return e
}

// IsEmpty reports whether no field of the entry has a value.
func (e EquipmentEntry) IsEmpty() bool {
	for _, v := range e {
		if v != "" {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the entry.
func (e EquipmentEntry) Clone() EquipmentEntry {
	out := make(EquipmentEntry, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// DocumentExtraction is the result of parsing one source document.
type DocumentExtraction struct {
	// Fields maps canonical keys to normalized values.
	Fields map[string]string `json:"fields"`
	// RawLabels maps every normalized label seen to the raw value next to it,
	// kept for operator diagnostics.
	RawLabels map[string]string `json:"raw_labels"`
	// Unmatched maps labels that resolved to no canonical key to their raw
	// values. Never silently dropped.
	Unmatched map[string]string `json:"unmatched"`
	// Applicant is the inferred applicant classification, empty if unknown.
	Applicant ApplicantType `json:"applicant"`
	// Category is the inferred license category, empty if unresolved.
	Category LicenseCategory `json:"category"`
	// Equipment holds the ordered device sub-records found in the document.
	Equipment []EquipmentEntry `json:"equipment"`
}

// NewDocumentExtraction returns an extraction with all maps initialized.
func NewDocumentExtraction() *DocumentExtraction {
	return &DocumentExtraction{
		Fields:    make(map[string]string),
		RawLabels: make(map[string]string),
		Unmatched: make(map[string]string),
	}
}

// LicenseRecord is one tabular row of the backing store: one device of one
// filing. Canonical fields are kept as a JSONB document keyed by field key.
type LicenseRecord struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	Radicado  string          `db:"radicado" json:"radicado"`
	Item      int             `db:"item" json:"item"`
	Archivo   string          `db:"archivo" json:"archivo"`
	Fields    json.RawMessage `db:"fields" json:"fields"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// FieldMap decodes the JSONB field document. A nil or invalid document yields
// an empty map.
func (r *LicenseRecord) FieldMap() map[string]string {
	m := make(map[string]string)
	if len(r.Fields) > 0 {
		_ = json.Unmarshal(r.Fields, &m)
	}
	return m
}

// SetFieldMap encodes the field map back into the JSONB document.
func (r *LicenseRecord) SetFieldMap(m map[string]string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	r.Fields = data
	return nil
}
