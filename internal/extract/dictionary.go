// Package extract recovers canonical license fields from the semi-structured
// tables of source documents: it decomposes rows into label/value entries,
// resolves free-text labels against a closed dictionary, and accumulates
// per-device equipment sub-records.
package extract

import (
	"strings"

	"radlic/internal/domain"
	"radlic/internal/textnorm"
)

// Section names recognized as table section headers. A section scopes label
// resolution for the rows beneath it until the next header or end of table.
const (
	SectionEquipos       = "EQUIPOS A LICENCIAR"
	SectionControlCal    = "CONTROL DE CALIDAD"
	SectionSolicitante   = "DATOS DEL SOLICITANTE"
	SectionRepresentante = "REPRESENTANTE LEGAL"
	SectionOPR           = "OFICIAL DE PROTECCION RADIOLOGICA"
)

// Dictionary maps normalized document labels to canonical field keys, with
// per-section overrides. Immutable after construction; inject a reduced copy
// in tests that need alternate vocabularies.
type Dictionary struct {
	global   map[string]string
	sections map[string]map[string]string
	keywords []string
}

// NewDictionary builds a dictionary from explicit mappings. Label keys are
// normalized on the way in, so callers may use accented spellings.
func NewDictionary(global map[string]string, sections map[string]map[string]string, keywords []string) *Dictionary {
	d := &Dictionary{
		global:   make(map[string]string, len(global)),
		sections: make(map[string]map[string]string, len(sections)),
		keywords: keywords,
	}
	for label, key := range global {
		d.global[textnorm.NormalizeLabel(label)] = key
	}
	for section, m := range sections {
		sm := make(map[string]string, len(m))
		for label, key := range m {
			sm[textnorm.NormalizeLabel(label)] = key
		}
		d.sections[textnorm.NormalizeLabel(section)] = sm
	}
	return d
}

// Resolve maps a raw label to its canonical key. The section-scoped mapping is
// checked before the global one, so a section may override a generic label
// like a bare "FECHA".
func (d *Dictionary) Resolve(section, label string) (string, bool) {
	normalized := textnorm.NormalizeLabel(label)
	if section != "" {
		if m, ok := d.sections[section]; ok {
			if key, ok := m[normalized]; ok {
				return key, true
			}
		}
	}
	key, ok := d.global[normalized]
	return key, ok
}

// IsSection reports whether the normalized text names a known section header.
func (d *Dictionary) IsSection(normalized string) bool {
	_, ok := d.sections[normalized]
	return ok
}

// LooksLikeLabel decides whether a cell is acting as a label rather than a
// value: an exact dictionary hit, a colon in the raw text, or any of the
// keyword stems in the normalized text.
func (d *Dictionary) LooksLikeLabel(raw, normalized string) bool {
	if normalized == "" {
		return false
	}
	if _, ok := d.global[normalized]; ok {
		return true
	}
	for _, m := range d.sections {
		if _, ok := m[normalized]; ok {
			return true
		}
	}
	if strings.Contains(raw, ":") {
		return true
	}
	for _, kw := range d.keywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}

// DefaultDictionary covers every known phrasing variant of the license fields,
// as observed in filed checklist documents.
func DefaultDictionary() *Dictionary {
	global := map[string]string{
		"RADICADO":           domain.FieldRadicado,
		"NO. RADICADO":       domain.FieldRadicado,
		"NÚMERO DE RADICADO": domain.FieldRadicado,
		"FECHA RADICACION":   domain.FieldFechaRadicacion,
		"FECHA RADICACIÓN":   domain.FieldFechaRadicacion,

		"RESOLUCION":       domain.FieldResolucion,
		"RESOLUCIÓN":       domain.FieldResolucion,
		"NO. RESOLUCION":   domain.FieldResolucion,
		"FECHA RESOLUCION": domain.FieldFechaResolucion,
		"FECHA RESOLUCIÓN": domain.FieldFechaResolucion,
		"DIA DE EMISION":   domain.FieldDiaEmision,
		"DIA EMISION":      domain.FieldDiaEmision,
		"MES DE EMISION":   domain.FieldMesEmision,
		"MES EMISION":      domain.FieldMesEmision,
		"AÑO DE EMISION":   domain.FieldAnoEmision,
		"AÑO EMISION":      domain.FieldAnoEmision,
		"ANO EMISION":      domain.FieldAnoEmision,

		"TIPO DE SOLICITANTE": domain.FieldTipoSolicitante,
		"SOLICITANTE":         domain.FieldTipoSolicitante,

		"NOMBRE O RAZON SOCIAL": domain.FieldNombreSolicitante,
		"NOMBRE O RAZÓN SOCIAL": domain.FieldNombreSolicitante,
		"RAZON SOCIAL":          domain.FieldNombreSolicitante,
		"RAZÓN SOCIAL":          domain.FieldNombreSolicitante,
		"NOMBRE COMPLETO":       domain.FieldNombreSolicitante,

		"NIT":      domain.FieldNitCC,
		"NIT O CC": domain.FieldNitCC,
		"NIT CC":   domain.FieldNitCC,
		"CEDULA":   domain.FieldNitCC,
		"C.C":      domain.FieldNitCC,
		"CC":       domain.FieldNitCC,

		"REPRESENTANTE LEGAL":           domain.FieldRepresentanteLegal,
		"NOMBRE REPRESENTANTE LEGAL":    domain.FieldRepresentanteLegal,
		"DOCUMENTO REPRESENTANTE LEGAL": domain.FieldRepresentanteCC,
		"CC REPRESENTANTE":              domain.FieldRepresentanteCC,
		"CC R":                          domain.FieldRepresentanteCC,

		"NOMBRE SEDE":                domain.FieldSede,
		"SEDE":                       domain.FieldSede,
		"NOMBRE SEDE O CONSULTORIO":  domain.FieldSede,
		"NOMBRE DEL ESTABLECIMIENTO": domain.FieldSede,

		"DIRECCION":                 domain.FieldDireccion,
		"DIRECCIÓN":                 domain.FieldDireccion,
		"DIRECCION ESTABLECIMIENTO": domain.FieldDireccion,
		"MUNICIPIO":                 domain.FieldMunicipio,
		"SUBREGION":                 domain.FieldSubregion,
		"SUBREGIÓN":                 domain.FieldSubregion,

		"TIPO DE SOLICITUD":  domain.FieldTipoSolicitud,
		"EMAIL NOTIFICACION": domain.FieldEmailNotificacion,
		"CORREO ELECTRONICO": domain.FieldEmailNotificacion,
		"EMAIL":              domain.FieldEmailNotificacion,

		"TIPO DE EQUIPO":     domain.FieldTipoEquipo,
		"PRACTICA":           domain.FieldPractica,
		"CATEGORIA":          domain.FieldCategoria,
		"CATEGORÍA":          domain.FieldCategoria,
		"CATEGORIA LICENCIA": domain.FieldCategoria,

		"MARCA":    domain.FieldMarca,
		"MARCA E":  domain.FieldMarca,
		"MODELO":   domain.FieldModelo,
		"MODELO E": domain.FieldModelo,
		"SERIE":    domain.FieldSerie,
		"SERIE E":  domain.FieldSerie,

		"FECHA DE FABRICACION": domain.FieldFechaFabricacion,
		"FECHA DE FABRICACIÓN": domain.FieldFechaFabricacion,
		"FECHA FABRICACION E":  domain.FieldFechaFabricacion,

		"MARCA TUBO RX":             domain.FieldMarcaTubo,
		"MARCA T":                   domain.FieldMarcaTubo,
		"MODELO TUBO RX":            domain.FieldModeloTubo,
		"MODELO T":                  domain.FieldModeloTubo,
		"SERIE TUBO RX":             domain.FieldSerieTubo,
		"SERIE T":                   domain.FieldSerieTubo,
		"FECHA FABRICACION TUBO RX": domain.FieldFechaFabricacionTubo,
		"FECHA FABRICACIÓN TUBO RX": domain.FieldFechaFabricacionTubo,
		"FECHA FABRICACION T":       domain.FieldFechaFabricacionTubo,

		"TENSION":          domain.FieldTension,
		"TENSION MAXIMA":   domain.FieldTension,
		"KV":               domain.FieldTension,
		"CORRIENTE":        domain.FieldCorriente,
		"CORRIENTE MAXIMA": domain.FieldCorriente,
		"MA":               domain.FieldCorriente,
		"POTENCIA":         domain.FieldPotencia,

		"CONTROL CALIDAD": domain.FieldControlCalidad,
		"FECHA CC":        domain.FieldFechaCC,

		"OFICIAL DE PROTECCION RADIOLOGICA": domain.FieldOPRNombre,
		"ENCARGADO PROTECCION RADIOLOGICA":  domain.FieldOPRNombre,
		"DOCUMENTO OPR":                     domain.FieldOPRCC,
		"CC OPR":                            domain.FieldOPRCC,
		"CEDULA OPR":                        domain.FieldOPRCC,

		"UBICACION":   domain.FieldUbicacionEquipo,
		"UBICACION E": domain.FieldUbicacionEquipo,

		"OBSERVACIONES": domain.FieldObservaciones,
		"COMENTARIOS":   domain.FieldObservaciones,
	}

	sections := map[string]map[string]string{
		SectionEquipos: {
			"FECHA":     domain.FieldFechaFabricacion,
			"UBICACION": domain.FieldUbicacionEquipo,
			"TIPO":      domain.FieldTipoEquipo,
		},
		SectionControlCal: {
			"FECHA":   domain.FieldFechaCC,
			"EMPRESA": domain.FieldControlCalidad,
			"ENTIDAD": domain.FieldControlCalidad,
			"REALIZO": domain.FieldControlCalidad,
			"REALIZÓ": domain.FieldControlCalidad,
		},
		SectionSolicitante: {
			"NOMBRE":          domain.FieldNombreSolicitante,
			"NOMBRE COMPLETO": domain.FieldNombreSolicitante,
			"CC":              domain.FieldNitCC,
			"CEDULA":          domain.FieldNitCC,
		},
		SectionRepresentante: {
			"NOMBRE":          domain.FieldRepresentanteLegal,
			"NOMBRE COMPLETO": domain.FieldRepresentanteLegal,
			"CC":              domain.FieldRepresentanteCC,
			"CEDULA":          domain.FieldRepresentanteCC,
		},
		SectionOPR: {
			"NOMBRE":          domain.FieldOPRNombre,
			"NOMBRE COMPLETO": domain.FieldOPRNombre,
			"CC":              domain.FieldOPRCC,
			"CEDULA":          domain.FieldOPRCC,
		},
	}

	keywords := []string{
		"FECHA", "RADIC", "MARCA", "MODELO", "SERIE", "TUBO", "CONTROL",
		"NIT", "CEDULA", "DIRECCION", "MUNICIPIO", "SUBREGION", "CATEGORIA",
		"PRACTICA", "UBICACION", "TENSION", "CORRIENTE", "POTENCIA",
		"SOLICIT", "REPRESENTANTE", "SEDE", "EMAIL", "CORREO", "OBSERVA",
		"RESOLUCION", "EQUIPO",
	}

	return NewDictionary(global, sections, keywords)
}
