package template

import (
	"fmt"
	"strings"

	"radlic/internal/domain"
	"radlic/internal/textnorm"
)

// KeyParrafoResolucion is the composite placeholder for the clause that
// supersedes a previously issued resolution. It is distinct from the plain
// resolution number and date placeholders.
const KeyParrafoResolucion = "PARRAFO_RESOLUCION"

// resolutionKeys are the placeholders whose paragraphs are stripped when the
// superseding clause was requested but cannot be composed.
var resolutionKeys = map[string]bool{
	KeyParrafoResolucion:        true,
	domain.FieldResolucion:      true,
	domain.FieldFechaResolucion: true,
	domain.FieldDiaEmision:      true,
	domain.FieldMesEmision:      true,
	domain.FieldAnoEmision:      true,
	"DIA":                       true,
	"MES":                       true,
	"ANO":                       true,
}

// resolutionComplete reports whether every component of the superseding clause
// is present.
func resolutionComplete(fields map[string]string) bool {
	for _, key := range []string{
		domain.FieldResolucion,
		domain.FieldDiaEmision,
		domain.FieldMesEmision,
		domain.FieldAnoEmision,
	} {
		if fields[key] == "" {
			return false
		}
	}
	return true
}

// resolutionContent composes the three-fragment superseding clause: plain
// lead-in, bold resolution reference, plain trailer.
func resolutionContent(fields map[string]string) Content {
	num := textnorm.NormalizeValue(fields[domain.FieldResolucion])
	day := textnorm.NormalizeValue(fields[domain.FieldDiaEmision])
	month := strings.ToLower(textnorm.NormalizeValue(fields[domain.FieldMesEmision]))
	year := textnorm.NormalizeValue(fields[domain.FieldAnoEmision])

	return Content{
		{Text: "La presente licencia deja sin efecto la "},
		{Text: fmt.Sprintf("Resolución No. %s del %s de %s de %s", num, day, month, year), Bold: true},
		{Text: ", la cual pierde validez para todos los efectos legales."},
	}
}
