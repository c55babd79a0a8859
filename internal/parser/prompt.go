package parser

import (
	"fmt"
	"strings"

	"radlic/internal/domain"
	"radlic/internal/textnorm"
)

// maxPromptTextLen bounds how much document text goes into one prompt.
const maxPromptTextLen = 25000

const promptHeader = `Extrae la siguiente información del texto de la licencia de rayos X que te doy a continuación.
Formato de fechas: día/mes/año (dd/mm/aaaa).

Alcance:
1) Metadatos de la licencia (una vez por documento).
2) Equipos asociados a la licencia (0..N): devolver SIEMPRE una lista EQUIPOS con un objeto por equipo.

Reglas:
- Si un dato del tubo o de serie no aparece, usar exactamente "NO REGISTRA".
- Si no puedes identificar el ente de control de calidad, usar "REVISAR".
- No llenar la información del radicado.
- Devuelve exclusivamente un JSON válido, sin texto adicional ni Markdown.

Estructura de salida (usa exactamente estas claves):`

// BuildLicensePrompt renders the extraction prompt for one document's text.
// The requested JSON keys are the canonical field keys, so the response needs
// no label mapping.
func BuildLicensePrompt(text string) string {
	if len(text) > maxPromptTextLen {
		text = text[:maxPromptTextLen]
	}

	var sb strings.Builder
	sb.WriteString(promptHeader)
	sb.WriteString("\n\n{\n")
	for _, key := range domain.DocumentFieldKeys {
		if domain.IsEquipmentField(key) {
			continue
		}
		fmt.Fprintf(&sb, "  %q: \"\",\n", key)
	}
	sb.WriteString("  \"EQUIPOS\": [\n    {\n")
	for i, key := range domain.EquipmentFieldKeys {
		sep := ","
		if i == len(domain.EquipmentFieldKeys)-1 {
			sep = ""
		}
		fmt.Fprintf(&sb, "      %q: \"\"%s\n", key, sep)
	}
	sb.WriteString("    }\n  ]\n}\n")

	sb.WriteString("\nTexto de la licencia:\n---\n")
	sb.WriteString(text)
	sb.WriteString("\n---\n")
	return sb.String()
}

// CanonicalEquipmentKey maps a response key onto the canonical equipment
// vocabulary, tolerating accents and spacing the model may reintroduce.
// Returns "" for keys outside the vocabulary.
func CanonicalEquipmentKey(key string) string {
	normalized := textnorm.NormalizePlaceholderKey(key)
	for _, canonical := range domain.EquipmentFieldKeys {
		if normalized == canonical {
			return canonical
		}
	}
	return ""
}
