package template_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radlic/internal/docx"
	"radlic/internal/domain"
	"radlic/internal/template"
)

func TestRenderSubstitutesField(t *testing.T) {
	doc := docx.New()
	p := docx.NewParagraph(
		&docx.Run{Text: "Radicado: ", Props: docx.RunProps{Font: "Arial"}},
		&docx.Run{Text: "{{RADICADO}}", Props: docx.RunProps{Italic: true}},
	)
	doc.Body.Blocks = append(doc.Body.Blocks, p)

	template.Render(doc, template.Options{
		Fields: map[string]string{domain.FieldRadicado: "2024001234"},
	})

	require.Len(t, p.Runs, 2)
	assert.Equal(t, "Radicado: ", p.Runs[0].Text)
	assert.Equal(t, "Arial", p.Runs[0].Props.Font)
	assert.Equal(t, "2024001234", p.Runs[1].Text)
	assert.True(t, p.Runs[1].Props.Bold)
	assert.True(t, p.Runs[1].Props.Italic)
}

// A marker split across differently styled runs is still found; replacement
// text takes the style of the run covering the marker's first character.
func TestRenderMarkerSplitAcrossRuns(t *testing.T) {
	doc := docx.New()
	p := docx.NewParagraph(
		&docx.Run{Text: "Radicado: {{RAD", Props: docx.RunProps{Font: "Calibri"}},
		&docx.Run{Text: "ICADO}}", Props: docx.RunProps{Italic: true}},
	)
	doc.Body.Blocks = append(doc.Body.Blocks, p)

	template.Render(doc, template.Options{
		Fields: map[string]string{domain.FieldRadicado: "2024001234"},
	})

	assert.Equal(t, "Radicado: 2024001234", p.Text())
	require.Len(t, p.Runs, 2)
	assert.Equal(t, "Calibri", p.Runs[1].Props.Font)
	assert.False(t, p.Runs[1].Props.Italic)
	assert.True(t, p.Runs[1].Props.Bold)
}

func TestRenderKeyMatchingIsAccentAndCaseInsensitive(t *testing.T) {
	doc := docx.New()
	p := doc.Body.AddParagraph("Municipio: {{ municipio }}", docx.RunProps{})

	template.Render(doc, template.Options{
		Fields: map[string]string{domain.FieldMunicipio: "Medellín"},
	})

	assert.Equal(t, "Municipio: MEDELLÍN", p.Text())
}

// Unknown markers survive byte-identical so template typos stay visible.
func TestRenderLeavesUnknownMarker(t *testing.T) {
	doc := docx.New()
	p := doc.Body.AddParagraph("Hola {{DESCONOCIDO}} mundo", docx.RunProps{})

	template.Render(doc, template.Options{
		Fields: map[string]string{domain.FieldRadicado: "123"},
	})

	assert.Equal(t, "Hola {{DESCONOCIDO}} mundo", p.Text())
}

func TestRenderEmissionDateAliases(t *testing.T) {
	doc := docx.New()
	p := doc.Body.AddParagraph("{{DIA}} de {{MES}} de {{AÑO}}", docx.RunProps{})

	template.Render(doc, template.Options{
		Fields: map[string]string{
			domain.FieldDiaEmision: "15",
			domain.FieldMesEmision: "MARZO",
			domain.FieldAnoEmision: "2024",
		},
	})

	assert.Equal(t, "15 de MARZO de 2024", p.Text())
}

func TestRenderResolutionParagraph(t *testing.T) {
	doc := docx.New()
	p := doc.Body.AddParagraph("{{PARRAFO_RESOLUCION}}", docx.RunProps{})

	template.Render(doc, template.Options{
		Fields: map[string]string{
			domain.FieldResolucion: "045",
			domain.FieldDiaEmision: "15",
			domain.FieldMesEmision: "MARZO",
			domain.FieldAnoEmision: "2024",
		},
		IncludeResolutionParagraph: true,
	})

	require.Len(t, p.Runs, 3)
	assert.Equal(t, "Resolución No. 045 del 15 de marzo de 2024", p.Runs[1].Text)
	assert.True(t, p.Runs[1].Props.Bold)
	assert.False(t, p.Runs[0].Props.Bold)
	assert.False(t, p.Runs[2].Props.Bold)
}

// When the emission day is missing the clause is dropped and every paragraph
// referencing resolution keys is removed rather than rendered half-empty.
func TestRenderResolutionParagraphRemovedWhenIncomplete(t *testing.T) {
	doc := docx.New()
	doc.Body.AddParagraph("{{PARRAFO_RESOLUCION}}", docx.RunProps{})
	doc.Body.AddParagraph("Resolución {{RESOLUCION}} del {{DIA}}", docx.RunProps{})
	keep := doc.Body.AddParagraph("Radicado: {{RADICADO}}", docx.RunProps{})

	template.Render(doc, template.Options{
		Fields: map[string]string{
			domain.FieldResolucion: "045",
			domain.FieldMesEmision: "MARZO",
			domain.FieldAnoEmision: "2024",
			domain.FieldRadicado:   "2024001234",
		},
		IncludeResolutionParagraph: true,
	})

	paras := doc.Paragraphs()
	require.Len(t, paras, 1)
	assert.Same(t, keep, paras[0])
	assert.Equal(t, "Radicado: 2024001234", keep.Text())
}

func TestRenderEquipmentBlocks(t *testing.T) {
	doc := docx.New()
	doc.Body.AddParagraph("Equipos amparados:", docx.RunProps{})
	doc.Body.AddParagraph("{{EQUIPOS}}", docx.RunProps{})

	first := domain.NewEquipmentEntry()
	first[domain.FieldTipoEquipo] = "PERIAPICAL"
	first[domain.FieldMarca] = "TOSHIBA"
	first[domain.FieldModelo] = "DX-100"
	first[domain.FieldSerie] = "A1"
	first[domain.FieldUbicacionEquipo] = "CONSULTORIO 2"

	second := domain.NewEquipmentEntry()
	second[domain.FieldTipoEquipo] = "PANORAMICO"
	second[domain.FieldMarcaTubo] = "CEI"
	second[domain.FieldTension] = "70 KV"

	template.Render(doc, template.Options{
		Equipment: []domain.EquipmentEntry{first, second},
	})

	var texts []string
	for _, p := range doc.Paragraphs() {
		texts = append(texts, p.Text())
	}
	require.Len(t, texts, 6)
	assert.Equal(t, "Equipos amparados:", texts[0])
	assert.Equal(t, "EQUIPO No. 1. PERIAPICAL.", texts[1])
	assert.Equal(t, "MARCA: TOSHIBA, MODELO: DX-100, SERIE: A1", texts[2])
	assert.Equal(t, "UBICACIÓN: CONSULTORIO 2", texts[3])
	assert.Equal(t, "EQUIPO No. 2. PANORAMICO.", texts[4])
	assert.Equal(t, "TUBO RX. MARCA: CEI, TENSIÓN: 70 KV", texts[5])

	for _, p := range doc.Paragraphs()[1:] {
		require.Len(t, p.Runs, 1)
		assert.True(t, p.Runs[0].Props.Bold)
	}
}

// A tube marked "NO REGISTRA" renders no tube line at all.
func TestRenderEquipmentTubeOmitted(t *testing.T) {
	doc := docx.New()
	doc.Body.AddParagraph("{{EQUIPOS}}", docx.RunProps{})

	entry := domain.NewEquipmentEntry()
	entry[domain.FieldMarca] = "TOSHIBA"
	entry[domain.FieldMarcaTubo] = "no registra"
	entry[domain.FieldTension] = "70 KV"

	template.Render(doc, template.Options{
		Equipment: []domain.EquipmentEntry{entry},
	})

	for _, p := range doc.Paragraphs() {
		assert.False(t, strings.Contains(p.Text(), "TUBO"), "unexpected tube line: %q", p.Text())
	}
}

func TestRenderEquipmentMarkerKeptWithoutEntries(t *testing.T) {
	doc := docx.New()
	p := doc.Body.AddParagraph("{{EQUIPOS}}", docx.RunProps{})

	template.Render(doc, template.Options{})

	assert.Equal(t, "{{EQUIPOS}}", p.Text())
}
