package writeback_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radlic/internal/docx"
	"radlic/internal/domain"
	"radlic/internal/extract"
	"radlic/internal/writeback"
)

func TestApplyRewritesValues(t *testing.T) {
	doc := docx.New()
	doc.Body.AddTable([][]string{
		{"RADICADO: 111"},
		{"MUNICIPIO", "BELLO"},
		{"DIRECCIÓN\nCALLE 1 # 2-3"},
		{"SEDE", "PRINCIPAL"},
	})
	dict := extract.DefaultDictionary()

	changed := writeback.Apply(doc, map[string]string{
		domain.FieldRadicado:  "2024009999",
		domain.FieldMunicipio: "medellín",
		domain.FieldDireccion: "CARRERA 50 # 10-20",
	}, dict)
	assert.Equal(t, 3, changed)

	rows := doc.Tables()[0].Rows()
	assert.Equal(t, "RADICADO: 2024009999", rows[0].Cells()[0].Text())
	assert.Equal(t, "MEDELLÍN", rows[1].Cells()[1].Text())
	assert.Equal(t, "DIRECCIÓN\nCARRERA 50 # 10-20", rows[2].Cells()[0].Text())
	// Keys absent from the update map stay untouched.
	assert.Equal(t, "PRINCIPAL", rows[3].Cells()[1].Text())
}

// Corrected values survive a write/re-extract cycle unchanged.
func TestApplyRoundTrip(t *testing.T) {
	doc := docx.New()
	doc.Body.AddTable([][]string{
		{"RADICADO: 111"},
		{"MUNICIPIO", "BELLO"},
	})
	dict := extract.DefaultDictionary()

	writeback.Apply(doc, map[string]string{
		domain.FieldRadicado:  "2024009999",
		domain.FieldMunicipio: "MEDELLÍN",
	}, dict)

	data, err := doc.Bytes()
	require.NoError(t, err)
	reopened, err := docx.OpenBytes(data)
	require.NoError(t, err)

	result := extract.NewExtractor(dict).Extract(reopened)
	assert.Equal(t, "2024009999", result.Fields[domain.FieldRadicado])
	assert.Equal(t, "MEDELLÍN", result.Fields[domain.FieldMunicipio])
}

func TestApplyRewritesAllBold(t *testing.T) {
	doc := docx.New()
	doc.Body.AddTable([][]string{{"MUNICIPIO", "BELLO"}})

	writeback.Apply(doc, map[string]string{domain.FieldMunicipio: "ITAGÜÍ"}, extract.DefaultDictionary())

	cell := doc.Tables()[0].Rows()[0].Cells()[1]
	paras := cell.Paragraphs()
	require.Len(t, paras, 1)
	require.Len(t, paras[0].Runs, 1)
	assert.True(t, paras[0].Runs[0].Props.Bold)
	assert.Equal(t, "ITAGÜÍ", paras[0].Runs[0].Text)
}
