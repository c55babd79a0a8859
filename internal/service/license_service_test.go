package service_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radlic/internal/config"
	"radlic/internal/docx"
	"radlic/internal/domain"
	"radlic/internal/extract"
	"radlic/internal/service"
)

func writeTemplate(t *testing.T, dir string) string {
	t.Helper()
	doc := docx.New()
	doc.Body.AddParagraph("Radicado: {{RADICADO}}", docx.RunProps{})
	doc.Body.AddParagraph("Solicitante: {{NOMBRE_SOLICITANTE}}", docx.RunProps{})
	doc.Body.AddParagraph("{{EQUIPOS}}", docx.RunProps{})
	path := filepath.Join(dir, "licencia.docx")
	require.NoError(t, doc.SaveAs(path))
	return path
}

func newLicenseService(t *testing.T) (service.LicenseService, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.IngestConfig{
		TemplatePath: writeTemplate(t, dir),
		OutputDir:    filepath.Join(dir, "out"),
	}
	return service.NewLicenseService(cfg, extract.DefaultDictionary()), dir
}

func TestExtractFromBytes(t *testing.T) {
	svc, _ := newLicenseService(t)

	doc := docx.New()
	doc.Body.AddTable([][]string{
		{"RADICADO: 2024001234"},
		{"NOMBRE O RAZON SOCIAL", "CLINICA DENTAL SAS"},
	})
	data, err := doc.Bytes()
	require.NoError(t, err)

	result, err := svc.Extract(context.Background(), data, "solicitud.docx")
	require.NoError(t, err)
	assert.Equal(t, "2024001234", result.Fields[domain.FieldRadicado])
	assert.Equal(t, "CLINICA DENTAL SAS", result.Fields[domain.FieldNombreSolicitante])
}

func TestExtractResolvesRadicadoFromFilename(t *testing.T) {
	svc, _ := newLicenseService(t)

	doc := docx.New()
	doc.Body.AddTable([][]string{{"MUNICIPIO", "MEDELLIN"}})
	data, err := doc.Bytes()
	require.NoError(t, err)

	result, err := svc.Extract(context.Background(), data, "2025000111_CLINICA_CHECKLIST.docx")
	require.NoError(t, err)
	assert.Equal(t, "2025000111", result.Fields[domain.FieldRadicado])
}

func TestExtractRejectsNonDocx(t *testing.T) {
	svc, _ := newLicenseService(t)

	_, err := svc.Extract(context.Background(), []byte("plain"), "notes.txt")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestExtractRejectsCorruptDocument(t *testing.T) {
	svc, _ := newLicenseService(t)

	_, err := svc.Extract(context.Background(), []byte("not a zip"), "broken.docx")
	assert.ErrorIs(t, err, domain.ErrDocumentRead)
}

func TestGenerateSingleLicense(t *testing.T) {
	svc, _ := newLicenseService(t)

	entry := domain.NewEquipmentEntry()
	entry[domain.FieldTipoEquipo] = "PERIAPICAL"
	entry[domain.FieldMarca] = "TOSHIBA"

	outputs, err := svc.Generate(context.Background(), &service.GenerateInput{
		Fields: map[string]string{
			domain.FieldRadicado:          "2025000111",
			domain.FieldNombreSolicitante: "CLINICA DENTAL SAS",
		},
		Equipment:      []domain.EquipmentEntry{entry},
		SourceFilename: "2024010240918_CLINICA_CHECKLIST.docx",
	})
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, "2025000111", outputs[0].Radicado)
	assert.True(t, strings.HasPrefix(filepath.Base(outputs[0].Path), "2025000111_"))

	generated, err := docx.Open(outputs[0].Path)
	require.NoError(t, err)
	text := generated.Text()
	assert.Contains(t, text, "Radicado: 2025000111")
	assert.Contains(t, text, "CLINICA DENTAL SAS")
	assert.Contains(t, text, "EQUIPO No. 1.")
	assert.NotContains(t, text, "{{EQUIPOS}}")
}

func TestGenerateSplitsPerEquipmentRadicado(t *testing.T) {
	svc, _ := newLicenseService(t)

	first := domain.NewEquipmentEntry()
	first[domain.FieldTipoEquipo] = "PERIAPICAL"
	first[domain.FieldRadicado] = "2025000111"
	second := domain.NewEquipmentEntry()
	second[domain.FieldTipoEquipo] = "PANORAMICO"
	second[domain.FieldRadicado] = "2025000222"

	outputs, err := svc.Generate(context.Background(), &service.GenerateInput{
		Fields:         map[string]string{domain.FieldRadicado: "2025000111"},
		Equipment:      []domain.EquipmentEntry{first, second},
		SourceFilename: "2024010240918_CLINICA_CHECKLIST.docx",
	})
	require.NoError(t, err)
	require.Len(t, outputs, 2)
	assert.Equal(t, "2025000111", outputs[0].Radicado)
	assert.Equal(t, "2025000222", outputs[1].Radicado)

	second1, err := docx.Open(outputs[1].Path)
	require.NoError(t, err)
	text := second1.Text()
	assert.Contains(t, text, "PANORAMICO")
	assert.NotContains(t, text, "PERIAPICAL")
}

func TestGenerateRequiresRadicado(t *testing.T) {
	svc, _ := newLicenseService(t)

	_, err := svc.Generate(context.Background(), &service.GenerateInput{
		Fields: map[string]string{domain.FieldNombreSolicitante: "CLINICA"},
	})
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
}

func TestGenerateMissingTemplate(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.IngestConfig{
		TemplatePath: filepath.Join(dir, "missing.docx"),
		OutputDir:    filepath.Join(dir, "out"),
	}
	svc := service.NewLicenseService(cfg, extract.DefaultDictionary())

	_, err := svc.Generate(context.Background(), &service.GenerateInput{
		Fields: map[string]string{domain.FieldRadicado: "2025000111"},
	})
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestUpdateSourceRewritesDocument(t *testing.T) {
	svc, dir := newLicenseService(t)

	doc := docx.New()
	doc.Body.AddTable([][]string{
		{"MARCA: SIEMENS"},
		{"MUNICIPIO", "MEDELLIN"},
	})
	path := filepath.Join(dir, "source.docx")
	require.NoError(t, doc.SaveAs(path))

	changed, err := svc.UpdateSource(context.Background(), &service.UpdateSourceInput{
		Path: path,
		Fields: map[string]string{
			domain.FieldMarca: "toshiba",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	result, err := svc.Extract(context.Background(), data, "source.docx")
	require.NoError(t, err)
	assert.Equal(t, "TOSHIBA", result.Fields[domain.FieldMarca])
	assert.Equal(t, "MEDELLIN", result.Fields[domain.FieldMunicipio])
}
