package service_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"radlic/internal/config"
	"radlic/internal/docx"
	"radlic/internal/domain"
	"radlic/internal/extract"
	"radlic/internal/port"
	"radlic/internal/service"
	"radlic/internal/xlsxexport"
)

// fakeRecordRepo keeps records in memory with the same fill-only-empty merge
// semantics as the Postgres implementation.
type fakeRecordRepo struct {
	records map[string]*domain.LicenseRecord
	upserts int
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: make(map[string]*domain.LicenseRecord)}
}

func recordKey(radicado string, item int, archivo string) string {
	return fmt.Sprintf("%s|%d|%s", radicado, item, archivo)
}

func (f *fakeRecordRepo) UpsertFillEmpty(_ context.Context, record *domain.LicenseRecord) (*domain.LicenseRecord, error) {
	f.upserts++
	key := recordKey(record.Radicado, record.Item, record.Archivo)
	existing, ok := f.records[key]
	if !ok {
		f.records[key] = record
		return record, nil
	}
	merged := existing.FieldMap()
	for k, v := range record.FieldMap() {
		if v != "" && merged[k] == "" {
			merged[k] = v
		}
	}
	if err := existing.SetFieldMap(merged); err != nil {
		return nil, err
	}
	return existing, nil
}

func (f *fakeRecordRepo) GetByKey(_ context.Context, radicado string, item int, archivo string) (*domain.LicenseRecord, error) {
	record, ok := f.records[recordKey(radicado, item, archivo)]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return record, nil
}

func (f *fakeRecordRepo) ListByRadicado(_ context.Context, radicado string) ([]domain.LicenseRecord, error) {
	var out []domain.LicenseRecord
	for _, record := range f.records {
		if record.Radicado == radicado {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (f *fakeRecordRepo) List(_ context.Context, _, _ int) ([]domain.LicenseRecord, int, error) {
	var out []domain.LicenseRecord
	for _, record := range f.records {
		out = append(out, *record)
	}
	return out, len(out), nil
}

// fakeParser returns a canned AI extraction and records whether it was called.
type fakeParser struct {
	output *port.ParseOutput
	calls  int
}

func (f *fakeParser) Parse(_ context.Context, _ port.ParseInput) (*port.ParseOutput, error) {
	f.calls++
	return f.output, nil
}

// fakeStorage serves objects from a map and captures uploads.
type fakeStorage struct {
	objects      map[string][]byte
	uploads      []port.UploadInput
	uploadedBody []byte
}

func (f *fakeStorage) List(_ context.Context, _, prefix string) ([]port.ObjectInfo, error) {
	var out []port.ObjectInfo
	for key, data := range f.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, port.ObjectInfo{Key: key, Size: int64(len(data))})
		}
	}
	return out, nil
}

func (f *fakeStorage) Download(_ context.Context, _, key string) ([]byte, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return data, nil
}

func (f *fakeStorage) Upload(_ context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.uploads = append(f.uploads, input)
	f.uploadedBody = data
	return &port.UploadOutput{Location: input.Key}, nil
}

func writeSourceDoc(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()
	doc := docx.New()
	doc.Body.AddTable(rows)
	path := filepath.Join(dir, name)
	require.NoError(t, doc.SaveAs(path))
	return path
}

func fullSourceRows() [][]string {
	return [][]string{
		{"RADICADO: 2024001234"},
		{"NOMBRE O RAZON SOCIAL", "CLINICA DENTAL SAS"},
		{"NIT O CC", "900123456"},
		{"MUNICIPIO", "MEDELLIN"},
		{"TIPO DE SOLICITUD", "LICENCIA NUEVA"},
		{"EQUIPOS A LICENCIAR"},
		{"TIPO DE EQUIPO", "PERIAPICAL"},
		{"MARCA", "TOSHIBA"},
	}
}

func newIngestService(t *testing.T, repo port.LicenseRecordRepository, aiParser port.DocumentParser, useAI bool) (service.IngestService, *config.IngestConfig) {
	t.Helper()
	cfg := &config.IngestConfig{
		CacheDir: filepath.Join(t.TempDir(), "cache"),
		UseAI:    useAI,
	}
	return service.NewIngestService(cfg, extract.DefaultDictionary(), aiParser, nil, repo), cfg
}

func TestProcessFileWritesRecords(t *testing.T) {
	repo := newFakeRecordRepo()
	svc, _ := newIngestService(t, repo, nil, false)

	dir := t.TempDir()
	path := writeSourceDoc(t, dir, "2024001234_CLINICA_CHECKLIST.docx", fullSourceRows())

	result, err := svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "2024001234", result.Radicado)
	assert.False(t, result.FromCache)
	assert.Equal(t, 1, result.Records)
	assert.FileExists(t, result.CachePath)

	record, err := repo.GetByKey(context.Background(), "2024001234", 1, "2024001234_CLINICA_CHECKLIST.docx")
	require.NoError(t, err)
	fields := record.FieldMap()
	assert.Equal(t, "CLINICA DENTAL SAS", fields[domain.FieldNombreSolicitante])
	assert.Equal(t, "PERIAPICAL", fields[domain.FieldTipoEquipo])
}

func TestProcessFileReusesCache(t *testing.T) {
	repo := newFakeRecordRepo()
	svc, _ := newIngestService(t, repo, nil, false)

	dir := t.TempDir()
	path := writeSourceDoc(t, dir, "2024001234_CLINICA_CHECKLIST.docx", fullSourceRows())

	first, err := svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
}

func TestProcessFileAIFillsOnlyEmptyFields(t *testing.T) {
	repo := newFakeRecordRepo()
	aiParser := &fakeParser{output: &port.ParseOutput{
		Fields: map[string]string{
			domain.FieldNombreSolicitante: "OTRO NOMBRE",
			domain.FieldNitCC:             "811111111",
			domain.FieldMunicipio:         "BELLO",
			domain.FieldTipoSolicitud:     "RENOVACION",
		},
		Equipment: []map[string]string{
			{domain.FieldTipoEquipo: "PANORAMICO", domain.FieldMarca: "CARESTREAM"},
		},
	}}
	svc, _ := newIngestService(t, repo, aiParser, true)

	dir := t.TempDir()
	// Sparse document: only the applicant name is present structurally.
	path := writeSourceDoc(t, dir, "2024001234_CLINICA_CHECKLIST.docx", [][]string{
		{"NOMBRE O RAZON SOCIAL", "CLINICA DENTAL SAS"},
	})

	_, err := svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, aiParser.calls)

	record, err := repo.GetByKey(context.Background(), "2024001234", 1, "2024001234_CLINICA_CHECKLIST.docx")
	require.NoError(t, err)
	fields := record.FieldMap()
	assert.Equal(t, "CLINICA DENTAL SAS", fields[domain.FieldNombreSolicitante])
	assert.Equal(t, "811111111", fields[domain.FieldNitCC])
	assert.Equal(t, "PANORAMICO", fields[domain.FieldTipoEquipo])
}

func TestProcessFileSkipsAIWhenComplete(t *testing.T) {
	repo := newFakeRecordRepo()
	aiParser := &fakeParser{output: &port.ParseOutput{}}
	svc, _ := newIngestService(t, repo, aiParser, true)

	dir := t.TempDir()
	path := writeSourceDoc(t, dir, "2024001234_CLINICA_CHECKLIST.docx", fullSourceRows())

	_, err := svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	assert.Zero(t, aiParser.calls)
}

func TestProcessFileRadicadoNotResolved(t *testing.T) {
	repo := newFakeRecordRepo()
	svc, _ := newIngestService(t, repo, nil, false)

	dir := t.TempDir()
	path := writeSourceDoc(t, dir, "sin_numero.docx", [][]string{
		{"MUNICIPIO", "MEDELLIN"},
	})

	_, err := svc.ProcessFile(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrRadicadoNotResolved)
}

func TestProcessFileExpandsEquipmentRows(t *testing.T) {
	repo := newFakeRecordRepo()
	svc, _ := newIngestService(t, repo, nil, false)

	rows := [][]string{
		{"RADICADO: 2024001234"},
		{"NOMBRE O RAZON SOCIAL", "CLINICA DENTAL SAS"},
		{"EQUIPOS A LICENCIAR"},
		{"EQUIPO 1"},
		{"TIPO DE EQUIPO", "PERIAPICAL"},
		{"EQUIPO 2"},
		{"TIPO DE EQUIPO", "PANORAMICO"},
	}
	dir := t.TempDir()
	path := writeSourceDoc(t, dir, "2024001234_CLINICA_CHECKLIST.docx", rows)

	result, err := svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Records)

	first, err := repo.GetByKey(context.Background(), "2024001234", 1, "2024001234_CLINICA_CHECKLIST.docx")
	require.NoError(t, err)
	assert.Equal(t, "PERIAPICAL", first.FieldMap()[domain.FieldTipoEquipo])

	second, err := repo.GetByKey(context.Background(), "2024001234", 2, "2024001234_CLINICA_CHECKLIST.docx")
	require.NoError(t, err)
	assert.Equal(t, "PANORAMICO", second.FieldMap()[domain.FieldTipoEquipo])
}

func TestProcessBucketIngestsObjects(t *testing.T) {
	repo := newFakeRecordRepo()

	doc := docx.New()
	doc.Body.AddTable(fullSourceRows())
	data, err := doc.Bytes()
	require.NoError(t, err)

	storage := &fakeStorage{objects: map[string][]byte{
		"inbox/2024001234_CLINICA_CHECKLIST.docx": data,
		"inbox/notas.txt":                         []byte("not a document"),
	}}
	cfg := &config.IngestConfig{CacheDir: filepath.Join(t.TempDir(), "cache")}
	svc := service.NewIngestService(cfg, extract.DefaultDictionary(), nil, storage, repo)

	summary, err := svc.ProcessBucket(context.Background(), "docs", "inbox/")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Records)
	assert.Zero(t, summary.Errors)
}

func TestSyncWorkbookUploadsRecords(t *testing.T) {
	repo := newFakeRecordRepo()
	record := &domain.LicenseRecord{Radicado: "2024001234", Item: 1, Archivo: "a.docx"}
	require.NoError(t, record.SetFieldMap(map[string]string{domain.FieldMunicipio: "MEDELLIN"}))
	_, err := repo.UpsertFillEmpty(context.Background(), record)
	require.NoError(t, err)

	storage := &fakeStorage{}
	cfg := &config.IngestConfig{CacheDir: t.TempDir()}
	svc := service.NewIngestService(cfg, extract.DefaultDictionary(), nil, storage, repo)

	require.NoError(t, svc.SyncWorkbook(context.Background(), "docs", "exports/licencias.xlsx"))
	require.Len(t, storage.uploads, 1)
	assert.Equal(t, "exports/licencias.xlsx", storage.uploads[0].Key)
	assert.Equal(t, xlsxexport.ContentType, storage.uploads[0].ContentType)

	f, err := excelize.OpenReader(bytes.NewReader(storage.uploadedBody))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(xlsxexport.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024001234", rows[1][0])
}

func TestProcessDirAggregatesSummary(t *testing.T) {
	repo := newFakeRecordRepo()
	svc, _ := newIngestService(t, repo, nil, false)

	dir := t.TempDir()
	writeSourceDoc(t, dir, "2024001234_A_CHECKLIST.docx", fullSourceRows())
	writeSourceDoc(t, dir, "sin_numero.docx", [][]string{{"MUNICIPIO", "MEDELLIN"}})

	summary, err := svc.ProcessDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Records)
	assert.Equal(t, 1, summary.Errors)
}
