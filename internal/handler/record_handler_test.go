package handler_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"radlic/internal/domain"
	"radlic/internal/handler"
	"radlic/internal/xlsxexport"
)

// fakeRecordRepo serves a fixed record slice.
type fakeRecordRepo struct {
	records []domain.LicenseRecord
	listErr error
}

func (f *fakeRecordRepo) UpsertFillEmpty(_ context.Context, record *domain.LicenseRecord) (*domain.LicenseRecord, error) {
	return record, nil
}

func (f *fakeRecordRepo) GetByKey(_ context.Context, radicado string, item int, archivo string) (*domain.LicenseRecord, error) {
	for i := range f.records {
		r := &f.records[i]
		if r.Radicado == radicado && r.Item == item && r.Archivo == archivo {
			return r, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (f *fakeRecordRepo) ListByRadicado(_ context.Context, radicado string) ([]domain.LicenseRecord, error) {
	var out []domain.LicenseRecord
	for _, r := range f.records {
		if r.Radicado == radicado {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecordRepo) List(_ context.Context, offset, limit int) ([]domain.LicenseRecord, int, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.records, len(f.records), nil
}

func sampleRecord(radicado string, item int) domain.LicenseRecord {
	record := domain.LicenseRecord{
		ID:       uuid.New(),
		Radicado: radicado,
		Item:     item,
		Archivo:  "licencia.docx",
	}
	_ = record.SetFieldMap(map[string]string{domain.FieldMunicipio: "MEDELLIN"})
	return record
}

func newRecordRouter(repo *fakeRecordRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewRecordHandler(repo)
	r.GET("/records", h.List)
	r.GET("/records/export", h.Export)
	r.GET("/records/:radicado", h.GetByRadicado)
	return r
}

func TestListRecords(t *testing.T) {
	repo := &fakeRecordRepo{records: []domain.LicenseRecord{
		sampleRecord("2024001234", 1),
		sampleRecord("2024005678", 1),
	}}
	r := newRecordRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/records?offset=0&limit=10", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)
	assert.Contains(t, w.Body.String(), "2024001234")
}

func TestGetRecordsByRadicado(t *testing.T) {
	repo := &fakeRecordRepo{records: []domain.LicenseRecord{
		sampleRecord("2024001234", 1),
		sampleRecord("2024001234", 2),
		sampleRecord("2024005678", 1),
	}}
	r := newRecordRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/records/2024001234", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "2024005678")
}

func TestGetRecordsByRadicadoNotFound(t *testing.T) {
	r := newRecordRouter(&fakeRecordRepo{})

	req := httptest.NewRequest(http.MethodGet, "/records/999999", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "RECORD_NOT_FOUND")
}

func TestExportRecords(t *testing.T) {
	repo := &fakeRecordRepo{records: []domain.LicenseRecord{
		sampleRecord("2024001234", 1),
	}}
	r := newRecordRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/records/export", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(xlsxexport.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024001234", rows[1][0])
}
