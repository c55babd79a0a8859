package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"radlic/internal/port"
	"radlic/internal/xlsxexport"
)

// exportBatchLimit bounds how many records one export pulls from the store.
const exportBatchLimit = 10000

// RecordHandler handles license record listing and export endpoints.
type RecordHandler struct {
	repo port.LicenseRecordRepository
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(repo port.LicenseRecordRepository) *RecordHandler {
	return &RecordHandler{repo: repo}
}

// List handles GET /api/v1/records with offset/limit pagination.
func (h *RecordHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if offset < 0 {
		offset = 0
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	records, total, err := h.repo.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, records, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByRadicado handles GET /api/v1/records/:radicado. Returns every row of
// one filing, one per device and source file.
func (h *RecordHandler) GetByRadicado(c *gin.Context) {
	radicado := c.Param("radicado")

	records, err := h.repo.ListByRadicado(c.Request.Context(), radicado)
	if err != nil {
		HandleError(c, err)
		return
	}
	if len(records) == 0 {
		RespondError(c, http.StatusNotFound, "RECORD_NOT_FOUND", "license record not found")
		return
	}
	RespondOK(c, records)
}

// Export handles GET /api/v1/records/export. Streams the full record set as
// an xlsx workbook download.
func (h *RecordHandler) Export(c *gin.Context) {
	records, _, err := h.repo.List(c.Request.Context(), 0, exportBatchLimit)
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := xlsxexport.Write(&buf, records); err != nil {
		HandleError(c, err)
		return
	}

	filename := xlsxexport.BuildFilename("licencias")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxexport.ContentType, buf.Bytes())
}
