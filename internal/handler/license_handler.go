package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"radlic/internal/domain"
	"radlic/internal/service"
)

// maxUploadBytes caps the size of an uploaded source document.
const maxUploadBytes = 20 << 20

// LicenseHandler handles document extraction, license generation and source
// writeback endpoints.
type LicenseHandler struct {
	licenseService service.LicenseService
}

// NewLicenseHandler creates a new LicenseHandler.
func NewLicenseHandler(licenseService service.LicenseService) *LicenseHandler {
	return &LicenseHandler{licenseService: licenseService}
}

// Extract handles POST /api/v1/documents/extract. Accepts a multipart .docx
// upload and returns its canonical fields, equipment entries and diagnostics.
func (h *LicenseHandler) Extract(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxUploadBytes {
		RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "READ_FAILED", "could not read uploaded file")
		return
	}

	result, err := h.licenseService.Extract(c.Request.Context(), data, header.Filename)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// GenerateRequest is the JSON body for POST /api/v1/licenses/generate.
type GenerateRequest struct {
	Fields                     map[string]string       `json:"fields" binding:"required"`
	Equipment                  []domain.EquipmentEntry `json:"equipment"`
	SourceFilename             string                  `json:"source_filename"`
	OutputDir                  string                  `json:"output_dir"`
	IncludeResolutionParagraph bool                    `json:"include_resolution_paragraph"`
}

// Generate handles POST /api/v1/licenses/generate.
func (h *LicenseHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body: "+err.Error())
		return
	}

	outputs, err := h.licenseService.Generate(c.Request.Context(), &service.GenerateInput{
		Fields:                     req.Fields,
		Equipment:                  req.Equipment,
		SourceFilename:             req.SourceFilename,
		OutputDir:                  req.OutputDir,
		IncludeResolutionParagraph: req.IncludeResolutionParagraph,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, gin.H{"files": outputs})
}

// UpdateSourceRequest is the JSON body for POST /api/v1/documents/update.
type UpdateSourceRequest struct {
	Path   string            `json:"path" binding:"required"`
	Fields map[string]string `json:"fields" binding:"required"`
}

// UpdateSource handles POST /api/v1/documents/update. Writes corrected values
// back into the source document in place.
func (h *LicenseHandler) UpdateSource(c *gin.Context) {
	var req UpdateSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body: "+err.Error())
		return
	}

	changed, err := h.licenseService.UpdateSource(c.Request.Context(), &service.UpdateSourceInput{
		Path:   req.Path,
		Fields: req.Fields,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"changed": changed})
}
