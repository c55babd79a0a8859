package domain

import "errors"

var (
	// ErrDocumentRead means a source or template file could not be opened or
	// is not a valid word-processing container. Fatal for the operation.
	ErrDocumentRead = errors.New("document cannot be read")
	// ErrTemplateNotFound means the generation template is missing on disk.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrMissingRequiredField means a required canonical field (e.g. the
	// radicado) was empty when generation was attempted.
	ErrMissingRequiredField = errors.New("required field is missing")
	// ErrRadicadoNotResolved means no radicado could be derived from a
	// document's filename or content during ingestion.
	ErrRadicadoNotResolved = errors.New("radicado could not be resolved")
	// ErrRecordNotFound means no license record matched the lookup.
	ErrRecordNotFound = errors.New("license record not found")
	// ErrUnsupportedFileType means an uploaded file is not a .docx document.
	ErrUnsupportedFileType = errors.New("unsupported file type")
)
