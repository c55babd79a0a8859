package template

import (
	"errors"
	"fmt"
	"io/fs"

	"radlic/internal/docx"
	"radlic/internal/domain"
)

// GenerateFile renders the template at templatePath and writes the result to
// outputPath. A missing template is a fatal error for the caller; nothing is
// retried here.
func GenerateFile(templatePath, outputPath string, opts Options) error {
	doc, err := docx.Open(templatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, templatePath)
		}
		return err
	}
	Render(doc, opts)
	return doc.SaveAs(outputPath)
}
