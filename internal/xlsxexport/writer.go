package xlsxexport

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"radlic/internal/domain"
)

// SheetName is the worksheet that holds the license rows.
const SheetName = "LICENCIAS"

// ContentType is the MIME type of the produced workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// columns defines the header row: the composite row key first, then one
// column per canonical field, then the last-update timestamp.
var columns = func() []string {
	cols := []string{"RADICADO", "ITEM", "ARCHIVO"}
	for _, key := range domain.DocumentFieldKeys {
		if key == domain.FieldRadicado {
			continue
		}
		cols = append(cols, key)
	}
	return append(cols, "ACTUALIZADO")
}()

// Write renders records as an xlsx workbook and writes it to w. One row per
// record, ordered as given.
func Write(w io.Writer, records []domain.LicenseRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	if err := writeRow(f, 1, columns); err != nil {
		return err
	}
	for i := range records {
		if err := writeRow(f, i+2, recordToRow(&records[i])); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, row int, values []string) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("xlsx cell: %w", err)
		}
		if err := f.SetCellValue(SheetName, cell, value); err != nil {
			return fmt.Errorf("xlsx cell %s: %w", cell, err)
		}
	}
	return nil
}

// recordToRow converts one record to a row slice matching columns.
func recordToRow(record *domain.LicenseRecord) []string {
	fields := record.FieldMap()
	row := make([]string, 0, len(columns))
	row = append(row, record.Radicado, fmt.Sprintf("%d", record.Item), record.Archivo)
	for _, key := range domain.DocumentFieldKeys {
		if key == domain.FieldRadicado {
			continue
		}
		row = append(row, fields[key])
	}
	return append(row, record.UpdatedAt.Format(time.RFC3339))
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition. Replaces
// non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {sanitized_name}_{YYYY-MM-DD}.xlsx
func BuildFilename(name string) string {
	return fmt.Sprintf("%s_%s.xlsx", SanitizeFilename(name), time.Now().Format("2006-01-02"))
}
