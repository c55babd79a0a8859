package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"radlic/internal/config"
	"radlic/internal/docx"
	"radlic/internal/domain"
	"radlic/internal/extract"
	"radlic/internal/naming"
	"radlic/internal/template"
	"radlic/internal/writeback"
)

// GenerateInput is the DTO for generating license documents from a populated
// field set.
type GenerateInput struct {
	Fields         map[string]string
	Equipment      []domain.EquipmentEntry
	SourceFilename string
	// OutputDir overrides the configured output directory when non-empty.
	OutputDir string
	// IncludeResolutionParagraph requests the clause superseding a previous
	// resolution. Dropped when the resolution fields are incomplete.
	IncludeResolutionParagraph bool
}

// GeneratedFile describes one document written by Generate.
type GeneratedFile struct {
	Path     string `json:"path"`
	Radicado string `json:"radicado"`
}

// UpdateSourceInput is the DTO for writing corrected values back into a
// source document.
type UpdateSourceInput struct {
	Path   string
	Fields map[string]string
}

// LicenseService defines the document extraction and generation contract.
type LicenseService interface {
	Extract(ctx context.Context, data []byte, filename string) (*domain.DocumentExtraction, error)
	Generate(ctx context.Context, input *GenerateInput) ([]GeneratedFile, error)
	UpdateSource(ctx context.Context, input *UpdateSourceInput) (int, error)
}

type licenseService struct {
	cfg  *config.IngestConfig
	dict *extract.Dictionary
}

// NewLicenseService creates a new LicenseService implementation.
func NewLicenseService(cfg *config.IngestConfig, dict *extract.Dictionary) LicenseService {
	return &licenseService{cfg: cfg, dict: dict}
}

// Extract parses a .docx held in memory and returns its canonical fields.
// When the document carries no RADICADO value, the filename and the document
// text are scanned for one.
func (s *licenseService) Extract(_ context.Context, data []byte, filename string) (*domain.DocumentExtraction, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".docx") {
		return nil, fmt.Errorf("licenseService.Extract %s: %w", filename, domain.ErrUnsupportedFileType)
	}

	doc, err := docx.OpenBytes(data)
	if err != nil {
		return nil, fmt.Errorf("licenseService.Extract %s: %w: %v", filename, domain.ErrDocumentRead, err)
	}

	result := extract.NewExtractor(s.dict).Extract(doc)
	if result.Fields[domain.FieldRadicado] == "" {
		if radicado := naming.ResolveRadicado(doc.Text(), filename); radicado != "" {
			result.Fields[domain.FieldRadicado] = radicado
		}
	}
	return result, nil
}

// Generate renders one license document per distinct equipment radicado.
// Usually that is a single file carrying every equipment block; when multiple
// equipment entries name different radicados, each entry gets its own file.
func (s *licenseService) Generate(_ context.Context, input *GenerateInput) ([]GeneratedFile, error) {
	fields := cloneFields(input.Fields)
	equipment := nonEmptyEquipment(input.Equipment)

	radicado := fields[domain.FieldRadicado]
	if radicado == "" && len(equipment) > 0 {
		radicado = equipment[0][domain.FieldRadicado]
		if radicado != "" {
			fields[domain.FieldRadicado] = radicado
		}
	}
	if radicado == "" {
		return nil, fmt.Errorf("licenseService.Generate: %w: RADICADO", domain.ErrMissingRequiredField)
	}

	if category := resolveCategory(fields, equipment); category != "" {
		fields[domain.FieldCategoria] = string(category)
	}

	if input.IncludeResolutionParagraph && !hasResolutionFields(fields) {
		log.Printf("generate %s: resolution fields incomplete, superseding paragraph will be omitted", radicado)
	}

	outputDir := input.OutputDir
	if outputDir == "" {
		outputDir = s.cfg.OutputDir
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("licenseService.Generate: %w", err)
	}

	entryRadicados := make([]string, len(equipment))
	distinct := make(map[string]int)
	for i, entry := range equipment {
		rad := entry[domain.FieldRadicado]
		if rad == "" {
			rad = radicado
		}
		entryRadicados[i] = rad
		distinct[rad]++
	}

	if len(equipment) > 1 && len(distinct) > 1 {
		return s.generateSplit(input, fields, equipment, entryRadicados, distinct, outputDir)
	}
	return s.generateSingle(input, fields, equipment, radicado, outputDir)
}

// generateSingle writes one license carrying every equipment block. The first
// entry's values are mirrored into the document-level fields so singular
// placeholders resolve.
func (s *licenseService) generateSingle(input *GenerateInput, fields map[string]string, equipment []domain.EquipmentEntry, radicado, outputDir string) ([]GeneratedFile, error) {
	if len(equipment) > 0 {
		overlayEquipment(fields, equipment[0])
	}

	outputPath := filepath.Join(outputDir, naming.BuildOutputName(input.SourceFilename, radicado, "")+".docx")
	err := template.GenerateFile(s.cfg.TemplatePath, outputPath, template.Options{
		Fields:                     fields,
		Equipment:                  equipment,
		IncludeResolutionParagraph: input.IncludeResolutionParagraph,
	})
	if err != nil {
		return nil, fmt.Errorf("licenseService.Generate: %w", err)
	}
	return []GeneratedFile{{Path: outputPath, Radicado: radicado}}, nil
}

// generateSplit writes one license per equipment entry. A numeric suffix
// disambiguates entries that share a radicado.
func (s *licenseService) generateSplit(input *GenerateInput, fields map[string]string, equipment []domain.EquipmentEntry, entryRadicados []string, distinct map[string]int, outputDir string) ([]GeneratedFile, error) {
	var outputs []GeneratedFile
	for i, entry := range equipment {
		entryFields := cloneFields(fields)
		overlayEquipment(entryFields, entry)
		entryFields[domain.FieldRadicado] = entryRadicados[i]
		if category := resolveCategory(entryFields, []domain.EquipmentEntry{entry}); category != "" {
			entryFields[domain.FieldCategoria] = string(category)
		}

		suffix := ""
		if distinct[entryRadicados[i]] > 1 {
			suffix = fmt.Sprintf("EQ%d", i+1)
		}
		outputPath := filepath.Join(outputDir, naming.BuildOutputName(input.SourceFilename, entryRadicados[i], suffix)+".docx")
		err := template.GenerateFile(s.cfg.TemplatePath, outputPath, template.Options{
			Fields:                     entryFields,
			Equipment:                  []domain.EquipmentEntry{entry},
			IncludeResolutionParagraph: input.IncludeResolutionParagraph,
		})
		if err != nil {
			return nil, fmt.Errorf("licenseService.Generate equipment %d: %w", i+1, err)
		}
		outputs = append(outputs, GeneratedFile{Path: outputPath, Radicado: entryRadicados[i]})
	}
	return outputs, nil
}

// UpdateSource writes corrected values back into the source document in place
// and returns how many entries changed.
func (s *licenseService) UpdateSource(_ context.Context, input *UpdateSourceInput) (int, error) {
	changed, err := writeback.ApplyFile(input.Path, input.Fields, s.dict)
	if err != nil {
		return 0, fmt.Errorf("licenseService.UpdateSource: %w", err)
	}
	return changed, nil
}

func cloneFields(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// nonEmptyEquipment drops entries with no values at all.
func nonEmptyEquipment(entries []domain.EquipmentEntry) []domain.EquipmentEntry {
	var out []domain.EquipmentEntry
	for _, entry := range entries {
		if !entry.IsEmpty() {
			out = append(out, entry)
		}
	}
	return out
}

// overlayEquipment copies an entry's non-empty values over the document-level
// field map.
func overlayEquipment(fields map[string]string, entry domain.EquipmentEntry) {
	for _, key := range domain.EquipmentFieldKeys {
		if value := entry[key]; value != "" {
			fields[key] = value
		}
	}
}

// resolveCategory tries the document-level category, then the equipment type
// and practice, then the first equipment entry.
func resolveCategory(fields map[string]string, equipment []domain.EquipmentEntry) domain.LicenseCategory {
	candidates := []string{
		fields[domain.FieldCategoria],
		fields[domain.FieldTipoEquipo],
		fields[domain.FieldPractica],
	}
	if len(equipment) > 0 {
		first := equipment[0]
		candidates = append(candidates,
			first[domain.FieldCategoria],
			first[domain.FieldTipoEquipo],
			first[domain.FieldPractica])
	}
	for _, text := range candidates {
		if text == "" {
			continue
		}
		if category := domain.LicenseCategoryFromText(text); category != "" {
			return category
		}
	}
	return ""
}

func hasResolutionFields(fields map[string]string) bool {
	for _, key := range []string{
		domain.FieldResolucion,
		domain.FieldDiaEmision,
		domain.FieldMesEmision,
		domain.FieldAnoEmision,
	} {
		if fields[key] == "" {
			return false
		}
	}
	return true
}
