package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
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
	"radlic/internal/parser"
	"radlic/internal/port"
	"radlic/internal/xlsxexport"
)

// IngestResult describes the outcome of processing one source document.
type IngestResult struct {
	Radicado  string `json:"radicado"`
	Records   int    `json:"records"`
	FromCache bool   `json:"from_cache"`
	CachePath string `json:"cache_path"`
}

// IngestSummary aggregates a batch run.
type IngestSummary struct {
	Processed int `json:"processed"`
	Records   int `json:"records"`
	FromCache int `json:"from_cache"`
	Errors    int `json:"errors"`
}

// IngestService walks .docx sources, extracts license fields and syncs them
// into the record store.
type IngestService interface {
	ProcessFile(ctx context.Context, path string) (*IngestResult, error)
	ProcessDir(ctx context.Context, dir string) (*IngestSummary, error)
	ProcessBucket(ctx context.Context, bucket, prefix string) (*IngestSummary, error)
	SyncWorkbook(ctx context.Context, bucket, key string) error
}

type ingestService struct {
	cfg     *config.IngestConfig
	dict    *extract.Dictionary
	parser  port.DocumentParser // nil when AI fallback is disabled
	storage port.ObjectStorage  // nil when no bucket source is configured
	repo    port.LicenseRecordRepository
}

// NewIngestService creates a new IngestService implementation. aiParser and
// storage may be nil; the corresponding source or fallback is then skipped.
func NewIngestService(
	cfg *config.IngestConfig,
	dict *extract.Dictionary,
	aiParser port.DocumentParser,
	storage port.ObjectStorage,
	repo port.LicenseRecordRepository,
) IngestService {
	return &ingestService{cfg: cfg, dict: dict, parser: aiParser, storage: storage, repo: repo}
}

// cachedExtraction is the on-disk cache payload, one JSON file per
// radicado+content key. Persisting it lets re-runs skip the AI call.
type cachedExtraction struct {
	Fields    map[string]string       `json:"fields"`
	Equipment []domain.EquipmentEntry `json:"equipment"`
}

// aiFallbackKeys are the fields whose absence after structural extraction
// triggers the AI parser.
var aiFallbackKeys = []string{
	domain.FieldNombreSolicitante,
	domain.FieldNitCC,
	domain.FieldMunicipio,
	domain.FieldTipoSolicitud,
}

// ProcessFile ingests a single .docx from the local filesystem.
func (s *ingestService) ProcessFile(ctx context.Context, path string) (*IngestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingestService.ProcessFile: %w: %v", domain.ErrDocumentRead, err)
	}
	return s.processDocument(ctx, data, filepath.Base(path))
}

// ProcessDir ingests every .docx directly under dir. Individual failures are
// counted and logged, never abort the batch.
func (s *ingestService) ProcessDir(ctx context.Context, dir string) (*IngestSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ingestService.ProcessDir: %w", err)
	}

	summary := &IngestSummary{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".docx") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		result, err := s.ProcessFile(ctx, filepath.Join(dir, entry.Name()))
		s.tally(summary, entry.Name(), result, err)
	}
	s.logSummary(summary)
	return summary, nil
}

// ProcessBucket ingests every .docx object under bucket/prefix.
func (s *ingestService) ProcessBucket(ctx context.Context, bucket, prefix string) (*IngestSummary, error) {
	if s.storage == nil {
		return nil, errors.New("ingestService.ProcessBucket: no object storage configured")
	}
	objects, err := s.storage.List(ctx, bucket, prefix)
	if err != nil {
		return nil, fmt.Errorf("ingestService.ProcessBucket: %w", err)
	}

	summary := &IngestSummary{}
	for _, obj := range objects {
		if !strings.EqualFold(filepath.Ext(obj.Key), ".docx") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		data, err := s.storage.Download(ctx, bucket, obj.Key)
		if err != nil {
			s.tally(summary, obj.Key, nil, err)
			continue
		}
		result, err := s.processDocument(ctx, data, filepath.Base(obj.Key))
		s.tally(summary, obj.Key, result, err)
	}
	s.logSummary(summary)
	return summary, nil
}

// syncBatchSize is the page size when reading records for a workbook sync.
const syncBatchSize = 500

// SyncWorkbook renders the full record set as an xlsx workbook and uploads it
// to bucket/key, giving operators a browsable copy next to the source inbox.
func (s *ingestService) SyncWorkbook(ctx context.Context, bucket, key string) error {
	if s.storage == nil {
		return errors.New("ingestService.SyncWorkbook: no object storage configured")
	}

	var all []domain.LicenseRecord
	for offset := 0; ; offset += syncBatchSize {
		batch, total, err := s.repo.List(ctx, offset, syncBatchSize)
		if err != nil {
			return fmt.Errorf("ingestService.SyncWorkbook: %w", err)
		}
		all = append(all, batch...)
		if len(batch) == 0 || len(all) >= total {
			break
		}
	}

	var buf bytes.Buffer
	if err := xlsxexport.Write(&buf, all); err != nil {
		return fmt.Errorf("ingestService.SyncWorkbook: %w", err)
	}

	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      bucket,
		Key:         key,
		Body:        &buf,
		ContentType: xlsxexport.ContentType,
	})
	if err != nil {
		return fmt.Errorf("ingestService.SyncWorkbook: %w", err)
	}
	log.Printf("ingest: workbook %s synced, %d row(s)", key, len(all))
	return nil
}

func (s *ingestService) tally(summary *IngestSummary, name string, result *IngestResult, err error) {
	if err != nil {
		summary.Errors++
		log.Printf("ingest %s: %v", name, err)
		return
	}
	summary.Processed++
	summary.Records += result.Records
	if result.FromCache {
		summary.FromCache++
	}
	log.Printf("ingest %s: radicado %s, %d record(s)", name, result.Radicado, result.Records)
}

func (s *ingestService) logSummary(summary *IngestSummary) {
	log.Printf("ingest summary: %d processed, %d records written, %d from cache, %d errors",
		summary.Processed, summary.Records, summary.FromCache, summary.Errors)
}

// processDocument runs the full pipeline for one in-memory document: resolve
// the radicado, reuse the extraction cache or extract (with AI fallback),
// expand one record per equipment entry and upsert each.
func (s *ingestService) processDocument(ctx context.Context, data []byte, filename string) (*IngestResult, error) {
	doc, err := docx.OpenBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentRead, err)
	}
	text := doc.Text()

	radicado := naming.ResolveRadicado(text, filename)
	if radicado == "" {
		return nil, fmt.Errorf("%s: %w", filename, domain.ErrRadicadoNotResolved)
	}

	cacheKey := fmt.Sprintf("%s__%s", radicado, contentKey(data))
	cached, cachePath, fromCache := s.loadCache(cacheKey)
	if !fromCache {
		cached = s.extract(ctx, doc, text, filename)
	}

	if cached.Fields == nil {
		cached.Fields = make(map[string]string)
	}
	if cached.Fields[domain.FieldRadicado] == "" {
		cached.Fields[domain.FieldRadicado] = radicado
	}

	if path, err := s.saveCache(cacheKey, cached); err != nil {
		log.Printf("ingest %s: cache write failed: %v", filename, err)
	} else {
		cachePath = path
	}

	records, err := s.upsertRecords(ctx, cached, radicado, filename)
	if err != nil {
		return nil, err
	}
	return &IngestResult{
		Radicado:  radicado,
		Records:   records,
		FromCache: fromCache,
		CachePath: cachePath,
	}, nil
}

// extract runs the structural extractor, then the AI parser when enabled and
// the structural pass left required fields empty. AI values fill only empty
// fields, never overwrite extracted ones.
func (s *ingestService) extract(ctx context.Context, doc *docx.Document, text, filename string) cachedExtraction {
	result := extract.NewExtractor(s.dict).Extract(doc)
	out := cachedExtraction{Fields: result.Fields, Equipment: result.Equipment}

	if !s.cfg.UseAI || s.parser == nil || !s.needsAI(out) {
		return out
	}

	parsed, err := s.parser.Parse(ctx, port.ParseInput{Text: text, Filename: filename})
	if err != nil {
		log.Printf("ingest %s: ai fallback failed: %v", filename, err)
		return out
	}
	for key, value := range parsed.Fields {
		if value != "" && out.Fields[key] == "" {
			out.Fields[key] = value
		}
	}
	if len(out.Equipment) == 0 {
		for _, raw := range parsed.Equipment {
			entry := domain.NewEquipmentEntry()
			for key, value := range raw {
				if canonical := parser.CanonicalEquipmentKey(key); canonical != "" {
					entry[canonical] = value
				}
			}
			if !entry.IsEmpty() {
				out.Equipment = append(out.Equipment, entry)
			}
		}
	}
	return out
}

func (s *ingestService) needsAI(extraction cachedExtraction) bool {
	if len(extraction.Equipment) == 0 {
		return true
	}
	for _, key := range aiFallbackKeys {
		if extraction.Fields[key] == "" {
			return true
		}
	}
	return false
}

// upsertRecords expands the extraction into one record per equipment entry
// (ITEM 1..N) and fills only empty cells of already-stored rows.
func (s *ingestService) upsertRecords(ctx context.Context, extraction cachedExtraction, radicado, filename string) (int, error) {
	equipment := extraction.Equipment
	if len(equipment) == 0 {
		equipment = []domain.EquipmentEntry{nil}
	}

	written := 0
	for i, entry := range equipment {
		rowFields := cloneFields(extraction.Fields)
		if entry != nil {
			overlayEquipment(rowFields, entry)
		}

		record := &domain.LicenseRecord{
			Radicado: radicado,
			Item:     i + 1,
			Archivo:  filename,
		}
		if err := record.SetFieldMap(rowFields); err != nil {
			return written, fmt.Errorf("ingestService record %d: %w", i+1, err)
		}
		if _, err := s.repo.UpsertFillEmpty(ctx, record); err != nil {
			return written, fmt.Errorf("ingestService record %d: %w", i+1, err)
		}
		written++
	}
	return written, nil
}

func (s *ingestService) loadCache(cacheKey string) (cachedExtraction, string, bool) {
	path := filepath.Join(s.cfg.CacheDir, cacheKey+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return cachedExtraction{}, "", false
	}
	var cached cachedExtraction
	if err := json.Unmarshal(data, &cached); err != nil {
		return cachedExtraction{}, "", false
	}
	return cached, path, true
}

func (s *ingestService) saveCache(cacheKey string, payload cachedExtraction) (string, error) {
	if err := os.MkdirAll(s.cfg.CacheDir, 0o755); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.cfg.CacheDir, cacheKey+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// contentKey derives the short content hash used in cache filenames.
func contentKey(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:4])
}
