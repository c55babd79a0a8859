package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"radlic/internal/domain"
	"radlic/internal/port"
)

type licenseRecordRepo struct {
	db *sqlx.DB
}

// NewLicenseRecordRepo creates a new PostgreSQL-backed LicenseRecordRepository.
func NewLicenseRecordRepo(db *sqlx.DB) port.LicenseRecordRepository {
	return &licenseRecordRepo{db: db}
}

// UpsertFillEmpty inserts the record or merges it into the existing row with
// the same (radicado, item, archivo) key. On merge, only empty cells of the
// stored field document are filled; values already present are never
// overwritten.
func (r *licenseRecordRepo) UpsertFillEmpty(ctx context.Context, record *domain.LicenseRecord) (*domain.LicenseRecord, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("licenseRecordRepo.UpsertFillEmpty begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing domain.LicenseRecord
	err = tx.GetContext(ctx, &existing,
		`SELECT * FROM license_records
		 WHERE radicado = $1 AND item = $2 AND archivo = $3
		 FOR UPDATE`,
		record.Radicado, record.Item, record.Archivo)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		now := time.Now().UTC()
		record.ID = uuid.New()
		record.CreatedAt = now
		record.UpdatedAt = now
		if len(record.Fields) == 0 {
			record.Fields = []byte("{}")
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO license_records
			 (id, radicado, item, archivo, fields, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			record.ID, record.Radicado, record.Item, record.Archivo,
			record.Fields, record.CreatedAt, record.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("licenseRecordRepo.UpsertFillEmpty insert: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("licenseRecordRepo.UpsertFillEmpty commit: %w", err)
		}
		return record, nil

	case err != nil:
		return nil, fmt.Errorf("licenseRecordRepo.UpsertFillEmpty select: %w", err)
	}

	merged := existing.FieldMap()
	changed := false
	for key, value := range record.FieldMap() {
		if value == "" || merged[key] != "" {
			continue
		}
		merged[key] = value
		changed = true
	}
	if changed {
		if err := existing.SetFieldMap(merged); err != nil {
			return nil, fmt.Errorf("licenseRecordRepo.UpsertFillEmpty encode: %w", err)
		}
		existing.UpdatedAt = time.Now().UTC()
		_, err = tx.ExecContext(ctx,
			`UPDATE license_records SET fields = $1, updated_at = $2 WHERE id = $3`,
			existing.Fields, existing.UpdatedAt, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("licenseRecordRepo.UpsertFillEmpty update: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("licenseRecordRepo.UpsertFillEmpty commit: %w", err)
	}
	return &existing, nil
}

func (r *licenseRecordRepo) GetByKey(ctx context.Context, radicado string, item int, archivo string) (*domain.LicenseRecord, error) {
	var record domain.LicenseRecord
	err := r.db.GetContext(ctx, &record,
		"SELECT * FROM license_records WHERE radicado = $1 AND item = $2 AND archivo = $3",
		radicado, item, archivo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("licenseRecordRepo.GetByKey: %w", err)
	}
	return &record, nil
}

func (r *licenseRecordRepo) ListByRadicado(ctx context.Context, radicado string) ([]domain.LicenseRecord, error) {
	var records []domain.LicenseRecord
	err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM license_records WHERE radicado = $1 ORDER BY item, archivo",
		radicado)
	if err != nil {
		return nil, fmt.Errorf("licenseRecordRepo.ListByRadicado: %w", err)
	}
	return records, nil
}

func (r *licenseRecordRepo) List(ctx context.Context, offset, limit int) ([]domain.LicenseRecord, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM license_records"); err != nil {
		return nil, 0, fmt.Errorf("licenseRecordRepo.List count: %w", err)
	}

	var records []domain.LicenseRecord
	err := r.db.SelectContext(ctx, &records,
		`SELECT * FROM license_records
		 ORDER BY radicado, item, archivo LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("licenseRecordRepo.List: %w", err)
	}
	return records, total, nil
}
