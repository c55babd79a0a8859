package port

import (
	"context"

	"radlic/internal/domain"
)

// LicenseRecordRepository defines the contract for license record persistence.
// The (radicado, item, archivo) triple identifies one row of the tabular
// store; UpsertFillEmpty implements the sheet semantics where existing
// non-empty cells are never overwritten.
type LicenseRecordRepository interface {
	UpsertFillEmpty(ctx context.Context, record *domain.LicenseRecord) (*domain.LicenseRecord, error)
	GetByKey(ctx context.Context, radicado string, item int, archivo string) (*domain.LicenseRecord, error)
	ListByRadicado(ctx context.Context, radicado string) ([]domain.LicenseRecord, error)
	List(ctx context.Context, offset, limit int) ([]domain.LicenseRecord, int, error)
}
