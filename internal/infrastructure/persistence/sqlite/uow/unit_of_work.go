package uow

import (
	"context"

	"gorm.io/gorm"

	"searchreview/internal/ports"
)

// UnitOfWork implements ports.UnitOfWork on top of gorm transactions.
// SQLite runs each transaction against a single snapshot, which is what the
// dashboard reads rely on.
type UnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ports.WithTxContext(ctx, tx))
	})
}
