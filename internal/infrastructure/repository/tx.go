package repository

import (
	"context"
	"strings"

	domainRepo "github.com/sangkips/evdekor-api/internal/domain/repository"
	"gorm.io/gorm"
)

type ctxKey string

// txKey is the context key holding the active *gorm.DB transaction
const txKey ctxKey = "gorm_tx"

type transactor struct {
	db *gorm.DB
}

// NewTransactor creates a transactor backed by db
func NewTransactor(db *gorm.DB) domainRepo.Transactor {
	return &transactor{db: db}
}

// WithinTransaction runs fn inside a database transaction. Repositories called
// with the context passed to fn join that transaction; nested calls become
// savepoints.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return conn(ctx, t.db).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey, tx))
	})
}

// conn returns the transaction bound to ctx, or db when there is none
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// checkUpdated turns an update that matched no row into domainRepo.ErrNotFound.
// Some drivers report zero affected rows when the values did not change, so a
// zero count is confirmed with a lookup before it is treated as missing.
func checkUpdated(ctx context.Context, db *gorm.DB, res *gorm.DB, model any, id any) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := conn(ctx, db).Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return domainRepo.ErrNotFound
	}
	return nil
}

// likePattern builds a case-insensitive LIKE pattern for search terms
func likePattern(search string) string {
	return "%" + strings.ToLower(search) + "%"
}
