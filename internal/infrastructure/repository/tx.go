package repository

import (
	"context"

	"gorm.io/gorm"

	domainRepo "github.com/dentiq/dentiq-api/internal/domain/repository"
)

type txCtxKey struct{}

// withTx stores the transaction handle in the context so repository calls
// made during a TxManager.Do closure join the same transaction
func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txCtxKey{}, tx)
}

// dbFrom returns the transaction from the context if one is in flight,
// otherwise the fallback connection
func dbFrom(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txCtxKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}

type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a TxManager backed by gorm transactions
func NewTxManager(db *gorm.DB) domainRepo.TxManager {
	return &txManager{db: db}
}

func (m *txManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	// Nested calls run as a savepoint on the outer transaction. Postgres
	// rejects every statement after a failed one until a rollback, so a
	// caller that wants to recover from a statement error (the receipt
	// insert retry) must scope that statement to its own savepoint.
	if tx, ok := ctx.Value(txCtxKey{}).(*gorm.DB); ok && tx != nil {
		return tx.Transaction(func(inner *gorm.DB) error {
			return fn(withTx(ctx, inner))
		})
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
}
