package authz

import (
	"context"
	"database/sql"
	"sync/atomic"

	"gorm.io/gorm"
)

// commitPool hands out transactions that report their commit to the cache.
type commitPool struct {
	gorm.ConnPool
	cache *Cache
}

// BeginTx implements gorm.ConnPoolBeginner.
func (p *commitPool) BeginTx(ctx context.Context, opts *sql.TxOptions) (gorm.ConnPool, error) {
	var (
		tx  gorm.ConnPool
		err error
	)

	switch beginner := p.ConnPool.(type) {
	case gorm.TxBeginner:
		tx, err = beginner.BeginTx(ctx, opts)
	case gorm.ConnPoolBeginner:
		tx, err = beginner.BeginTx(ctx, opts)
	default:
		return nil, gorm.ErrInvalidTransaction
	}

	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &commitTx{ConnPool: tx, pool: p}, nil
}

// GetDBConn implements gorm.GetDBConnector so gorm.DB.DB keeps working.
func (p *commitPool) GetDBConn() (*sql.DB, error) {
	switch inner := p.ConnPool.(type) {
	case *sql.DB:
		return inner, nil
	case gorm.GetDBConnector:
		return inner.GetDBConn() //nolint:wrapcheck
	default:
		return nil, gorm.ErrInvalidDB
	}
}

// commitTx is a transaction that invalidates the cache once its writes are visible.
type commitTx struct {
	gorm.ConnPool
	pool  *commitPool
	dirty atomic.Bool
}

// Commit implements gorm.TxCommitter.
func (t *commitTx) Commit() error {
	committer, ok := t.ConnPool.(gorm.TxCommitter)
	if !ok {
		return gorm.ErrInvalidTransaction
	}

	err := committer.Commit()

	// a failed commit may still have applied, so drop the cache either way.
	if t.dirty.Load() {
		t.pool.cache.Invalidate()
	}

	return err //nolint:wrapcheck
}

// Rollback implements gorm.TxCommitter.
func (t *commitTx) Rollback() error {
	committer, ok := t.ConnPool.(gorm.TxCommitter)
	if !ok {
		return gorm.ErrInvalidTransaction
	}

	return committer.Rollback() //nolint:wrapcheck
}

// GetDBConn implements gorm.GetDBConnector.
func (t *commitTx) GetDBConn() (*sql.DB, error) {
	return t.pool.GetDBConn()
}
