package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubTx struct {
	Tx
	open bool
}

func (s *stubTx) IsOpen() bool { return s.open }

type beginFailDB struct {
	DB
	calls int
}

func (f *beginFailDB) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	f.calls++
	return nil, errors.New("connection refused")
}

func TestGetTxReusesOpenTransaction(t *testing.T) {
	zapLogger, _ := zap.NewDevelopment()
	logger := zapadapter.NewZapEctoLogger(zapLogger, nil)

	existing := &stubTx{open: true}
	ctx := context.WithValue(context.Background(), txKey, Tx(existing))

	gotCtx, gotTx, err := GetTx(ctx, logger, nil, nil)
	require.NoError(t, err)
	assert.Same(t, Tx(existing), gotTx)
	assert.True(t, inherited(gotCtx))
}

func TestGetTxBeginsWhenCarriedTransactionIsClosed(t *testing.T) {
	zapLogger, _ := zap.NewDevelopment()
	logger := zapadapter.NewZapEctoLogger(zapLogger, nil)

	closed := &stubTx{open: false}
	ctx := context.WithValue(context.Background(), txKey, Tx(closed))

	db := &beginFailDB{}
	_, _, err := GetTx(ctx, logger, db, nil)
	require.Error(t, err)
	assert.Equal(t, 1, db.calls)
	assert.EqualError(t, err, "error while beginning transaction")
}

func TestInheritedContextDoesNotEndTransaction(t *testing.T) {
	zapLogger, _ := zap.NewDevelopment()
	logger := zapadapter.NewZapEctoLogger(zapLogger, nil)

	// The nested caller's context carries the inherited marker; its Commit
	// and Rollback must leave the transaction open for the owner.
	tx := NewTx(nil, logger)
	ctx := context.WithValue(context.Background(), txStatusKey, txStatusInherited)

	require.NoError(t, tx.Commit(ctx))
	assert.True(t, tx.IsOpen())

	require.NoError(t, tx.Rollback(ctx))
	assert.True(t, tx.IsOpen())
}

func TestClosedTransactionIsIdempotent(t *testing.T) {
	zapLogger, _ := zap.NewDevelopment()
	logger := zapadapter.NewZapEctoLogger(zapLogger, nil)

	tx := &Transaction{logger: logger, isClosed: true}

	require.NoError(t, tx.Commit(context.Background()))
	require.NoError(t, tx.Rollback(context.Background()))
	assert.False(t, tx.IsOpen())
}
