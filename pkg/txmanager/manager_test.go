package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarketplaceService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MarketplaceService/pkg/pgerr"
)

type fakeTx struct {
	dbmetrics.DBExecutor
	commitErr  error
	committed  int
	rolledBack int
}

func (f *fakeTx) Commit() error {
	f.committed++
	return f.commitErr
}

func (f *fakeTx) Rollback() error {
	f.rolledBack++
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	beginErr error
	opts     []*sql.TxOptions
}

func (f *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	f.opts = append(f.opts, opts)
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.tx, nil
}

func TestTransactionManager_CommitOnSuccess(t *testing.T) {
	tx := &fakeTx{}
	db := &fakeBeginner{tx: tx}
	m := NewTransactionManager(db)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, tx.committed)
	assert.Equal(t, 0, tx.rolledBack)
	require.Len(t, db.opts, 1)
	assert.Equal(t, sql.LevelSerializable, db.opts[0].Isolation)
}

func TestTransactionManager_RollbackOnError(t *testing.T) {
	tx := &fakeTx{}
	m := NewTransactionManager(&fakeBeginner{tx: tx})
	fnErr := errors.New("insufficient balance")

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return fnErr
	})

	assert.ErrorIs(t, err, fnErr)
	assert.Equal(t, 0, tx.committed)
	assert.Equal(t, 1, tx.rolledBack)
}

func TestTransactionManager_NestedReusesOuterTx(t *testing.T) {
	tx := &fakeTx{}
	db := &fakeBeginner{tx: tx}
	m := NewTransactionManager(db)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return m.Do(ctx, func(ctx context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Len(t, db.opts, 1)
	assert.Equal(t, 1, tx.committed)
}

func TestTransactionManager_SerializationFailureOnCommit(t *testing.T) {
	tx := &fakeTx{commitErr: &pq.Error{Code: pgerr.CodeSerializationFailure}}
	m := NewTransactionManager(&fakeBeginner{tx: tx})

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error { return nil })

	assert.ErrorIs(t, err, ErrSerialization)
}

func TestTransactionManager_BeginError(t *testing.T) {
	m := NewTransactionManager(&fakeBeginner{beginErr: errors.New("conn refused")})

	err := m.Do(context.Background(), func(ctx context.Context) error {
		t.Fatal("fn must not be called")
		return nil
	})

	assert.ErrorIs(t, err, ErrBeginTx)
}
