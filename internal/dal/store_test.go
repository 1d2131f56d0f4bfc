package dal

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTxCommits(t *testing.T) {
	ctx := context.Background()
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE widgets SET name = $1 WHERE id = $2").
		WithArgs("cog", int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := NewStore(mock).WithTx(ctx, func(tx Querier) error {
		_, err := Update(ctx, tx, widgets, Fields{"name": "cog"}, Eq{"id": int64(1)})
		return err
	})
	require.NoError(t, err)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	mock := newMock(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := NewStore(mock).WithTx(ctx, func(tx Querier) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = NewStore(mock).WithTx(ctx, func(tx Querier) error {
			panic("kaboom")
		})
	})
}

func TestWithTxBeginFailure(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("pool closed"))

	called := false
	err := NewStore(mock).WithTx(context.Background(), func(tx Querier) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}
