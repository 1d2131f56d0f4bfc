package repository

import (
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0      = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	fixedAt = func() time.Time { return t0 }
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func userRows() *pgxmock.Rows {
	return pgxmock.NewRows(usersTable.Columns)
}

func strPtr(s string) *string { return &s }
