package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/models"
)

const selectRequests = "SELECT id, from_user_id, to_user_id, status, created_at, updated_at FROM friend_requests"

func requestRows() *pgxmock.Rows {
	return pgxmock.NewRows(requestsTable.Columns)
}

func TestFindForPairMatchesEitherDirection(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(selectRequests+" WHERE ((from_user_id = $1 AND to_user_id = $2) OR (from_user_id = $3 AND to_user_id = $4)) LIMIT 1").
		WithArgs(int64(2), int64(1), int64(1), int64(2)).
		WillReturnRows(requestRows().AddRow(int64(10), int64(1), int64(2), models.RequestPending, t0, t0))

	req, err := NewRequestRepository(mock, "").FindForPair(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), req.FromUserID)
	assert.Equal(t, models.RequestPending, req.Status)
}

func TestCreateRequestDuplicatePair(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery("INSERT INTO friend_requests (from_user_id, status, to_user_id) VALUES ($1, $2, $3) RETURNING id, from_user_id, to_user_id, status, created_at, updated_at").
		WithArgs(int64(2), "pending", int64(1)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "friend_requests_pair_uniq"})

	_, err := NewRequestRepository(mock, "").Create(context.Background(), 2, 1)
	assert.ErrorIs(t, err, ErrDuplicateRequest)
}

func TestResolveOnlyPending(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"pending row moves", 1, nil},
		{"terminal row untouched", 0, ErrRequestNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectExec("UPDATE friend_requests SET status = $1, updated_at = $2 WHERE (id = $3 AND status = $4)").
				WithArgs("accepted", t0, int64(10), "pending").
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))

			repo := NewRequestRepository(mock, "")
			repo.now = fixedAt
			err := repo.Resolve(context.Background(), 10, models.RequestAccepted)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestAreFriends(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(selectRequests+" WHERE (((from_user_id = $1 AND to_user_id = $2) OR (from_user_id = $3 AND to_user_id = $4)) AND status = $5) LIMIT 1").
		WithArgs(int64(1), int64(2), int64(2), int64(1), "accepted").
		WillReturnRows(requestRows())

	ok, err := NewRequestRepository(mock, "").AreFriends(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFriends(t *testing.T) {
	mock := newMock(t)
	cdn := "https://cdn.wexa.io/"

	mock.ExpectQuery(friendsQuery).
		WithArgs(int64(1), cdn).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "phone", "email", "request_id", "updated_at", "url"}).
			AddRow(int64(2), "Ravi", "9000000002", "ravi@wexa.io", int64(10), t0, nil).
			AddRow(int64(3), "Meera", "9000000003", "meera@wexa.io", int64(11), t0, strPtr(cdn+"wexa/3/dp/m.png")))

	friends, err := NewRequestRepository(mock, cdn).Friends(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, friends, 2)
	assert.Nil(t, friends[0].URL)
	assert.Equal(t, int64(11), friends[1].RequestID)
}
