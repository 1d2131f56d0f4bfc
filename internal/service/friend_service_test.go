package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/apperr"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/models"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/repository"
)

func newFriendService(t *testing.T) (*FriendService, pgxmock.PgxPoolIface) {
	mock := newMock(t)
	return NewFriendService(repository.NewUserRepository(mock, ""), repository.NewRequestRepository(mock, ""), zerolog.Nop()), mock
}

func expectUser(mock pgxmock.PgxPoolIface, id int64) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(userRow(id, "U", "u@wexa.io", "9", nil))
}

func TestSendThenReverseKeepsOneRow(t *testing.T) {
	svc, mock := newFriendService(t)
	ctx := context.Background()

	// A(1) -> B(2)
	expectUser(mock, 2)
	mock.ExpectQuery(regexp.QuoteMeta("FROM friend_requests WHERE ((from_user_id = $1 AND to_user_id = $2) OR (from_user_id = $3 AND to_user_id = $4))")).
		WithArgs(int64(1), int64(2), int64(2), int64(1)).
		WillReturnRows(pgxmock.NewRows(reqCols))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO friend_requests (from_user_id, status, to_user_id)")).
		WithArgs(int64(1), "pending", int64(2)).
		WillReturnRows(pgxmock.NewRows(reqCols).AddRow(int64(10), int64(1), int64(2), models.RequestPending, t0, t0))

	// B(2) -> A(1) finds the existing row and inserts nothing
	expectUser(mock, 1)
	mock.ExpectQuery(regexp.QuoteMeta("FROM friend_requests WHERE")).
		WithArgs(int64(2), int64(1), int64(1), int64(2)).
		WillReturnRows(pgxmock.NewRows(reqCols).AddRow(int64(10), int64(1), int64(2), models.RequestPending, t0, t0))

	reply, err := svc.Send(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, MsgRequestSent, reply.Message)

	reply, err = svc.Send(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, MsgRequestPending, reply.Message)
}

func TestSendRacingInsertReportsPending(t *testing.T) {
	svc, mock := newFriendService(t)

	expectUser(mock, 2)
	mock.ExpectQuery(regexp.QuoteMeta("FROM friend_requests WHERE")).
		WillReturnRows(pgxmock.NewRows(reqCols))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO friend_requests")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "friend_requests_pair_uniq"})

	reply, err := svc.Send(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, MsgRequestPending, reply.Message)
}

func TestSendRejectsInvalidTargets(t *testing.T) {
	svc, mock := newFriendService(t)

	_, err := svc.Send(context.Background(), 1, 1)
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))

	_, err = svc.Send(context.Background(), 1, 0)
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows(userCols))
	_, err = svc.Send(context.Background(), 1, 99)
	require.Error(t, err)
	assert.Equal(t, MsgInvalidUser, err.Error())
}

func TestRespondWithoutRequest(t *testing.T) {
	svc, mock := newFriendService(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM friend_requests WHERE (from_user_id = $1 AND status = $2 AND to_user_id = $3)")).
		WithArgs(int64(1), "pending", int64(2)).
		WillReturnRows(pgxmock.NewRows(reqCols))

	_, err := svc.Respond(context.Background(), 2, 1, true)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
	assert.Equal(t, MsgNoRequest, err.Error())
}

func TestRespond(t *testing.T) {
	tests := []struct {
		accept     bool
		wantStatus string
		wantMsg    string
	}{
		{true, "accepted", MsgRequestAccepted},
		{false, "declined", MsgRequestDeclined},
	}

	for _, tt := range tests {
		t.Run(tt.wantStatus, func(t *testing.T) {
			svc, mock := newFriendService(t)

			mock.ExpectQuery(regexp.QuoteMeta("FROM friend_requests WHERE")).
				WithArgs(int64(1), "pending", int64(2)).
				WillReturnRows(pgxmock.NewRows(reqCols).AddRow(int64(10), int64(1), int64(2), models.RequestPending, t0, t0))
			mock.ExpectExec(regexp.QuoteMeta("UPDATE friend_requests SET status = $1, updated_at = $2 WHERE (id = $3 AND status = $4)")).
				WithArgs(tt.wantStatus, pgxmock.AnyArg(), int64(10), "pending").
				WillReturnResult(pgxmock.NewResult("UPDATE", 1))

			reply, err := svc.Respond(context.Background(), 2, 1, tt.accept)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMsg, reply.Message)
		})
	}
}

func TestRespondLostRace(t *testing.T) {
	svc, mock := newFriendService(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM friend_requests WHERE")).
		WillReturnRows(pgxmock.NewRows(reqCols).AddRow(int64(10), int64(1), int64(2), models.RequestPending, t0, t0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE friend_requests")).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	_, err := svc.Respond(context.Background(), 2, 1, true)
	require.Error(t, err)
	assert.Equal(t, MsgNoRequest, err.Error())
}

func TestListFriends(t *testing.T) {
	svc, mock := newFriendService(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM friend_requests r")).
		WithArgs(int64(1), "").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "phone", "email", "request_id", "updated_at", "url"}).
			AddRow(int64(2), "Ravi", "9000000002", "ravi@wexa.io", int64(10), t0, nil))

	reply, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Retrieved List", reply.Message)
	friends := reply.Data.([]models.Friend)
	require.Len(t, friends, 1)
	assert.Equal(t, "Ravi", friends[0].Name)
}
