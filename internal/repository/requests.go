package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/apperr"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/dal"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/models"
)

var (
	ErrRequestNotFound  = errors.New("friend request not found")
	ErrDuplicateRequest = errors.New("friend request already exists for this pair")
)

var requestsTable = dal.Table{
	Name:        "friend_requests",
	Columns:     []string{"id", "from_user_id", "to_user_id", "status", "created_at", "updated_at"},
	Constraints: map[string]string{"friend_requests_pair_uniq": "request"},
}

const friendsQuery = `
	SELECT u.id, u.name, u.phone, u.email, r.id AS request_id, r.updated_at,
	       CASE WHEN i.image_url IS NOT NULL THEN $2::text || i.image_url END AS url
	FROM friend_requests r
	JOIN users u ON u.id = CASE WHEN r.from_user_id = $1 THEN r.to_user_id ELSE r.from_user_id END
	LEFT JOIN avatar_images i ON i.user_id = u.id
	WHERE r.status = 'accepted' AND (r.from_user_id = $1 OR r.to_user_id = $1)
	ORDER BY r.updated_at DESC
`

type RequestRepository struct {
	q      dal.Querier
	cdnURL string
	now    func() time.Time
}

func NewRequestRepository(q dal.Querier, cdnURL string) *RequestRepository {
	return &RequestRepository{q: q, cdnURL: urlBase(cdnURL), now: time.Now}
}

func (r *RequestRepository) WithTx(tx dal.Querier) *RequestRepository {
	return &RequestRepository{q: tx, cdnURL: r.cdnURL, now: r.now}
}

func pair(a int64, b int64) dal.Predicate {
	return dal.Or{
		dal.Eq{"from_user_id": a, "to_user_id": b},
		dal.Eq{"from_user_id": b, "to_user_id": a},
	}
}

// FindForPair returns the request between a and b in either direction.
func (r *RequestRepository) FindForPair(ctx context.Context, a int64, b int64) (models.FriendRequest, error) {
	req, err := dal.FindOne[models.FriendRequest](ctx, r.q, requestsTable, pair(a, b))
	return req, notFound(err, ErrRequestNotFound)
}

// FindPending returns the pending request sent by from to to.
func (r *RequestRepository) FindPending(ctx context.Context, from int64, to int64) (models.FriendRequest, error) {
	req, err := dal.FindOne[models.FriendRequest](ctx, r.q, requestsTable, dal.Eq{
		"from_user_id": from,
		"to_user_id":   to,
		"status":       string(models.RequestPending),
	})
	return req, notFound(err, ErrRequestNotFound)
}

func (r *RequestRepository) Create(ctx context.Context, from int64, to int64) (models.FriendRequest, error) {
	req, err := dal.Insert[models.FriendRequest](ctx, r.q, requestsTable, dal.Fields{
		"from_user_id": from,
		"to_user_id":   to,
		"status":       string(models.RequestPending),
	})
	if appErr, ok := apperr.From(err); ok && appErr.Kind == apperr.KindValidation &&
		len(appErr.Fields) > 0 && appErr.Fields[0].Field == "request" {
		return models.FriendRequest{}, ErrDuplicateRequest
	}
	return req, err
}

// Resolve moves a pending request to status. It reports ErrRequestNotFound
// when the request is no longer pending.
func (r *RequestRepository) Resolve(ctx context.Context, id int64, status models.RequestStatus) error {
	n, err := dal.Update(ctx, r.q, requestsTable,
		dal.Fields{"status": string(status), "updated_at": r.now()},
		dal.Eq{"id": id, "status": string(models.RequestPending)})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func (r *RequestRepository) AreFriends(ctx context.Context, a int64, b int64) (bool, error) {
	_, err := dal.FindOne[models.FriendRequest](ctx, r.q, requestsTable,
		dal.And{pair(a, b), dal.Eq{"status": string(models.RequestAccepted)}})
	if errors.Is(err, dal.ErrNoRecord) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *RequestRepository) Friends(ctx context.Context, userID int64) ([]models.Friend, error) {
	return dal.Query[models.Friend](ctx, r.q, friendsQuery, userID, r.cdnURL)
}
