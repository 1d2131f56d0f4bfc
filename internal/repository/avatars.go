package repository

import (
	"context"
	"errors"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/dal"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/models"
)

var ErrAvatarNotFound = errors.New("avatar not found")

var avatarsTable = dal.Table{
	Name:    "avatar_images",
	Columns: []string{"id", "user_id", "image_url", "created_at", "updated_at"},
}

type AvatarRepository struct {
	q dal.Querier
}

func NewAvatarRepository(q dal.Querier) *AvatarRepository {
	return &AvatarRepository{q: q}
}

func (r *AvatarRepository) WithTx(tx dal.Querier) *AvatarRepository {
	return &AvatarRepository{q: tx}
}

func (r *AvatarRepository) FindByUser(ctx context.Context, userID int64) (models.AvatarImage, error) {
	img, err := dal.FindOne[models.AvatarImage](ctx, r.q, avatarsTable, dal.Eq{"user_id": userID})
	return img, notFound(err, ErrAvatarNotFound)
}

// Set points the user's avatar at key, creating the row on first upload.
func (r *AvatarRepository) Set(ctx context.Context, userID int64, key string) (models.AvatarImage, error) {
	return dal.Upsert[models.AvatarImage](ctx, r.q, avatarsTable,
		dal.Fields{"user_id": userID, "image_url": key},
		[]string{"user_id"},
		[]string{"image_url", "updated_at"},
	)
}
