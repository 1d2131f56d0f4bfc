package repository

import (
	"context"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/dal"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/models"
)

var chatsTable = dal.Table{
	Name:    "chats",
	Columns: []string{"id", "from_user", "to_user", "message", "created_at"},
}

const threadQuery = `
	SELECT c.id, c.from_user, c.to_user, c.message, c.created_at,
	       CASE WHEN c.from_user = $1 THEN 0 ELSE 1 END AS incoming
	FROM chats c
	WHERE (c.from_user = $1 AND c.to_user = $2) OR (c.from_user = $2 AND c.to_user = $1)
	ORDER BY c.created_at DESC, c.id DESC
	LIMIT $3 OFFSET $4
`

type ChatRepository struct {
	q dal.Querier
}

func NewChatRepository(q dal.Querier) *ChatRepository {
	return &ChatRepository{q: q}
}

func (r *ChatRepository) WithTx(tx dal.Querier) *ChatRepository {
	return &ChatRepository{q: tx}
}

func (r *ChatRepository) Create(ctx context.Context, from int64, to int64, message string) (models.Chat, error) {
	return dal.Insert[models.Chat](ctx, r.q, chatsTable, dal.Fields{
		"from_user": from,
		"to_user":   to,
		"message":   message,
	})
}

// Thread returns one page of the conversation between me and other, newest
// first, flagged relative to me.
func (r *ChatRepository) Thread(ctx context.Context, me int64, other int64, limit int, offset int) ([]models.ChatMessage, error) {
	return dal.Query[models.ChatMessage](ctx, r.q, threadQuery, me, other, limit, offset)
}
