package repository

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadFirstPage(t *testing.T) {
	mock := newMock(t)

	// five messages exist; a limit of 2 on page 1 yields the two newest
	mock.ExpectQuery(threadQuery).
		WithArgs(int64(1), int64(2), 2, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "from_user", "to_user", "message", "created_at", "incoming"}).
			AddRow(int64(5), int64(2), int64(1), "fifth", t0.Add(4*time.Minute), 1).
			AddRow(int64(4), int64(1), int64(2), "fourth", t0.Add(3*time.Minute), 0))

	msgs, err := NewChatRepository(mock).Thread(context.Background(), 1, 2, 2, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "fifth", msgs[0].Message)
	assert.Equal(t, 1, msgs[0].Incoming)
	assert.Equal(t, 0, msgs[1].Incoming)
	assert.True(t, msgs[0].CreatedAt.After(msgs[1].CreatedAt))
}

func TestCreateChat(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery("INSERT INTO chats (from_user, message, to_user) VALUES ($1, $2, $3) RETURNING id, from_user, to_user, message, created_at").
		WithArgs(int64(1), "hi", int64(2)).
		WillReturnRows(pgxmock.NewRows(chatsTable.Columns).AddRow(int64(1), int64(1), int64(2), "hi", t0))

	c, err := NewChatRepository(mock).Create(context.Background(), 1, 2, "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi", c.Message)
}
