package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/apperr"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/config"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/repository"
)

type ChatService struct {
	users    *repository.UserRepository
	requests *repository.RequestRepository
	chats    *repository.ChatRepository
	policy   *bluemonday.Policy
	cfg      config.ChatConfig
	log      zerolog.Logger
}

func NewChatService(
	users *repository.UserRepository,
	requests *repository.RequestRepository,
	chats *repository.ChatRepository,
	cfg config.ChatConfig,
	log zerolog.Logger,
) *ChatService {
	return &ChatService{
		users:    users,
		requests: requests,
		chats:    chats,
		policy:   bluemonday.StrictPolicy(),
		cfg:      cfg,
		log:      log,
	}
}

func (s *ChatService) Send(ctx context.Context, from int64, to int64, message string) (Reply, error) {
	text := strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(message)))
	if text == "" {
		return Reply{}, apperr.Validation(apperr.FieldError{Field: "message", Message: "message is required"})
	}
	if to <= 0 || to == from {
		return Reply{}, apperr.BadRequest(MsgInvalidUser)
	}

	if _, err := s.users.FindByID(ctx, to); errors.Is(err, repository.ErrUserNotFound) {
		return Reply{}, apperr.BadRequest(MsgInvalidUser)
	} else if err != nil {
		return Reply{}, fmt.Errorf("find recipient: %w", err)
	}

	if s.cfg.RequireFriendship {
		ok, err := s.requests.AreFriends(ctx, from, to)
		if err != nil {
			return Reply{}, fmt.Errorf("check friendship: %w", err)
		}
		if !ok {
			return Reply{}, apperr.BadRequest("You can only chat with friends")
		}
	}

	if _, err := s.chats.Create(ctx, from, to, text); err != nil {
		return Reply{}, err
	}
	return Reply{Message: "Chat Sent"}, nil
}

// Thread returns page (1-based) of the conversation, limit messages per page,
// newest first.
func (s *ChatService) Thread(ctx context.Context, from int64, to int64, limit int, page int) (Reply, error) {
	if to <= 0 {
		return Reply{}, apperr.BadRequest(MsgInvalidUser)
	}
	limit, offset := s.window(limit, page)

	msgs, err := s.chats.Thread(ctx, from, to, limit, offset)
	if err != nil {
		return Reply{}, fmt.Errorf("load chat: %w", err)
	}
	return Reply{Message: "Chat Retrieved", Data: msgs}, nil
}

func (s *ChatService) window(limit int, page int) (int, int) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if s.cfg.MaxLimit > 0 && limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}
