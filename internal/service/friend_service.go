package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/apperr"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/models"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/repository"
)

const (
	MsgRequestSent     = "Friend Request Sent"
	MsgRequestPending  = "Request Approval Pending"
	MsgNoRequest       = "No Request Exists"
	MsgRequestAccepted = "Request Accepted"
	MsgRequestDeclined = "Request Declined"
)

type FriendService struct {
	users    *repository.UserRepository
	requests *repository.RequestRepository
	log      zerolog.Logger
}

func NewFriendService(users *repository.UserRepository, requests *repository.RequestRepository, log zerolog.Logger) *FriendService {
	return &FriendService{users: users, requests: requests, log: log}
}

// Send opens a pending request from one user to another. Any existing request
// between the two, in either direction, is reported instead of duplicated.
func (s *FriendService) Send(ctx context.Context, from int64, to int64) (Reply, error) {
	if to <= 0 || to == from {
		return Reply{}, apperr.BadRequest(MsgInvalidUser)
	}
	if _, err := s.users.FindByID(ctx, to); errors.Is(err, repository.ErrUserNotFound) {
		return Reply{}, apperr.BadRequest(MsgInvalidUser)
	} else if err != nil {
		return Reply{}, fmt.Errorf("find recipient: %w", err)
	}

	_, err := s.requests.FindForPair(ctx, from, to)
	if err == nil {
		return Reply{Message: MsgRequestPending}, nil
	}
	if !errors.Is(err, repository.ErrRequestNotFound) {
		return Reply{}, fmt.Errorf("find request: %w", err)
	}

	if _, err := s.requests.Create(ctx, from, to); err != nil {
		if errors.Is(err, repository.ErrDuplicateRequest) {
			return Reply{Message: MsgRequestPending}, nil
		}
		return Reply{}, err
	}
	return Reply{Message: MsgRequestSent}, nil
}

// Respond accepts or declines the pending request that from sent to to.
func (s *FriendService) Respond(ctx context.Context, to int64, from int64, accept bool) (Reply, error) {
	req, err := s.requests.FindPending(ctx, from, to)
	if errors.Is(err, repository.ErrRequestNotFound) {
		return Reply{}, apperr.BadRequest(MsgNoRequest)
	}
	if err != nil {
		return Reply{}, fmt.Errorf("find request: %w", err)
	}

	status, msg := models.RequestDeclined, MsgRequestDeclined
	if accept {
		status, msg = models.RequestAccepted, MsgRequestAccepted
	}

	if err := s.requests.Resolve(ctx, req.ID, status); err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return Reply{}, apperr.BadRequest(MsgNoRequest)
		}
		return Reply{}, err
	}
	return Reply{Message: msg}, nil
}

func (s *FriendService) List(ctx context.Context, userID int64) (Reply, error) {
	friends, err := s.requests.Friends(ctx, userID)
	if err != nil {
		return Reply{}, fmt.Errorf("list friends: %w", err)
	}
	return Reply{Message: "Retrieved List", Data: friends}, nil
}
