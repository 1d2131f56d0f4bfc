package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/apperr"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/config"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/dal"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/media/sniffer"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/queue"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/repository"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/storage"
)

const (
	MsgInvalidUser   = "Invalid User_id"
	MsgProfileUpdate = "Error updating user details"
)

type ProfileService struct {
	store   *dal.Store
	users   *repository.UserRepository
	avatars *repository.AvatarRepository
	objects ObjectStore
	tasks   TaskQueue
	cfg     config.StorageConfig
	log     zerolog.Logger
}

func NewProfileService(
	store *dal.Store,
	users *repository.UserRepository,
	avatars *repository.AvatarRepository,
	objects ObjectStore,
	tasks TaskQueue,
	cfg config.StorageConfig,
	log zerolog.Logger,
) *ProfileService {
	return &ProfileService{
		store:   store,
		users:   users,
		avatars: avatars,
		objects: objects,
		tasks:   tasks,
		cfg:     cfg,
		log:     log,
	}
}

// Upload is an avatar file received with a profile update.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

type ProfileInput struct {
	Name   string
	Email  string
	Phone  string
	Avatar *Upload
}

type ProfileData struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Phone string  `json:"phone"`
	Email string  `json:"email"`
	URL   *string `json:"url"`
}

func (s *ProfileService) Get(ctx context.Context, userID int64) (Reply, error) {
	profile, err := s.users.Profile(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return Reply{}, apperr.BadRequest(MsgInvalidUser)
	}
	if err != nil {
		return Reply{}, fmt.Errorf("load profile: %w", err)
	}
	return Reply{Message: "User Data retrieved", Data: profile}, nil
}

// Update writes the profile fields and, when present, the new avatar in one
// transaction. An object uploaded by a transaction that did not commit is
// queued for removal, as is the avatar it replaced once the commit succeeds.
func (s *ProfileService) Update(ctx context.Context, userID int64, in ProfileInput) (Reply, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	var object *storage.Object
	if in.Avatar != nil {
		detected, head, err := sniffer.Detect(in.Avatar.Body)
		if errors.Is(err, sniffer.ErrUnknownType) {
			return Reply{}, apperr.Validation(apperr.FieldError{Field: "files", Message: "avatar must be a jpeg, png, gif or webp image"})
		}
		if err != nil {
			return Reply{}, fmt.Errorf("read avatar: %w", err)
		}
		object = &storage.Object{
			Key:         storage.AvatarKey(s.cfg.KeyPrefix, userID, in.Avatar.Filename),
			ContentType: detected.MIME,
			Size:        in.Avatar.Size,
			Body:        io.MultiReader(bytes.NewReader(head), in.Avatar.Body),
		}
	}

	var uploaded, previous string
	err := s.store.WithTx(ctx, func(tx dal.Querier) error {
		if err := s.users.WithTx(tx).UpdateProfile(ctx, userID, in.Name, in.Email, in.Phone); err != nil {
			return err
		}
		if object == nil {
			return nil
		}

		avatars := s.avatars.WithTx(tx)
		current, err := avatars.FindByUser(ctx, userID)
		switch {
		case err == nil:
			previous = current.ImageURL
		case !errors.Is(err, repository.ErrAvatarNotFound):
			return err
		}

		if err := s.objects.Put(ctx, *object); err != nil {
			return err
		}
		uploaded = object.Key

		_, err = avatars.Set(ctx, userID, object.Key)
		return err
	})
	if err != nil {
		if uploaded != "" {
			s.scheduleCleanup(ctx, uploaded)
		}
		return Reply{}, profileError(err)
	}

	if previous != "" && previous != uploaded {
		s.scheduleCleanup(ctx, previous)
	}

	data := ProfileData{ID: userID, Name: in.Name, Phone: in.Phone, Email: in.Email}
	if uploaded != "" {
		url := storage.PublicURL(s.cfg.CDNURL, uploaded)
		data.URL = &url
	}
	return Reply{Message: "User Data Updated", Data: data}, nil
}

func (s *ProfileService) scheduleCleanup(ctx context.Context, key string) {
	if _, err := s.tasks.Enqueue(ctx, queue.TaskAvatarCleanup, queue.AvatarCleanup{Key: key}); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("queue avatar cleanup")
	}
}

func profileError(err error) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return apperr.BadRequest(MsgInvalidUser)
	}
	if _, ok := apperr.From(err); ok {
		return err
	}
	wrapped := apperr.BadRequest(MsgProfileUpdate)
	wrapped.Err = err
	return wrapped
}
