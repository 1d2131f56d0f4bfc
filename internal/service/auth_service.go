package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/apperr"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/dal"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/models"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/otp"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/repository"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/security"
)

const (
	MsgPasswordMismatch  = "Password mismatch"
	MsgUnknownIdentifier = "Email/Mobile does not exist"
	MsgIncorrectPassword = "Incorrect password"
)

type AuthService struct {
	store    *dal.Store
	users    *repository.UserRepository
	otps     *otp.Service
	keys     *security.SessionKeyer
	tokens   *security.TokenIssuer
	sessions SessionStore
	hash     func(string) (string, error)
	log      zerolog.Logger
}

func NewAuthService(
	store *dal.Store,
	users *repository.UserRepository,
	otps *otp.Service,
	keys *security.SessionKeyer,
	tokens *security.TokenIssuer,
	sessions SessionStore,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		store:    store,
		users:    users,
		otps:     otps,
		keys:     keys,
		tokens:   tokens,
		sessions: sessions,
		hash:     security.HashPassword,
		log:      log,
	}
}

type SignupInput struct {
	Email           string
	Name            string
	Phone           string
	Otp             string
	Password        string
	ConfirmPassword string
}

type SignupData struct {
	Name  string `json:"name"`
	Key   string `json:"key"`
	Token string `json:"token"`
}

type LoginData struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

func (s *AuthService) SendSignupOtp(ctx context.Context, email string, phone string) (Reply, error) {
	if err := s.otps.Request(ctx, normalizeEmail(email), strings.TrimSpace(phone)); err != nil {
		return Reply{}, err
	}
	return Reply{Message: "OTP sent successfully."}, nil
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (Reply, error) {
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	if _, err := s.users.FindByEmailOrPhone(ctx, in.Email, in.Phone); err == nil {
		return Reply{}, apperr.BadRequest(otp.MsgInUse)
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return Reply{}, fmt.Errorf("check existing user: %w", err)
	}

	if _, err := s.otps.Verify(ctx, nil, in.Phone, in.Otp); err != nil {
		return Reply{}, err
	}

	if in.Password != in.ConfirmPassword {
		return Reply{}, apperr.BadRequest(MsgPasswordMismatch)
	}

	passwordHash, err := s.hash(in.Password)
	if err != nil {
		return Reply{}, err
	}

	var user models.User
	err = s.store.WithTx(ctx, func(tx dal.Querier) error {
		users := s.users.WithTx(tx)
		created, err := users.Create(ctx, repository.NewUser{
			Name:         strings.TrimSpace(in.Name),
			Email:        in.Email,
			Phone:        in.Phone,
			PasswordHash: passwordHash,
		})
		if err != nil {
			return err
		}
		if err := s.otps.Consume(ctx, tx, in.Phone); err != nil {
			return err
		}
		if err := users.TouchLastLogin(ctx, created.ID); err != nil {
			return err
		}
		user = created
		return nil
	})
	if err != nil {
		return Reply{}, err
	}

	key, token, err := s.startSession(ctx, user)
	if err != nil {
		return Reply{}, err
	}

	s.log.Info().Int64("user_id", user.ID).Msg("user signed up")
	return Reply{
		Message: "User Signup successful.",
		Data:    SignupData{Name: user.Name, Key: key, Token: token},
	}, nil
}

// Login accepts either the email or the phone number as username. Every
// successful login opens a new session.
func (s *AuthService) Login(ctx context.Context, username string, password string) (Reply, error) {
	username = strings.TrimSpace(username)
	user, err := s.users.FindByEmailOrPhone(ctx, normalizeEmail(username), username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return Reply{}, apperr.BadRequest(MsgUnknownIdentifier)
	}
	if err != nil {
		return Reply{}, fmt.Errorf("find user: %w", err)
	}

	if user.PasswordHash == nil {
		return Reply{}, apperr.BadRequest(MsgIncorrectPassword)
	}
	ok, err := security.VerifyPassword(password, *user.PasswordHash)
	if err != nil {
		return Reply{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return Reply{}, apperr.BadRequest(MsgIncorrectPassword)
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		return Reply{}, fmt.Errorf("touch last login: %w", err)
	}

	key, _, err := s.startSession(ctx, user)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Message: "login successful.", Data: LoginData{Name: user.Name, Key: key}}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionKey string) (Reply, error) {
	if err := s.sessions.Revoke(ctx, sessionKey); err != nil {
		return Reply{}, err
	}
	return Reply{Message: "logout successful."}, nil
}

func (s *AuthService) startSession(ctx context.Context, user models.User) (string, string, error) {
	key, err := s.keys.Derive(user.Email)
	if err != nil {
		return "", "", fmt.Errorf("derive session key: %w", err)
	}

	details, err := s.tokens.Issue(security.UserClaims{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Phone: user.Phone,
	}, key)
	if err != nil {
		return "", "", fmt.Errorf("issue token: %w", err)
	}

	if err := s.sessions.Save(ctx, details.Session, details.Token, s.tokens.TTL()); err != nil {
		return "", "", err
	}
	return details.Session, details.Token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
