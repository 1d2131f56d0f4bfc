package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/dal"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

var usersTable = dal.Table{
	Name:    "users",
	Columns: []string{"id", "name", "email", "phone", "password_hash", "created_at", "updated_at", "last_log_in"},
}

const profileQuery = `
	SELECT u.id, u.name, u.phone, u.email,
	       CASE WHEN i.image_url IS NOT NULL THEN $2::text || i.image_url END AS url,
	       u.last_log_in
	FROM users u
	LEFT JOIN avatar_images i ON i.user_id = u.id
	WHERE u.id = $1
`

type NewUser struct {
	Name         string
	Email        string
	Phone        string
	PasswordHash string
}

type UserRepository struct {
	q      dal.Querier
	cdnURL string
	now    func() time.Time
}

func NewUserRepository(q dal.Querier, cdnURL string) *UserRepository {
	return &UserRepository{q: q, cdnURL: urlBase(cdnURL), now: time.Now}
}

func (r *UserRepository) WithTx(tx dal.Querier) *UserRepository {
	return &UserRepository{q: tx, cdnURL: r.cdnURL, now: r.now}
}

// FindByEmailOrPhone returns the first user owning either identifier.
func (r *UserRepository) FindByEmailOrPhone(ctx context.Context, email string, phone string) (models.User, error) {
	user, err := dal.FindOne[models.User](ctx, r.q, usersTable,
		dal.Or{dal.Eq{"email": email}, dal.Eq{"phone": phone}}, "id")
	return user, notFound(err, ErrUserNotFound)
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (models.User, error) {
	user, err := dal.FindOne[models.User](ctx, r.q, usersTable, dal.Eq{"id": id})
	return user, notFound(err, ErrUserNotFound)
}

func (r *UserRepository) Create(ctx context.Context, u NewUser) (models.User, error) {
	return dal.Insert[models.User](ctx, r.q, usersTable, dal.Fields{
		"name":          u.Name,
		"email":         u.Email,
		"phone":         u.Phone,
		"password_hash": u.PasswordHash,
	})
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, name string, email string, phone string) error {
	n, err := dal.Update(ctx, r.q, usersTable, dal.Fields{
		"name":       name,
		"email":      email,
		"phone":      phone,
		"updated_at": r.now(),
	}, dal.Eq{"id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := dal.Update(ctx, r.q, usersTable, dal.Fields{"last_log_in": r.now()}, dal.Eq{"id": id})
	return err
}

// Profile returns the user with the CDN URL of their avatar, if any.
func (r *UserRepository) Profile(ctx context.Context, id int64) (models.Profile, error) {
	rows, err := dal.Query[models.Profile](ctx, r.q, profileQuery, id, r.cdnURL)
	if err != nil {
		return models.Profile{}, err
	}
	if len(rows) == 0 {
		return models.Profile{}, ErrUserNotFound
	}
	return rows[0], nil
}

// urlBase makes cdnURL safe to prefix an object key with in SQL.
func urlBase(cdnURL string) string {
	if cdnURL == "" || strings.HasSuffix(cdnURL, "/") {
		return cdnURL
	}
	return cdnURL + "/"
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, dal.ErrNoRecord) {
		return sentinel
	}
	return err
}
