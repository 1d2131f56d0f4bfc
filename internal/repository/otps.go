package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/dal"
	"github.com/shrestaRongali/wexa-wexa-backend/internal/models"
)

var ErrOtpNotFound = errors.New("otp not found")

var otpsTable = dal.Table{
	Name:    "signup_otps",
	Columns: []string{"id", "phone", "otp", "created_at", "updated_at"},
}

type OtpRepository struct {
	q dal.Querier
}

func NewOtpRepository(q dal.Querier) *OtpRepository {
	return &OtpRepository{q: q}
}

func (r *OtpRepository) WithTx(tx dal.Querier) *OtpRepository {
	return &OtpRepository{q: tx}
}

func (r *OtpRepository) Create(ctx context.Context, phone string, code string) (models.SignupOtp, error) {
	return dal.Insert[models.SignupOtp](ctx, r.q, otpsTable, dal.Fields{"phone": phone, "otp": code})
}

// FindMatch returns the newest row for phone and code. A non-zero notBefore
// also requires the row to have been created at or after it.
func (r *OtpRepository) FindMatch(ctx context.Context, phone string, code string, notBefore time.Time) (models.SignupOtp, error) {
	where := dal.And{dal.Eq{"phone": phone, "otp": code}}
	if !notBefore.IsZero() {
		where = append(where, dal.Gte{"created_at": notBefore})
	}
	otp, err := dal.FindOne[models.SignupOtp](ctx, r.q, otpsTable, where, "created_at DESC")
	return otp, notFound(err, ErrOtpNotFound)
}

func (r *OtpRepository) DeleteByPhone(ctx context.Context, phone string) (int64, error) {
	res, err := dal.Delete(ctx, r.q, otpsTable, dal.Eq{"phone": phone})
	return res.RowsDeleted, err
}

func (r *OtpRepository) DeleteCreatedBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := dal.Delete(ctx, r.q, otpsTable, dal.Raw{SQL: "created_at < ?", Args: []any{before}})
	return res.RowsDeleted, err
}
