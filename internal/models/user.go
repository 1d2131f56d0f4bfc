package models

import "time"

type User struct {
	ID           int64      `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	Phone        string     `db:"phone" json:"phone"`
	PasswordHash *string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	LastLogIn    *time.Time `db:"last_log_in" json:"last_log_in"`
}

// Profile is a user joined with the public URL of their avatar.
type Profile struct {
	ID        int64      `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Phone     string     `db:"phone" json:"phone"`
	Email     string     `db:"email" json:"email"`
	URL       *string    `db:"url" json:"url"`
	LastLogIn *time.Time `db:"last_log_in" json:"last_log_in"`
}

type SignupOtp struct {
	ID        int64     `db:"id"`
	Phone     string    `db:"phone"`
	Otp       string    `db:"otp"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type AvatarImage struct {
	ID     int64 `db:"id"`
	UserID int64 `db:"user_id"`
	// ImageURL holds the object key; the public URL is the CDN base plus the key.
	ImageURL  string    `db:"image_url"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
