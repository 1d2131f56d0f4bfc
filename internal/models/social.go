package models

import "time"

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestDeclined RequestStatus = "declined"
)

type FriendRequest struct {
	ID         int64         `db:"id"`
	FromUserID int64         `db:"from_user_id"`
	ToUserID   int64         `db:"to_user_id"`
	Status     RequestStatus `db:"status"`
	CreatedAt  time.Time     `db:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at"`
}

type Friend struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	Email     string    `db:"email" json:"email"`
	RequestID int64     `db:"request_id" json:"request_id"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	URL       *string   `db:"url" json:"url"`
}

type Chat struct {
	ID        int64     `db:"id" json:"id"`
	FromUser  int64     `db:"from_user" json:"from_user"`
	ToUser    int64     `db:"to_user" json:"to_user"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ChatMessage is a chat seen from one participant. Incoming is 0 for messages
// that participant sent and 1 for messages they received.
type ChatMessage struct {
	Chat
	Incoming int `db:"incoming" json:"incoming"`
}
