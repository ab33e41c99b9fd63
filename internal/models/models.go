package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                  int64
	Username            string
	Email               string
	PassHash            []byte
	VerifyCode          string
	VerifyCodeExpiry    time.Time
	IsVerified          bool
	IsAcceptingMessages bool
	CreatedAt           time.Time
}

// Message is an anonymous note in a user's inbox.
// It intentionally has no field referring to whoever sent it.
type Message struct {
	ID        uuid.UUID `json:"_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Claims is the set of user facts cached inside a session token.
// IsAcceptingMessages is a login-time snapshot and must not be used for decisions.
type Claims struct {
	UserID              int64  `json:"_id"`
	Username            string `json:"username"`
	IsVerified          bool   `json:"isVerified"`
	IsAcceptingMessages bool   `json:"isAcceptingMessages"`
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	Claims    Claims
}

// PublicUser is the owner-facing view of a user record.
type PublicUser struct {
	ID                  int64     `json:"_id"`
	Username            string    `json:"username"`
	Email               string    `json:"email"`
	IsVerified          bool      `json:"isVerified"`
	IsAcceptingMessages bool      `json:"isAcceptingMessages"`
	CreatedAt           time.Time `json:"createdAt"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:                  u.ID,
		Username:            u.Username,
		Email:               u.Email,
		IsVerified:          u.IsVerified,
		IsAcceptingMessages: u.IsAcceptingMessages,
		CreatedAt:           u.CreatedAt,
	}
}

func (u User) Claims() Claims {
	return Claims{
		UserID:              u.ID,
		Username:            u.Username,
		IsVerified:          u.IsVerified,
		IsAcceptingMessages: u.IsAcceptingMessages,
	}
}

// * IsCodeExpired reports whether the verification code is past its expiry
func (u User) IsCodeExpired(now time.Time) bool {
	return now.After(u.VerifyCodeExpiry)
}

type EmailMessage struct {
	Email   string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
