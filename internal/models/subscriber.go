package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidPayload      = errors.New("invalid request payload")
	ErrDuplicateSubscriber = errors.New("this email is already subscribed")
)

// Subscriber is one newsletter sign-up. Email is unique across all subscribers.
type Subscriber struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubscribeRequest is the body posted by the newsletter form: { "data": { "email": "..." } }.
type SubscribeRequest struct {
	Data *SubscribeData `json:"data" binding:"required"`
}

type SubscribeData struct {
	Email string `json:"email" binding:"required,notblank,max=254,trimmed_email"`
}

func NewSubscriber(email string) *Subscriber {
	return &Subscriber{
		ID:        uuid.New(),
		Email:     NormalizeEmail(email),
		CreatedAt: time.Now().UTC(),
	}
}

// NormalizeEmail trims surrounding whitespace. Matching stays exact and case-sensitive.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// PersistenceError marks a storage fault that happened after the uniqueness
// checks passed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
