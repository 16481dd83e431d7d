// Package contact takes storefront contact-form submissions.
package contact

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrNameRequired    = errors.New("name required")
	ErrPhoneRequired   = errors.New("phone required")
	ErrPhoneInvalid    = errors.New("phone number is not valid")
	ErrMessageRequired = errors.New("message required")
	ErrEmailInvalid    = errors.New("email address is not valid")
)

var (
	israeliPhone = regexp.MustCompile(`^0\d{9}$`)
	emailShape   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

type Message struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Phone     string    `bson:"phone" json:"phone"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	Message   string    `bson:"message" json:"message"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

type MessageRepository interface {
	Insert(ctx context.Context, msg *Message) (string, error)
}

type Service struct {
	repo MessageRepository
}

func NewService(repo MessageRepository) *Service {
	return &Service{repo: repo}
}

// Submit validates and stores a contact message, returning its id.
func (s *Service) Submit(ctx context.Context, msg *Message) (string, error) {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Phone = strings.TrimSpace(msg.Phone)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Message = strings.TrimSpace(msg.Message)

	if msg.Name == "" {
		return "", ErrNameRequired
	}
	if msg.Phone == "" {
		return "", ErrPhoneRequired
	}
	if !israeliPhone.MatchString(strings.ReplaceAll(msg.Phone, "-", "")) {
		return "", ErrPhoneInvalid
	}
	if msg.Message == "" {
		return "", ErrMessageRequired
	}
	if msg.Email != "" && !emailShape.MatchString(msg.Email) {
		return "", ErrEmailInvalid
	}

	msg.CreatedAt = time.Now()
	return s.repo.Insert(ctx, msg)
}
