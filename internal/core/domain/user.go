package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultUserName = "User"

var ErrIdentityIncomplete = fmt.Errorf("%w: user data missing from token", ErrInvalidInput)

// Identity is what the external identity provider asserts about the caller.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

type User struct {
	ID        string    `json:"id" db:"id" bson:"_id"`
	Subject   string    `json:"subject" db:"subject" bson:"subject"`
	Email     string    `json:"email" db:"email" bson:"email"`
	Name      string    `json:"name" db:"name" bson:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" bson:"updated_at"`
}

func NewUser(identity Identity) (*User, error) {
	subject := strings.TrimSpace(identity.Subject)
	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if subject == "" || email == "" {
		return nil, ErrIdentityIncomplete
	}

	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name = DefaultUserName
	}

	now := time.Now().UTC()
	return &User{
		ID:        uuid.NewString(),
		Subject:   subject,
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
