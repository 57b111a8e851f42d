package services

import (
	"context"

	"github.com/google/uuid"
)

type UserSummary struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Age    *int      `json:"age,omitempty"`
	Email  string    `json:"email,omitempty"`
	Avatar string    `json:"avatar,omitempty"`
}

type AuthenticatedUser struct {
	UserSummary
	Token string `json:"token"`
}

type RegisterInput struct {
	Name     string
	Age      *int
	Email    string
	Password string
}

// UpdateUserInput carries a partial profile update; blank fields are ignored.
type UpdateUserInput struct {
	Name     string
	Age      *int
	Email    string
	Password string
	Avatar   string
}

// UserService defines the interface for user-related operations.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthenticatedUser, error)
	Login(ctx context.Context, email string, password string) (*AuthenticatedUser, error)
	GetUser(ctx context.Context, id uuid.UUID) (*UserSummary, error)
	ListUsers(ctx context.Context) ([]*UserSummary, error)
	UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// UserDirectory is the slice of the user service the post and feed cores
// consume: existence checks and author summaries, nothing else.
type UserDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	SummaryOf(ctx context.Context, id uuid.UUID) (*UserSummary, error)
}
