package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Authenticate(ctx context.Context, username, password string) (*Principal, error)
	GetUser(ctx context.Context, id snowflake.ID) (*User, error)
}

type RegisterRequest struct {
	Username string
	Email    string
	Password string
	Tier     Tier
}
