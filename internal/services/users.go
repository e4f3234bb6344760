package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"finbook/internal/core"
	"finbook/internal/restapi"
)

// ErrUserNotFound is returned when no stored user matches a lookup.
var ErrUserNotFound = errors.New("user not found")

// UserService reads user records. Authentication is out of scope; signing in
// only resolves which stored user the local session points at.
type UserService struct {
	api *restapi.Client
}

func NewUserService(api *restapi.Client) *UserService {
	return &UserService{api: api}
}

func (s *UserService) Get(ctx context.Context, id string) (core.User, error) {
	var u core.User
	if err := s.api.Get(ctx, restapi.Users+"/"+id, nil, &u); err != nil {
		return core.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (core.User, error) {
	q := url.Values{}
	q.Set("email", email)
	var users []core.User
	if err := s.api.Get(ctx, restapi.Users, q, &users); err != nil {
		return core.User{}, fmt.Errorf("find user by email: %w", err)
	}
	if len(users) == 0 {
		return core.User{}, ErrUserNotFound
	}
	return users[0], nil
}
