package service

import (
	"context"
	"strings"

	apperrors "github.com/wanderlist/wanderlist/internal/platform/errors"
	"github.com/wanderlist/wanderlist/internal/storage"
)

// RegisterUser upserts a directory entry. The directory is the existence
// oracle consulted before trips are created or invitations issued; identity
// verification happens upstream.
func (s *Service) RegisterUser(ctx context.Context, id, displayName, email string) (storage.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.User{}, apperrors.New(apperrors.CodeMalformedRequest, "user id is required")
	}

	now := s.clock().UTC()
	u := storage.User{
		ID:          id,
		DisplayName: strings.TrimSpace(displayName),
		Email:       strings.TrimSpace(email),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if existing, err := s.stores.Users.GetUser(ctx, id); err == nil {
		u.CreatedAt = existing.CreatedAt
	}
	if err := s.stores.Users.PutUser(ctx, u); err != nil {
		return storage.User{}, err
	}
	return u, nil
}

// GetUser returns a directory entry.
func (s *Service) GetUser(ctx context.Context, id string) (storage.User, error) {
	return s.stores.Users.GetUser(ctx, id)
}
