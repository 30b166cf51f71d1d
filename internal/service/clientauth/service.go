// Package clientauth checks the shared client dashboard password.
package clientauth

import (
	"context"
	"errors"
	"strings"

	"missioncontrol/internal/model"
	"missioncontrol/internal/repository"
	"missioncontrol/pkg/metrics"
	"missioncontrol/pkg/util"

	"go.uber.org/zap"
)

// ErrInvalidCredentials covers an unknown slug, an unset password and a mismatch alike.
var ErrInvalidCredentials = errors.New("invalid password")

type CredentialStore interface {
	GetCredentials(ctx context.Context, slug string) (string, *string, error)
	SetPassword(ctx context.Context, id, hash string) error
}

type Service struct {
	store  CredentialStore
	logger *zap.Logger
}

func NewService(store CredentialStore, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Login returns the project id the session cookie should carry.
func (s *Service) Login(ctx context.Context, slug, password string) (string, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return "", model.Invalid("slug", "is required")
	}
	if password == "" {
		return "", model.Invalid("password", "is required")
	}

	id, stored, err := s.store.GetCredentials(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.IncrementClientLogin("failed")
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if stored == nil {
		metrics.IncrementClientLogin("failed")
		return "", ErrInvalidCredentials
	}

	ok, needsRehash := util.CheckPassword(password, *stored)
	if !ok {
		metrics.IncrementClientLogin("failed")
		s.logger.Info("Client login rejected", zap.String("client_slug", slug))
		return "", ErrInvalidCredentials
	}

	if needsRehash {
		if err := s.SetPassword(ctx, id, password); err != nil {
			s.logger.Warn("Failed to upgrade legacy client password", zap.String("project_id", id), zap.Error(err))
		}
	}

	metrics.IncrementClientLogin("success")
	s.logger.Info("Client login", zap.String("client_slug", slug), zap.String("project_id", id))
	return id, nil
}

// SetPassword stores a bcrypt hash of plain for the project.
func (s *Service) SetPassword(ctx context.Context, projectID, plain string) error {
	if plain == "" {
		return model.Invalid("password", "is required")
	}
	hash, err := util.HashPassword(plain)
	if err != nil {
		return err
	}
	return s.store.SetPassword(ctx, projectID, hash)
}
