package services

import (
	"context"

	"notemap-backend/application/ports"
	"notemap-backend/domain/core/entities"
)

// UserService reads and writes per-user sync preferences
type UserService struct {
	users ports.UserRepository
}

// NewUserService creates a user service
func NewUserService(users ports.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetPreferences returns the caller's preferences
func (s *UserService) GetPreferences(ctx context.Context, userID string) (entities.Preferences, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return entities.Preferences{}, err
	}
	return user.Preferences(), nil
}

// UpdatePreferences replaces the caller's preferences
func (s *UserService) UpdatePreferences(ctx context.Context, userID string, prefs entities.Preferences) (entities.Preferences, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return entities.Preferences{}, err
	}

	if prefs.DefaultColor == "" {
		prefs.DefaultColor = entities.DefaultNoteColor
	}

	user.SetPreferences(prefs)
	if err := s.users.Save(ctx, user); err != nil {
		return entities.Preferences{}, err
	}

	return user.Preferences(), nil
}
