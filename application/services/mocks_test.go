package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"notemap-backend/application/ports"
	"notemap-backend/domain/core/entities"
)

type MockDriveMirror struct {
	mock.Mock
}

func (m *MockDriveMirror) Upsert(ctx context.Context, note *entities.Note, cred entities.DriveCredential) (ports.ExternalRef, error) {
	args := m.Called(ctx, note, cred)
	return args.Get(0).(ports.ExternalRef), args.Error(1)
}

func (m *MockDriveMirror) Delete(ctx context.Context, ref ports.ExternalRef, cred entities.DriveCredential) error {
	args := m.Called(ctx, ref, cred)
	return args.Error(0)
}

type MockGitHubMirror struct {
	mock.Mock
}

func (m *MockGitHubMirror) Upsert(ctx context.Context, note *entities.Note, cred entities.GitHubCredential, owner, repo string) (ports.ExternalRef, error) {
	args := m.Called(ctx, note, cred, owner, repo)
	return args.Get(0).(ports.ExternalRef), args.Error(1)
}

func (m *MockGitHubMirror) Delete(ctx context.Context, ref ports.ExternalRef, cred entities.GitHubCredential, owner, repo string) error {
	args := m.Called(ctx, ref, cred, owner, repo)
	return args.Error(0)
}

type MockTokenRefresher struct {
	mock.Mock
}

func (m *MockTokenRefresher) Refresh(ctx context.Context, cred entities.DriveCredential) (entities.DriveCredential, error) {
	args := m.Called(ctx, cred)
	return args.Get(0).(entities.DriveCredential), args.Error(1)
}

type MockOAuthExchanger struct {
	mock.Mock
}

func (m *MockOAuthExchanger) AuthURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockOAuthExchanger) Exchange(ctx context.Context, code string) (entities.DriveCredential, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(entities.DriveCredential), args.Error(1)
}

// fixedClock pins credential-expiry decisions in tests
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }
