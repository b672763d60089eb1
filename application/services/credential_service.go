package services

import (
	"context"

	"go.uber.org/zap"

	"notemap-backend/application/ports"
	"notemap-backend/domain/core/entities"
	pkgerrors "notemap-backend/pkg/errors"
)

// CredentialService resolves stored provider credentials for a user,
// refreshing expiring Drive tokens before handing them out. GitHub tokens
// are long-lived and returned as stored.
type CredentialService struct {
	users     ports.UserRepository
	refresher ports.TokenRefresher
	exchanger ports.OAuthExchanger
	clock     ports.Clock
	logger    *zap.Logger
}

// NewCredentialService creates a credential service
func NewCredentialService(
	users ports.UserRepository,
	refresher ports.TokenRefresher,
	exchanger ports.OAuthExchanger,
	clock ports.Clock,
	logger *zap.Logger,
) *CredentialService {
	return &CredentialService{
		users:     users,
		refresher: refresher,
		exchanger: exchanger,
		clock:     clock,
		logger:    logger,
	}
}

// GetDriveCredential returns a usable Drive credential, performing at most
// one refresh exchange when the stored token is expired. A failed refresh
// keeps the stale credential in place.
func (s *CredentialService) GetDriveCredential(ctx context.Context, userID string) (entities.DriveCredential, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return entities.DriveCredential{}, err
	}

	cred := user.Drive()
	if cred == nil {
		return entities.DriveCredential{}, pkgerrors.NewNotConnectedError("drive")
	}

	if !cred.Expired(s.clock.Now()) {
		return *cred, nil
	}

	refreshed, err := s.refresher.Refresh(ctx, *cred)
	if err != nil {
		s.logger.Warn("drive token refresh failed",
			zap.String("userID", userID),
			zap.Error(err),
		)
		return entities.DriveCredential{}, pkgerrors.NewCredentialRefreshError("drive", err)
	}

	user.ConnectDrive(refreshed)
	if err := s.users.Save(ctx, user); err != nil {
		return entities.DriveCredential{}, err
	}

	s.logger.Info("refreshed drive credential", zap.String("userID", userID))
	return refreshed, nil
}

// GetGitHubCredential returns the stored GitHub token. There is no expiry or
// refresh step; validity is checked lazily by the first API call.
func (s *CredentialService) GetGitHubCredential(ctx context.Context, userID string) (entities.GitHubCredential, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return entities.GitHubCredential{}, err
	}

	cred := user.GitHub()
	if cred == nil {
		return entities.GitHubCredential{}, pkgerrors.NewNotConnectedError("github")
	}

	return *cred, nil
}

// DriveAuthURL produces the consent URL the client redirects the user to
func (s *CredentialService) DriveAuthURL(state string) string {
	return s.exchanger.AuthURL(state)
}

// ConnectDrive exchanges an authorization code and stores the credential
func (s *CredentialService) ConnectDrive(ctx context.Context, userID, code string) error {
	if code == "" {
		return pkgerrors.NewValidationError("authorization code is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	cred, err := s.exchanger.Exchange(ctx, code)
	if err != nil {
		return pkgerrors.NewExternalError("google oauth", err)
	}

	user.ConnectDrive(cred)
	return s.users.Save(ctx, user)
}

// ConnectGitHub stores a directly submitted personal access token
func (s *CredentialService) ConnectGitHub(ctx context.Context, userID, token string) error {
	if token == "" {
		return pkgerrors.NewValidationError("token is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	user.ConnectGitHub(entities.GitHubCredential{Token: token})
	return s.users.Save(ctx, user)
}

// Disconnect clears the stored credential for a provider
func (s *CredentialService) Disconnect(ctx context.Context, userID string, provider entities.Provider) error {
	if !provider.Valid() {
		return pkgerrors.NewValidationError("unknown provider")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	user.Disconnect(provider)
	return s.users.Save(ctx, user)
}

// Status reports which providers have a stored credential
func (s *CredentialService) Status(ctx context.Context, userID string) (map[string]bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return map[string]bool{
		string(entities.ProviderDrive):  user.Connected(entities.ProviderDrive),
		string(entities.ProviderGitHub): user.Connected(entities.ProviderGitHub),
	}, nil
}
