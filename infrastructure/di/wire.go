//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"notemap-backend/application/services"
	domainservices "notemap-backend/domain/services"
	"notemap-backend/infrastructure/config"
)

// InitializeContainer assembles the full application graph
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(
		ProvideLogger,
		ProvideAWSConfig,
		ProvideDynamoDBClient,
		ProvideNoteRepository,
		ProvideConnectionRepository,
		ProvideUserRepository,
		ProvideGoogleOAuth,
		domainservices.NewMarkdownRenderer,
		ProvideDriveMirror,
		ProvideGitHubMirror,
		ProvideCredentialService,
		ProvideSyncService,
		services.NewNoteService,
		services.NewConnectionService,
		services.NewTransferService,
		services.NewUserService,
		ProvideJWTValidator,
		ProvideRateLimiter,
		ProvideHandlers,
		ProvideRouter,
		wire.Struct(new(Container), "Config", "Logger", "Router"),
	)
	return nil, nil
}
