// Package di wires the application graph. Providers are plain constructors;
// wire_gen.go assembles them into the container.
package di

import (
	"context"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	dynamodbsdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"notemap-backend/application/ports"
	"notemap-backend/application/services"
	domainservices "notemap-backend/domain/services"
	"notemap-backend/infrastructure/config"
	drivemirror "notemap-backend/infrastructure/mirrors/drive"
	githubmirror "notemap-backend/infrastructure/mirrors/github"
	"notemap-backend/infrastructure/oauth"
	dynamorepo "notemap-backend/infrastructure/persistence/dynamodb"
	"notemap-backend/interfaces/http/rest"
	"notemap-backend/interfaces/http/rest/handlers"
	"notemap-backend/pkg/auth"
)

// Version is stamped at build time via -ldflags
var Version = "dev"

// Container holds the assembled application
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	Router http.Handler
}

// ProvideLogger builds the process logger from configuration
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// ProvideAWSConfig loads the default AWS credential chain
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
}

// ProvideDynamoDBClient builds the DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *dynamodbsdk.Client {
	return dynamodbsdk.NewFromConfig(awsCfg)
}

// ProvideNoteRepository builds the DynamoDB note repository
func ProvideNoteRepository(client *dynamodbsdk.Client, cfg *config.Config, logger *zap.Logger) ports.NoteRepository {
	return dynamorepo.NewNoteRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideConnectionRepository builds the DynamoDB connection repository
func ProvideConnectionRepository(client *dynamodbsdk.Client, cfg *config.Config, logger *zap.Logger) ports.ConnectionRepository {
	return dynamorepo.NewConnectionRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideUserRepository builds the DynamoDB user repository
func ProvideUserRepository(client *dynamodbsdk.Client, cfg *config.Config, logger *zap.Logger) ports.UserRepository {
	return dynamorepo.NewUserRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideGoogleOAuth builds the Google OAuth client used for both the
// code exchange and token refresh flows
func ProvideGoogleOAuth(cfg *config.Config) *oauth.GoogleOAuth {
	return oauth.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
}

// ProvideDriveMirror builds the Drive mirror adapter
func ProvideDriveMirror(renderer *domainservices.MarkdownRenderer, logger *zap.Logger) ports.DriveMirror {
	return drivemirror.NewAdapter(renderer, logger)
}

// ProvideGitHubMirror builds the GitHub mirror adapter
func ProvideGitHubMirror(renderer *domainservices.MarkdownRenderer, logger *zap.Logger) ports.GitHubMirror {
	return githubmirror.NewAdapter(renderer, logger)
}

// ProvideCredentialService builds the credential service
func ProvideCredentialService(users ports.UserRepository, google *oauth.GoogleOAuth, logger *zap.Logger) *services.CredentialService {
	return services.NewCredentialService(users, google, google, ports.SystemClock{}, logger)
}

// ProvideSyncService builds the sync orchestrator
func ProvideSyncService(
	notes ports.NoteRepository,
	creds *services.CredentialService,
	drive ports.DriveMirror,
	github ports.GitHubMirror,
	cfg *config.Config,
	logger *zap.Logger,
) *services.SyncService {
	return services.NewSyncService(notes, creds, drive, github, cfg.SyncWorkers, logger)
}

// ProvideJWTValidator builds the bearer-token validator
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	return auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     cfg.JWTSecret,
		Issuer:        cfg.JWTIssuer,
	})
}

// ProvideRateLimiter builds the per-user request limiter
func ProvideRateLimiter(cfg *config.Config) *auth.RateLimiter {
	return auth.NewRateLimiter(cfg.RateLimitPerMinute)
}

// ProvideRouter assembles the HTTP surface
func ProvideRouter(
	h rest.Handlers,
	validator *auth.JWTValidator,
	limiter *auth.RateLimiter,
	cfg *config.Config,
	logger *zap.Logger,
) http.Handler {
	return rest.NewRouter(h, validator, limiter, cfg.AllowedOrigins, logger)
}

// ProvideHandlers groups the route handlers
func ProvideHandlers(
	notes *services.NoteService,
	connections *services.ConnectionService,
	sync *services.SyncService,
	transfer *services.TransferService,
	users *services.UserService,
	creds *services.CredentialService,
	logger *zap.Logger,
) rest.Handlers {
	return rest.Handlers{
		Notes:       handlers.NewNoteHandler(notes, logger),
		Connections: handlers.NewConnectionHandler(connections, logger),
		Sync:        handlers.NewSyncHandler(sync, logger),
		Transfer:    handlers.NewTransferHandler(transfer, logger),
		Preferences: handlers.NewPreferencesHandler(users, logger),
		Credentials: handlers.NewCredentialHandler(creds, logger),
		Health:      handlers.NewHealthHandler(Version, func() bool { return true }),
	}
}
