package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"notemap-backend/application/ports"
	"notemap-backend/domain/core/entities"
	pkgerrors "notemap-backend/pkg/errors"
)

const profileSK = "PROFILE"

// UserRepository implements ports.UserRepository. The profile item embeds
// credentials and preferences; it lives in the same partition as the user's
// notes and connections.
type UserRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewUserRepository creates a DynamoDB-backed user repository
func NewUserRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.UserRepository {
	return &UserRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

type driveCredentialItem struct {
	AccessToken  string `dynamodbav:"AccessToken"`
	RefreshToken string `dynamodbav:"RefreshToken"`
	Expiry       string `dynamodbav:"Expiry"`
}

type preferencesItem struct {
	AutoSync     bool   `dynamodbav:"AutoSync"`
	AutoCommit   bool   `dynamodbav:"AutoCommit"`
	DefaultColor string `dynamodbav:"DefaultColor"`
	GitHubOwner  string `dynamodbav:"GitHubOwner,omitempty"`
	GitHubRepo   string `dynamodbav:"GitHubRepo,omitempty"`
}

type userItem struct {
	PK          string               `dynamodbav:"PK"`
	SK          string               `dynamodbav:"SK"`
	EntityType  string               `dynamodbav:"EntityType"`
	UserID      string               `dynamodbav:"UserID"`
	Email       string               `dynamodbav:"Email"`
	Name        string               `dynamodbav:"Name"`
	Drive       *driveCredentialItem `dynamodbav:"Drive,omitempty"`
	GitHubToken string               `dynamodbav:"GitHubToken,omitempty"`
	Preferences preferencesItem      `dynamodbav:"Preferences"`
	CreatedAt   string               `dynamodbav:"CreatedAt"`
}

// Save persists a user profile
func (r *UserRepository) Save(ctx context.Context, user *entities.User) error {
	item := userItem{
		PK:         notePK(user.ID()),
		SK:         profileSK,
		EntityType: "USER",
		UserID:     user.ID(),
		Email:      user.Email(),
		Name:       user.Name(),
		Preferences: preferencesItem{
			AutoSync:     user.Preferences().AutoSync,
			AutoCommit:   user.Preferences().AutoCommit,
			DefaultColor: user.Preferences().DefaultColor,
			GitHubOwner:  user.Preferences().GitHubOwner,
			GitHubRepo:   user.Preferences().GitHubRepo,
		},
		CreatedAt: user.CreatedAt().Format(time.RFC3339Nano),
	}

	if drive := user.Drive(); drive != nil {
		item.Drive = &driveCredentialItem{
			AccessToken:  drive.AccessToken,
			RefreshToken: drive.RefreshToken,
			Expiry:       drive.Expiry.Format(time.RFC3339Nano),
		}
	}
	if github := user.GitHub(); github != nil {
		item.GitHubToken = github.Token
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal user", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		r.logger.Error("failed to save user",
			zap.String("userID", user.ID()),
			zap.Error(err),
		)
		return pkgerrors.NewDatabaseError("save user", err)
	}

	return nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: notePK(id)},
			"SK": &types.AttributeValueMemberS{Value: profileSK},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get user", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("user")
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal user", err)
	}

	var drive *entities.DriveCredential
	if item.Drive != nil {
		expiry, err := time.Parse(time.RFC3339Nano, item.Drive.Expiry)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("decode drive credential", err)
		}
		drive = &entities.DriveCredential{
			AccessToken:  item.Drive.AccessToken,
			RefreshToken: item.Drive.RefreshToken,
			Expiry:       expiry,
		}
	}

	var github *entities.GitHubCredential
	if item.GitHubToken != "" {
		github = &entities.GitHubCredential{Token: item.GitHubToken}
	}

	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("decode user", err)
	}

	return entities.ReconstructUser(
		item.UserID,
		item.Email,
		item.Name,
		drive,
		github,
		entities.Preferences{
			AutoSync:     item.Preferences.AutoSync,
			AutoCommit:   item.Preferences.AutoCommit,
			DefaultColor: item.Preferences.DefaultColor,
			GitHubOwner:  item.Preferences.GitHubOwner,
			GitHubRepo:   item.Preferences.GitHubRepo,
		},
		createdAt,
	), nil
}
