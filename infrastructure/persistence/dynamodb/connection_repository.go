package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"notemap-backend/application/ports"
	"notemap-backend/domain/core/entities"
	pkgerrors "notemap-backend/pkg/errors"
)

// ConnectionRepository implements ports.ConnectionRepository on the
// single-table layout: PK=USER#<ownerID>, SK=CONN#<id>.
type ConnectionRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewConnectionRepository creates a DynamoDB-backed connection repository
func NewConnectionRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.ConnectionRepository {
	return &ConnectionRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

type connectionItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	EntityType   string `dynamodbav:"EntityType"`
	ConnectionID string `dynamodbav:"ConnectionID"`
	OwnerID      string `dynamodbav:"OwnerID"`
	FromNoteID   string `dynamodbav:"FromNoteID"`
	ToNoteID     string `dynamodbav:"ToNoteID"`
	CreatedAt    string `dynamodbav:"CreatedAt"`
}

func connSK(id string) string { return fmt.Sprintf("CONN#%s", id) }

func fromConnectionItem(item connectionItem) (*entities.Connection, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("bad CreatedAt on connection %s: %w", item.ConnectionID, err)
	}
	return entities.ReconstructConnection(
		item.ConnectionID,
		item.OwnerID,
		item.FromNoteID,
		item.ToNoteID,
		createdAt,
	), nil
}

// Save persists a connection
func (r *ConnectionRepository) Save(ctx context.Context, conn *entities.Connection) error {
	item := connectionItem{
		PK:           notePK(conn.OwnerID()),
		SK:           connSK(conn.ID()),
		EntityType:   "CONNECTION",
		ConnectionID: conn.ID(),
		OwnerID:      conn.OwnerID(),
		FromNoteID:   conn.From(),
		ToNoteID:     conn.To(),
		CreatedAt:    conn.CreatedAt().Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal connection", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		r.logger.Error("failed to save connection",
			zap.String("connectionID", conn.ID()),
			zap.Error(err),
		)
		return pkgerrors.NewDatabaseError("save connection", err)
	}

	return nil
}

// GetByID retrieves a connection by id within the owner's partition
func (r *ConnectionRepository) GetByID(ctx context.Context, ownerID, id string) (*entities.Connection, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: notePK(ownerID)},
			"SK": &types.AttributeValueMemberS{Value: connSK(id)},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get connection", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("connection")
	}

	var item connectionItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal connection", err)
	}

	return fromConnectionItem(item)
}

// ListByOwner retrieves all connections owned by a user
func (r *ConnectionRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Connection, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(notePK(ownerID))).
		And(expression.Key("SK").BeginsWith("CONN#"))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("build connection query", err)
	}

	connections := []*entities.Connection{}
	var lastKey map[string]types.AttributeValue
	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("list connections", err)
		}

		for _, raw := range result.Items {
			var item connectionItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, pkgerrors.NewDatabaseError("unmarshal connection", err)
			}
			conn, err := fromConnectionItem(item)
			if err != nil {
				return nil, pkgerrors.NewDatabaseError("decode connection", err)
			}
			connections = append(connections, conn)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		lastKey = result.LastEvaluatedKey
	}

	return connections, nil
}

// Delete removes a connection
func (r *ConnectionRepository) Delete(ctx context.Context, ownerID, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: notePK(ownerID)},
			"SK": &types.AttributeValueMemberS{Value: connSK(id)},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return pkgerrors.NewNotFoundError("connection")
		}
		return pkgerrors.NewDatabaseError("delete connection", err)
	}

	return nil
}
