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

// transactLimit is DynamoDB's TransactWriteItems item cap. Note deletions
// whose prune set fits under it are fully atomic; larger ones fall back to
// sequential deletes, connections first.
const transactLimit = 100

// NoteRepository implements ports.NoteRepository on the single-table layout:
// PK=USER#<ownerID>, SK=NOTE#<id>.
type NoteRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewNoteRepository creates a DynamoDB-backed note repository
func NewNoteRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.NoteRepository {
	return &NoteRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

type noteItem struct {
	PK           string   `dynamodbav:"PK"`
	SK           string   `dynamodbav:"SK"`
	EntityType   string   `dynamodbav:"EntityType"`
	NoteID       string   `dynamodbav:"NoteID"`
	OwnerID      string   `dynamodbav:"OwnerID"`
	Title        string   `dynamodbav:"Title"`
	Content      string   `dynamodbav:"Content"`
	X            float64  `dynamodbav:"X"`
	Y            float64  `dynamodbav:"Y"`
	Color        string   `dynamodbav:"Color"`
	Tags         []string `dynamodbav:"Tags"`
	DriveFileID  string   `dynamodbav:"DriveFileID,omitempty"`
	GitHubPath   string   `dynamodbav:"GitHubPath,omitempty"`
	CreatedAt    string   `dynamodbav:"CreatedAt"`
	LastModified string   `dynamodbav:"LastModified"`
}

func notePK(ownerID string) string { return fmt.Sprintf("USER#%s", ownerID) }
func noteSK(id string) string      { return fmt.Sprintf("NOTE#%s", id) }

func toNoteItem(note *entities.Note) noteItem {
	return noteItem{
		PK:           notePK(note.OwnerID()),
		SK:           noteSK(note.ID()),
		EntityType:   "NOTE",
		NoteID:       note.ID(),
		OwnerID:      note.OwnerID(),
		Title:        note.Title(),
		Content:      note.Content(),
		X:            note.X(),
		Y:            note.Y(),
		Color:        note.Color(),
		Tags:         note.Tags(),
		DriveFileID:  note.DriveFileID(),
		GitHubPath:   note.GitHubPath(),
		CreatedAt:    note.CreatedAt().Format(time.RFC3339Nano),
		LastModified: note.LastModified().Format(time.RFC3339Nano),
	}
}

func fromNoteItem(item noteItem) (*entities.Note, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("bad CreatedAt on note %s: %w", item.NoteID, err)
	}
	lastModified, err := time.Parse(time.RFC3339Nano, item.LastModified)
	if err != nil {
		return nil, fmt.Errorf("bad LastModified on note %s: %w", item.NoteID, err)
	}

	return entities.ReconstructNote(
		item.NoteID,
		item.OwnerID,
		item.Title,
		item.Content,
		item.X,
		item.Y,
		item.Color,
		item.Tags,
		item.DriveFileID,
		item.GitHubPath,
		createdAt,
		lastModified,
	), nil
}

// Save persists a note (create or update)
func (r *NoteRepository) Save(ctx context.Context, note *entities.Note) error {
	av, err := attributevalue.MarshalMap(toNoteItem(note))
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal note", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		r.logger.Error("failed to save note",
			zap.String("noteID", note.ID()),
			zap.Error(err),
		)
		return pkgerrors.NewDatabaseError("save note", err)
	}

	return nil
}

// GetByID retrieves a note by id within the owner's partition
func (r *NoteRepository) GetByID(ctx context.Context, ownerID, id string) (*entities.Note, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: notePK(ownerID)},
			"SK": &types.AttributeValueMemberS{Value: noteSK(id)},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get note", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("note")
	}

	var item noteItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal note", err)
	}

	return fromNoteItem(item)
}

// ListByOwner retrieves all notes owned by a user
func (r *NoteRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Note, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(notePK(ownerID))).
		And(expression.Key("SK").BeginsWith("NOTE#"))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("build note query", err)
	}

	notes := []*entities.Note{}
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
			return nil, pkgerrors.NewDatabaseError("list notes", err)
		}

		for _, raw := range result.Items {
			var item noteItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, pkgerrors.NewDatabaseError("unmarshal note", err)
			}
			note, err := fromNoteItem(item)
			if err != nil {
				return nil, pkgerrors.NewDatabaseError("decode note", err)
			}
			notes = append(notes, note)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		lastKey = result.LastEvaluatedKey
	}

	return notes, nil
}

// DeleteWithConnections removes the note and every connection touching it.
// When the whole prune set fits one transaction the delete is atomic;
// otherwise connections are deleted sequentially before the note.
func (r *NoteRepository) DeleteWithConnections(ctx context.Context, ownerID, id string) ([]string, error) {
	connIDs, err := r.connectionsTouching(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if len(connIDs)+1 <= transactLimit {
		return connIDs, r.deleteTransactional(ctx, ownerID, id, connIDs)
	}
	return connIDs, r.deleteSequential(ctx, ownerID, id, connIDs)
}

// connectionsTouching lists the ids of connections with the note as either
// endpoint.
func (r *NoteRepository) connectionsTouching(ctx context.Context, ownerID, noteID string) ([]string, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(notePK(ownerID))).
		And(expression.Key("SK").BeginsWith("CONN#"))
	filter := expression.Or(
		expression.Name("FromNoteID").Equal(expression.Value(noteID)),
		expression.Name("ToNoteID").Equal(expression.Value(noteID)),
	)

	expr, err := expression.NewBuilder().
		WithKeyCondition(keyCond).
		WithFilter(filter).
		WithProjection(expression.NamesList(expression.Name("ConnectionID"))).
		Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("build connection query", err)
	}

	var ids []string
	var lastKey map[string]types.AttributeValue
	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			FilterExpression:          expr.Filter(),
			ProjectionExpression:      expr.Projection(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query connections", err)
		}

		for _, raw := range result.Items {
			var row struct {
				ConnectionID string `dynamodbav:"ConnectionID"`
			}
			if err := attributevalue.UnmarshalMap(raw, &row); err != nil {
				return nil, pkgerrors.NewDatabaseError("unmarshal connection id", err)
			}
			ids = append(ids, row.ConnectionID)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		lastKey = result.LastEvaluatedKey
	}

	return ids, nil
}

func (r *NoteRepository) deleteTransactional(ctx context.Context, ownerID, id string, connIDs []string) error {
	items := make([]types.TransactWriteItem, 0, len(connIDs)+1)
	items = append(items, types.TransactWriteItem{
		Delete: &types.Delete{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: notePK(ownerID)},
				"SK": &types.AttributeValueMemberS{Value: noteSK(id)},
			},
			ConditionExpression: aws.String("attribute_exists(PK)"),
		},
	})
	for _, connID := range connIDs {
		items = append(items, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: aws.String(r.tableName),
				Key: map[string]types.AttributeValue{
					"PK": &types.AttributeValueMemberS{Value: notePK(ownerID)},
					"SK": &types.AttributeValueMemberS{Value: connSK(connID)},
				},
			},
		})
	}

	_, err := r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			for _, reason := range canceled.CancellationReasons {
				if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
					return pkgerrors.NewNotFoundError("note")
				}
			}
		}
		return pkgerrors.NewDatabaseError("delete note", err)
	}

	r.logger.Info("deleted note with connections",
		zap.String("noteID", id),
		zap.Int("connections", len(connIDs)),
	)
	return nil
}

func (r *NoteRepository) deleteSequential(ctx context.Context, ownerID, id string, connIDs []string) error {
	for _, connID := range connIDs {
		_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: notePK(ownerID)},
				"SK": &types.AttributeValueMemberS{Value: connSK(connID)},
			},
		})
		if err != nil {
			return pkgerrors.NewDatabaseError("prune connection", err)
		}
	}

	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: notePK(ownerID)},
			"SK": &types.AttributeValueMemberS{Value: noteSK(id)},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return pkgerrors.NewNotFoundError("note")
		}
		return pkgerrors.NewDatabaseError("delete note", err)
	}

	return nil
}
