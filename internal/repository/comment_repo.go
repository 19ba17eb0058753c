package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/conduit-api/internal/database"
	"github.com/conduit-api/internal/models"
)

const articleIndex = "article"

// commentRepo is the DynamoDB implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// GetByID retrieves a comment by its primary key.
// Returns nil without error when the comment does not exist.
func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal comment key: %w", err)
	}

	out, err := r.db.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.db.Tables.Comments),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get comment %s: %w", id, err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var comment models.Comment
	if err := attributevalue.UnmarshalMap(out.Item, &comment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comment %s: %w", id, err)
	}
	return &comment, nil
}

// Put writes the full comment record
func (r *commentRepo) Put(ctx context.Context, comment *models.Comment) error {
	item, err := attributevalue.MarshalMap(comment)
	if err != nil {
		return fmt.Errorf("failed to marshal comment %s: %w", comment.ID, err)
	}

	_, err = r.db.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.db.Tables.Comments),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put comment %s: %w", comment.ID, err)
	}
	return nil
}

// Delete removes a comment by id
func (r *commentRepo) Delete(ctx context.Context, id string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"id": id})
	if err != nil {
		return fmt.Errorf("failed to marshal comment key: %w", err)
	}

	_, err = r.db.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.db.Tables.Comments),
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete comment %s: %w", id, err)
	}
	return nil
}

// ListBySlug returns every comment on the article, paging through the
// owning-article index
func (r *commentRepo) ListBySlug(ctx context.Context, slug string) ([]*models.Comment, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("slug").Equal(expression.Value(slug))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build comment query: %w", err)
	}

	var comments []*models.Comment
	var start Cursor
	for {
		out, err := r.db.Client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.db.Tables.Comments),
			IndexName:                 aws.String(articleIndex),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         start,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query comments for %s: %w", slug, err)
		}

		for _, item := range out.Items {
			var comment models.Comment
			if err := attributevalue.UnmarshalMap(item, &comment); err != nil {
				return nil, fmt.Errorf("failed to unmarshal comment: %w", err)
			}
			comments = append(comments, &comment)
		}

		start = cursorFrom(out.LastEvaluatedKey)
		if start == nil {
			return comments, nil
		}
	}
}
