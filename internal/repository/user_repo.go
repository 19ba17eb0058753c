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

const emailIndex = "email"

// userRepo is the DynamoDB implementation of UserRepository
type userRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

// GetByUsername retrieves a user by its primary key.
// Returns nil without error when the user does not exist.
func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"username": username})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user key: %w", err)
	}

	out, err := r.db.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.db.Tables.Users),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", username, err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user %s: %w", username, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user through the email index.
// Returns nil without error when no user carries the email.
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("email").Equal(expression.Value(email))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build email query: %w", err)
	}

	out, err := r.db.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.db.Tables.Users),
		IndexName:                 aws.String(emailIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(out.Items[0], &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user by email: %w", err)
	}
	return &user, nil
}

// Put writes the full user record, replacing any existing item
func (r *userRepo) Put(ctx context.Context, user *models.User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user %s: %w", user.Username, err)
	}

	_, err = r.db.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.db.Tables.Users),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put user %s: %w", user.Username, err)
	}
	return nil
}
