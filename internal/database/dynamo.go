package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"github.com/conduit-api/internal/config"
)

// Tables holds the table names the repositories operate on
type Tables struct {
	Users    string
	Articles string
	Comments string
}

// DB wraps the DynamoDB client with table names and provisioning helpers
type DB struct {
	Client *dynamodb.Client
	Tables Tables
	log    zerolog.Logger
}

// New creates a DynamoDB client from configuration. An endpoint override
// and static credentials switch the client to dynamodb-local.
func New(ctx context.Context, cfg *config.DynamoConfig, log zerolog.Logger) (*DB, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	db := &DB{
		Client: client,
		Tables: Tables{
			Users:    cfg.UsersTable,
			Articles: cfg.ArticlesTable,
			Comments: cfg.CommentsTable,
		},
		log: log.With().Str("component", "database").Logger(),
	}

	db.log.Info().
		Str("region", cfg.Region).
		Str("endpoint", cfg.Endpoint).
		Str("users_table", cfg.UsersTable).
		Str("articles_table", cfg.ArticlesTable).
		Str("comments_table", cfg.CommentsTable).
		Msg("DynamoDB client initialized")

	return db, nil
}

// HealthCheck verifies the store is reachable
func (db *DB) HealthCheck(ctx context.Context) error {
	_, err := db.Client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(db.Tables.Users),
	})
	return err
}

// EnsureTables creates any missing tables with the expected key layout.
// It is the local-development counterpart of a migration step; production
// tables are expected to be provisioned out of band.
func (db *DB) EnsureTables(ctx context.Context) error {
	specs := []dynamodb.CreateTableInput{
		db.usersTableSpec(),
		db.articlesTableSpec(),
		db.commentsTableSpec(),
	}

	for i := range specs {
		spec := specs[i]
		name := aws.ToString(spec.TableName)

		_, err := db.Client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: spec.TableName})
		if err == nil {
			continue
		}
		var notFound *types.ResourceNotFoundException
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to describe table %s: %w", name, err)
		}

		db.log.Info().Str("table", name).Msg("Creating missing table")
		if _, err := db.Client.CreateTable(ctx, &spec); err != nil {
			return fmt.Errorf("failed to create table %s: %w", name, err)
		}

		waiter := dynamodb.NewTableExistsWaiter(db.Client)
		if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: spec.TableName}, 2*time.Minute); err != nil {
			return fmt.Errorf("table %s did not become active: %w", name, err)
		}
	}

	return nil
}

// usersTableSpec keys users by username with an email lookup index
func (db *DB) usersTableSpec() dynamodb.CreateTableInput {
	return dynamodb.CreateTableInput{
		TableName:   aws.String(db.Tables.Users),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("username"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("email"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("username"), KeyType: types.KeyTypeHash},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String("email"),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("email"), KeyType: types.KeyTypeHash},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
	}
}

// articlesTableSpec keys articles by slug, with a whole-table
// creation-time index (constant partition) and an author index
func (db *DB) articlesTableSpec() dynamodb.CreateTableInput {
	return dynamodb.CreateTableInput{
		TableName:   aws.String(db.Tables.Articles),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("slug"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("dummy"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("createdAt"), AttributeType: types.ScalarAttributeTypeN},
			{AttributeName: aws.String("author"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("slug"), KeyType: types.KeyTypeHash},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String("createdAt"),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("dummy"), KeyType: types.KeyTypeHash},
					{AttributeName: aws.String("createdAt"), KeyType: types.KeyTypeRange},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
			{
				IndexName: aws.String("author"),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("author"), KeyType: types.KeyTypeHash},
					{AttributeName: aws.String("createdAt"), KeyType: types.KeyTypeRange},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
	}
}

// commentsTableSpec keys comments by id with an owning-article index
func (db *DB) commentsTableSpec() dynamodb.CreateTableInput {
	return dynamodb.CreateTableInput{
		TableName:   aws.String(db.Tables.Comments),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("slug"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String("article"),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("slug"), KeyType: types.KeyTypeHash},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
	}
}
