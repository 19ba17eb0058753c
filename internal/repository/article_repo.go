package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/conduit-api/internal/database"
	"github.com/conduit-api/internal/models"
)

const (
	createdAtIndex = "createdAt"
	authorIndex    = "author"
)

// articleRepo is the DynamoDB implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

// GetBySlug retrieves an article by its primary key.
// Returns nil without error when the article does not exist.
func (r *articleRepo) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"slug": slug})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal article key: %w", err)
	}

	out, err := r.db.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.db.Tables.Articles),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get article %s: %w", slug, err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var article models.Article
	if err := attributevalue.UnmarshalMap(out.Item, &article); err != nil {
		return nil, fmt.Errorf("failed to unmarshal article %s: %w", slug, err)
	}
	return &article, nil
}

// Put writes the full article record, replacing any existing item
func (r *articleRepo) Put(ctx context.Context, article *models.Article) error {
	article.Dummy = models.IndexPartition

	item, err := attributevalue.MarshalMap(article)
	if err != nil {
		return fmt.Errorf("failed to marshal article %s: %w", article.Slug, err)
	}

	_, err = r.db.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.db.Tables.Articles),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put article %s: %w", article.Slug, err)
	}
	return nil
}

// Delete removes an article by slug
func (r *articleRepo) Delete(ctx context.Context, slug string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"slug": slug})
	if err != nil {
		return fmt.Errorf("failed to marshal article key: %w", err)
	}

	_, err = r.db.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.db.Tables.Articles),
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete article %s: %w", slug, err)
	}
	return nil
}

// RecentPage reads one page of the creation-time index, newest first.
// The filter rides along as a FilterExpression, which DynamoDB applies
// after the page is read from the index — a page can therefore contribute
// anywhere from zero matches up to its full size, and callers keep paging
// on the returned cursor until they have enough or it comes back nil.
func (r *articleRepo) RecentPage(ctx context.Context, filter ListFilter, start Cursor) ([]*models.Article, Cursor, error) {
	builder := expression.NewBuilder().
		WithKeyCondition(expression.Key("dummy").Equal(expression.Value(models.IndexPartition)))

	switch {
	case filter.Tag != "":
		builder = builder.WithFilter(expression.Contains(expression.Name("tagList"), filter.Tag))
	case filter.Author != "":
		builder = builder.WithFilter(expression.Name("author").Equal(expression.Value(filter.Author)))
	case filter.Favorited != "":
		builder = builder.WithFilter(expression.Contains(expression.Name("favoritedBy"), filter.Favorited))
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build listing query: %w", err)
	}

	out, err := r.db.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.db.Tables.Articles),
		IndexName:                 aws.String(createdAtIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
		ExclusiveStartKey:         start,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query recent articles: %w", err)
	}

	articles, err := unmarshalArticles(out.Items)
	if err != nil {
		return nil, nil, err
	}
	return articles, cursorFrom(out.LastEvaluatedKey), nil
}

// ByAuthor returns every article by author, newest first
func (r *articleRepo) ByAuthor(ctx context.Context, author string) ([]*models.Article, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("author").Equal(expression.Value(author))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build author query: %w", err)
	}

	var articles []*models.Article
	var start Cursor
	for {
		out, err := r.db.Client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.db.Tables.Articles),
			IndexName:                 aws.String(authorIndex),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ScanIndexForward:          aws.Bool(false),
			ExclusiveStartKey:         start,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query articles by author %s: %w", author, err)
		}

		page, err := unmarshalArticles(out.Items)
		if err != nil {
			return nil, err
		}
		articles = append(articles, page...)

		start = cursorFrom(out.LastEvaluatedKey)
		if start == nil {
			return articles, nil
		}
	}
}

// StreamTagLists walks the whole table, reading only tagList attributes,
// and hands each non-empty tagList to fn
func (r *articleRepo) StreamTagLists(ctx context.Context, fn func(tags []string) error) error {
	expr, err := expression.NewBuilder().
		WithProjection(expression.NamesList(expression.Name("tagList"))).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build tag scan: %w", err)
	}

	var start Cursor
	for {
		out, err := r.db.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                aws.String(r.db.Tables.Articles),
			ProjectionExpression:     expr.Projection(),
			ExpressionAttributeNames: expr.Names(),
			ExclusiveStartKey:        start,
		})
		if err != nil {
			return fmt.Errorf("failed to scan article tags: %w", err)
		}

		for _, item := range out.Items {
			var record struct {
				TagList []string `dynamodbav:"tagList"`
			}
			if err := attributevalue.UnmarshalMap(item, &record); err != nil {
				return fmt.Errorf("failed to unmarshal tag list: %w", err)
			}
			if len(record.TagList) == 0 {
				continue
			}
			if err := fn(record.TagList); err != nil {
				return err
			}
		}

		start = cursorFrom(out.LastEvaluatedKey)
		if start == nil {
			return nil
		}
	}
}

func unmarshalArticles(items []map[string]types.AttributeValue) ([]*models.Article, error) {
	articles := make([]*models.Article, 0, len(items))
	for _, item := range items {
		var article models.Article
		if err := attributevalue.UnmarshalMap(item, &article); err != nil {
			return nil, fmt.Errorf("failed to unmarshal article: %w", err)
		}
		articles = append(articles, &article)
	}
	return articles, nil
}

// cursorFrom normalizes DynamoDB's LastEvaluatedKey: an empty map means
// exhausted and becomes a nil Cursor
func cursorFrom(key map[string]types.AttributeValue) Cursor {
	if len(key) == 0 {
		return nil
	}
	return Cursor(key)
}
