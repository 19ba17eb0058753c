package repository

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/conduit-api/internal/database"
	"github.com/conduit-api/internal/models"
)

// Cursor marks the resume point of a paged query. A nil cursor from a
// page read means the source is exhausted; callers must stop paging then
// even if their window is not yet filled.
type Cursor map[string]types.AttributeValue

// ListFilter narrows a recency-ordered article page read.
// At most one field is set; the store applies it as a post-read predicate
// on each page, so a page may return fewer matches than it scanned.
type ListFilter struct {
	Tag       string
	Author    string
	Favorited string
}

// UserRepository defines the interface for user record operations
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Put(ctx context.Context, user *models.User) error
}

// ArticleRepository defines the interface for article record operations
type ArticleRepository interface {
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	Put(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, slug string) error

	// RecentPage reads one page of the creation-time index, newest
	// first, applying filter post-read. The returned cursor resumes the
	// next page and is nil once the index is exhausted.
	RecentPage(ctx context.Context, filter ListFilter, start Cursor) ([]*models.Article, Cursor, error)

	// ByAuthor returns every article by author, newest first, paging
	// through the author index internally.
	ByAuthor(ctx context.Context, author string) ([]*models.Article, error)

	// StreamTagLists walks the whole table and hands each stored
	// tagList to fn. Used only by tag enumeration.
	StreamTagLists(ctx context.Context, fn func(tags []string) error) error
}

// CommentRepository defines the interface for comment record operations
type CommentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	Put(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id string) error
	ListBySlug(ctx context.Context, slug string) ([]*models.Comment, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User    UserRepository
	Article ArticleRepository
	Comment CommentRepository
}

// New creates all repositories backed by the given store client
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepo(db),
		Article: NewArticleRepo(db),
		Comment: NewCommentRepo(db),
	}
}
