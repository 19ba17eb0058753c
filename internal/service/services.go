package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/conduit-api/internal/config"
	"github.com/conduit-api/internal/models"
	"github.com/conduit-api/internal/repository"
)

// AuthService mints and verifies bearer credentials
type AuthService interface {
	// IssueToken signs a token binding username for the configured TTL
	IssueToken(username string) (string, error)

	// Authenticate resolves an Authorization header to a user record.
	// Any failure — missing header, malformed or expired token, unknown
	// username — yields a nil identity, never an error; endpoints that
	// require login turn nil into an auth failure themselves.
	Authenticate(ctx context.Context, authorization string) *models.User

	// TokenFromHeader extracts the raw token from an Authorization
	// header, accepting both "Token <jwt>" and "Bearer <jwt>"
	TokenFromHeader(authorization string) string
}

// UserService defines the interface for user directory operations
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.UserView, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.UserView, error)
	Update(ctx context.Context, user *models.User, req *models.UserUpdateRequest, token string) (*models.UserView, error)
	Follow(ctx context.Context, actor *models.User, username string, follow bool) (*models.Profile, error)
	ProfileOf(ctx context.Context, username string, viewer *models.User) (*models.Profile, error)
}

// ArticleService defines the interface for single-article operations
type ArticleService interface {
	Create(ctx context.Context, author *models.User, req *models.ArticleCreateRequest) (*models.ArticleView, error)
	Get(ctx context.Context, slug string, viewer *models.User) (*models.ArticleView, error)
	Update(ctx context.Context, actor *models.User, slug string, req *models.ArticleUpdateRequest) (*models.ArticleView, error)
	Delete(ctx context.Context, actor *models.User, slug string) error
	Favorite(ctx context.Context, actor *models.User, slug string, favorite bool) (*models.ArticleView, error)
}

// ListingService defines the interface for the listing/feed engine
type ListingService interface {
	List(ctx context.Context, query *models.ListQuery, viewer *models.User) ([]*models.ArticleView, error)
	Feed(ctx context.Context, viewer *models.User, limit, offset int) ([]*models.ArticleView, error)
	Tags(ctx context.Context) ([]string, error)
}

// CommentService defines the interface for comment operations
type CommentService interface {
	Create(ctx context.Context, author *models.User, slug string, req *models.CommentCreateRequest) (*models.CommentView, error)
	List(ctx context.Context, slug string, viewer *models.User) ([]*models.CommentView, error)
	Delete(ctx context.Context, actor *models.User, id string) error
}

// Services holds all service interfaces
type Services struct {
	Auth    AuthService
	User    UserService
	Article ArticleService
	Listing ListingService
	Comment CommentService
}

// NewServices creates all services over the given repositories
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	views := newViewRenderer(repos.User)
	auth := newAuthService(repos.User, &cfg.Auth, log)

	return &Services{
		Auth:    auth,
		User:    newUserService(repos.User, auth, log),
		Article: newArticleService(repos.Article, views, log),
		Listing: newListingService(repos.Article, views, log),
		Comment: newCommentService(repos.Comment, repos.Article, views, log),
	}
}
