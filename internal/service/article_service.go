package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog"

	"github.com/conduit-api/internal/apperr"
	"github.com/conduit-api/internal/models"
	"github.com/conduit-api/internal/repository"
)

// articleService is the concrete implementation of ArticleService
type articleService struct {
	articles repository.ArticleRepository
	views    *viewRenderer
	log      zerolog.Logger
}

// newArticleService creates a new ArticleService
func newArticleService(articles repository.ArticleRepository, views *viewRenderer, log zerolog.Logger) *articleService {
	return &articleService{
		articles: articles,
		views:    views,
		log:      log.With().Str("service", "article").Logger(),
	}
}

// NewSlug derives a URL-safe identifier from a title. The random suffix
// keeps slugs unique across repeated creations with identical titles;
// collisions are treated as negligible, not handled.
func NewSlug(title string) string {
	return slug.Make(title) + "-" + uuid.New().String()
}

// Create stores a new article authored by author
func (s *articleService) Create(ctx context.Context, author *models.User, req *models.ArticleCreateRequest) (*models.ArticleView, error) {
	now := time.Now().Unix()
	article := &models.Article{
		Slug:        NewSlug(req.Title),
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		Author:      author.Username,
		Dummy:       models.IndexPartition,
		CreatedAt:   now,
		UpdatedAt:   now,
		TagList:     req.TagList,
	}

	if err := s.articles.Put(ctx, article); err != nil {
		return nil, err
	}

	s.log.Info().Str("slug", article.Slug).Str("author", author.Username).Msg("Article created")
	return s.views.article(ctx, article, author)
}

// Get retrieves an article by slug as seen by an optional viewer
func (s *articleService) Get(ctx context.Context, slugParam string, viewer *models.User) (*models.ArticleView, error) {
	article, err := s.fetch(ctx, slugParam)
	if err != nil {
		return nil, err
	}
	return s.views.article(ctx, article, viewer)
}

// Update applies a partial mutation. Only the author may update; only
// title, description, and body are mutable.
func (s *articleService) Update(ctx context.Context, actor *models.User, slugParam string, req *models.ArticleUpdateRequest) (*models.ArticleView, error) {
	article, err := s.fetch(ctx, slugParam)
	if err != nil {
		return nil, err
	}
	if article.Author != actor.Username {
		return nil, apperr.Newf(apperr.Forbidden, "Article can only be updated by author: %s", article.Author)
	}

	if req.Title != nil {
		article.Title = *req.Title
	}
	if req.Description != nil {
		article.Description = *req.Description
	}
	if req.Body != nil {
		article.Body = *req.Body
	}
	article.UpdatedAt = time.Now().Unix()

	if err := s.articles.Put(ctx, article); err != nil {
		return nil, err
	}
	return s.views.article(ctx, article, actor)
}

// Delete removes an article. Only the author may delete.
func (s *articleService) Delete(ctx context.Context, actor *models.User, slugParam string) error {
	article, err := s.fetch(ctx, slugParam)
	if err != nil {
		return err
	}
	if article.Author != actor.Username {
		return apperr.Newf(apperr.Forbidden, "Article can only be deleted by author: %s", article.Author)
	}

	if err := s.articles.Delete(ctx, slugParam); err != nil {
		return err
	}
	s.log.Info().Str("slug", slugParam).Msg("Article deleted")
	return nil
}

// Favorite toggles the actor's favorite on or off. Idempotent in both
// directions; favoritesCount always tracks the favoritedBy set.
func (s *articleService) Favorite(ctx context.Context, actor *models.User, slugParam string, favorite bool) (*models.ArticleView, error) {
	article, err := s.fetch(ctx, slugParam)
	if err != nil {
		return nil, err
	}

	if favorite {
		article.AddFavorite(actor.Username)
	} else {
		article.RemoveFavorite(actor.Username)
	}

	if err := s.articles.Put(ctx, article); err != nil {
		return nil, err
	}
	return s.views.article(ctx, article, actor)
}

func (s *articleService) fetch(ctx context.Context, slugParam string) (*models.Article, error) {
	article, err := s.articles.GetBySlug(ctx, slugParam)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, apperr.Newf(apperr.NotFound, "Article not found: %s", slugParam)
	}
	return article, nil
}
