package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/conduit-api/internal/apperr"
	"github.com/conduit-api/internal/models"
	"github.com/conduit-api/internal/repository"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	comments repository.CommentRepository
	articles repository.ArticleRepository
	views    *viewRenderer
	log      zerolog.Logger
}

// newCommentService creates a new CommentService
func newCommentService(comments repository.CommentRepository, articles repository.ArticleRepository, views *viewRenderer, log zerolog.Logger) *commentService {
	return &commentService{
		comments: comments,
		articles: articles,
		views:    views,
		log:      log.With().Str("service", "comment").Logger(),
	}
}

// Create stores a new comment on an existing article
func (s *commentService) Create(ctx context.Context, author *models.User, slug string, req *models.CommentCreateRequest) (*models.CommentView, error) {
	if err := s.requireArticle(ctx, slug); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	comment := &models.Comment{
		ID:        uuid.New().String(),
		Slug:      slug,
		Body:      req.Body,
		Author:    author.Username,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.comments.Put(ctx, comment); err != nil {
		return nil, err
	}

	s.log.Info().Str("slug", slug).Str("comment_id", comment.ID).Msg("Comment created")
	return s.views.comment(ctx, comment, author)
}

// List returns every comment on an existing article as seen by an
// optional viewer
func (s *commentService) List(ctx context.Context, slug string, viewer *models.User) ([]*models.CommentView, error) {
	if err := s.requireArticle(ctx, slug); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.views.comments(ctx, comments, viewer)
}

// Delete removes a comment. Only its author may delete it.
func (s *commentService) Delete(ctx context.Context, actor *models.User, id string) error {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if comment == nil {
		return apperr.New(apperr.NotFound, "Comment not found")
	}
	if comment.Author != actor.Username {
		return apperr.New(apperr.Forbidden, "Cannot delete other user's comment")
	}

	if err := s.comments.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("comment_id", id).Msg("Comment deleted")
	return nil
}

func (s *commentService) requireArticle(ctx context.Context, slug string) error {
	article, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if article == nil {
		return apperr.Newf(apperr.NotFound, "Article not found: %s", slug)
	}
	return nil
}
