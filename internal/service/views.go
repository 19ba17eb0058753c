package service

import (
	"context"

	"github.com/conduit-api/internal/apperr"
	"github.com/conduit-api/internal/models"
	"github.com/conduit-api/internal/repository"
)

// viewRenderer turns stored records into response views, resolving author
// usernames to full profiles relative to an optional viewer. Every
// article view costs one user lookup for its author; there is no caching
// layer.
type viewRenderer struct {
	users repository.UserRepository
}

func newViewRenderer(users repository.UserRepository) *viewRenderer {
	return &viewRenderer{users: users}
}

func (v *viewRenderer) profile(ctx context.Context, username string, viewer *models.User) (models.Profile, error) {
	user, err := v.users.GetByUsername(ctx, username)
	if err != nil {
		return models.Profile{}, err
	}
	if user == nil {
		return models.Profile{}, apperr.Newf(apperr.NotFound, "User not found: %s", username)
	}
	return user.ProfileFor(viewer), nil
}

func (v *viewRenderer) article(ctx context.Context, a *models.Article, viewer *models.User) (*models.ArticleView, error) {
	author, err := v.profile(ctx, a.Author, viewer)
	if err != nil {
		return nil, err
	}

	view := &models.ArticleView{
		Slug:           a.Slug,
		Title:          a.Title,
		Description:    a.Description,
		Body:           a.Body,
		TagList:        a.TagList,
		CreatedAt:      models.FormatTime(a.CreatedAt),
		UpdatedAt:      models.FormatTime(a.UpdatedAt),
		FavoritesCount: a.FavoritesCount,
		Author:         author,
	}
	if view.TagList == nil {
		view.TagList = []string{}
	}
	if viewer != nil {
		view.Favorited = a.IsFavoritedBy(viewer.Username)
	}
	return view, nil
}

func (v *viewRenderer) articles(ctx context.Context, list []*models.Article, viewer *models.User) ([]*models.ArticleView, error) {
	views := make([]*models.ArticleView, 0, len(list))
	for _, a := range list {
		view, err := v.article(ctx, a, viewer)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (v *viewRenderer) comment(ctx context.Context, c *models.Comment, viewer *models.User) (*models.CommentView, error) {
	author, err := v.profile(ctx, c.Author, viewer)
	if err != nil {
		return nil, err
	}
	return &models.CommentView{
		ID:        c.ID,
		Body:      c.Body,
		CreatedAt: models.FormatTime(c.CreatedAt),
		UpdatedAt: models.FormatTime(c.UpdatedAt),
		Author:    author,
	}, nil
}

func (v *viewRenderer) comments(ctx context.Context, list []*models.Comment, viewer *models.User) ([]*models.CommentView, error) {
	views := make([]*models.CommentView, 0, len(list))
	for _, c := range list {
		view, err := v.comment(ctx, c, viewer)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}
