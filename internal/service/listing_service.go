package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/conduit-api/internal/apperr"
	"github.com/conduit-api/internal/models"
	"github.com/conduit-api/internal/repository"
)

// DefaultLimit is the listing window size when the caller supplies none
const DefaultLimit = 20

// listingService is the concrete implementation of ListingService
type listingService struct {
	articles repository.ArticleRepository
	views    *viewRenderer
	log      zerolog.Logger
}

// newListingService creates a new ListingService
func newListingService(articles repository.ArticleRepository, views *viewRenderer, log zerolog.Logger) *listingService {
	return &listingService{
		articles: articles,
		views:    views,
		log:      log.With().Str("service", "listing").Logger(),
	}
}

// List returns one window of the newest-first article listing.
//
// The creation-time index cannot apply the offset natively: the filter is
// a post-read predicate, so any page may contribute fewer matches than it
// scanned. The engine therefore accumulates matches page by page until it
// holds at least offset+limit of them or the cursor is exhausted, then
// slices the window and transforms only that slice. The number of pages
// fetched is bounded by the table, not by limit.
func (s *listingService) List(ctx context.Context, query *models.ListQuery, viewer *models.User) ([]*models.ArticleView, error) {
	if countFilters(query) > 1 {
		return nil, apperr.New(apperr.Validation, "Use only one of tag, author, or favorited")
	}
	limit, offset := normalizeWindow(query.Limit, query.Offset)

	filter := repository.ListFilter{
		Tag:       query.Tag,
		Author:    query.Author,
		Favorited: query.Favorited,
	}

	var matched []*models.Article
	var cursor repository.Cursor
	for len(matched) < offset+limit {
		page, next, err := s.articles.RecentPage(ctx, filter, cursor)
		if err != nil {
			return nil, err
		}
		matched = append(matched, page...)
		if next == nil {
			break
		}
		cursor = next
	}

	return s.views.articles(ctx, window(matched, offset, limit), viewer)
}

// Feed returns one window of articles authored by the users the viewer
// follows: one author-index query per followed user, merged, sorted by
// creation time descending, then sliced. Cost grows with the number of
// followed authors and their article counts.
func (s *listingService) Feed(ctx context.Context, viewer *models.User, limit, offset int) ([]*models.ArticleView, error) {
	limit, offset = normalizeWindow(limit, offset)

	following := viewer.Following
	if len(following) == 0 {
		return []*models.ArticleView{}, nil
	}

	// Fan out one query per followed author; the final sort makes the
	// result independent of completion order.
	byAuthor := make([][]*models.Article, len(following))
	g, gctx := errgroup.WithContext(ctx)
	for i, author := range following {
		i, author := i, author
		g.Go(func() error {
			articles, err := s.articles.ByAuthor(gctx, author)
			if err != nil {
				return err
			}
			byAuthor[i] = articles
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []*models.Article
	for _, articles := range byAuthor {
		merged = append(merged, articles...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt > merged[j].CreatedAt
	})

	return s.views.articles(ctx, window(merged, offset, limit), viewer)
}

// Tags enumerates every distinct tag across all stored articles by
// scanning the whole table.
func (s *listingService) Tags(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	tags := []string{}

	err := s.articles.StreamTagLists(ctx, func(list []string) error {
		for _, tag := range list {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func countFilters(query *models.ListQuery) int {
	n := 0
	for _, f := range []string{query.Tag, query.Author, query.Favorited} {
		if f != "" {
			n++
		}
	}
	return n
}

func normalizeWindow(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// window slices [offset, offset+limit) out of list, tolerating windows
// that run past the end — the listing returns fewer items than limit when
// the source is exhausted.
func window(list []*models.Article, offset, limit int) []*models.Article {
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}
