package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/conduit-api/internal/mocks"
	"github.com/conduit-api/internal/models"
	"github.com/conduit-api/internal/repository"
)

func seedArticles(t *testing.T, repo *mocks.MockArticleRepository, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		article := &models.Article{
			Slug:      fmt.Sprintf("article-%d", i),
			Title:     fmt.Sprintf("Article %d", i),
			Author:    "john",
			CreatedAt: int64(1700000000 + i),
			UpdatedAt: int64(1700000000 + i),
		}
		if i%2 == 0 {
			article.TagList = []string{"even"}
		}
		if err := repo.Put(ctx, article); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
}

func TestMockArticleRepository_RecentPageCursor(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	seedArticles(t, repo, 5)
	repo.PageSize = 2
	ctx := context.Background()

	// Walk the cursor chain to exhaustion
	var all []*models.Article
	var cursor repository.Cursor
	pages := 0
	for {
		page, next, err := repo.RecentPage(ctx, repository.ListFilter{}, cursor)
		if err != nil {
			t.Fatalf("RecentPage failed: %v", err)
		}
		all = append(all, page...)
		pages++
		if next == nil {
			break
		}
		cursor = next
	}

	if pages != 3 {
		t.Errorf("Expected 3 pages of size 2 over 5 items, got %d", pages)
	}
	if len(all) != 5 {
		t.Fatalf("Expected 5 articles, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].CreatedAt < all[i].CreatedAt {
			t.Errorf("Articles out of order at %d: %d < %d", i, all[i-1].CreatedAt, all[i].CreatedAt)
		}
	}
	if all[0].Slug != "article-4" {
		t.Errorf("Expected newest first, got %s", all[0].Slug)
	}
}

func TestMockArticleRepository_FilterAppliesWithinPage(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	seedArticles(t, repo, 6)
	repo.PageSize = 2
	ctx := context.Background()

	// Page [5,4] holds one even article, so the page yields a single
	// match while the cursor still advances by the raw page size
	page, next, err := repo.RecentPage(ctx, repository.ListFilter{Tag: "even"}, nil)
	if err != nil {
		t.Fatalf("RecentPage failed: %v", err)
	}
	if len(page) != 1 || page[0].Slug != "article-4" {
		t.Errorf("Expected [article-4], got %v", slugs(page))
	}
	if next == nil {
		t.Fatal("Expected a continuation cursor")
	}

	page, _, err = repo.RecentPage(ctx, repository.ListFilter{Tag: "even"}, next)
	if err != nil {
		t.Fatalf("Second RecentPage failed: %v", err)
	}
	if len(page) != 1 || page[0].Slug != "article-2" {
		t.Errorf("Expected [article-2], got %v", slugs(page))
	}
}

func TestMockArticleRepository_ByAuthor(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	ctx := context.Background()
	repo.Put(ctx, &models.Article{Slug: "a", Author: "john", CreatedAt: 1})
	repo.Put(ctx, &models.Article{Slug: "b", Author: "jane", CreatedAt: 2})
	repo.Put(ctx, &models.Article{Slug: "c", Author: "john", CreatedAt: 3})

	articles, err := repo.ByAuthor(ctx, "john")
	if err != nil {
		t.Fatalf("ByAuthor failed: %v", err)
	}
	if len(articles) != 2 || articles[0].Slug != "c" || articles[1].Slug != "a" {
		t.Errorf("Expected [c a], got %v", slugs(articles))
	}
}

func TestMockArticleRepository_PutUpserts(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	ctx := context.Background()

	repo.Put(ctx, &models.Article{Slug: "a", Title: "First", CreatedAt: 1})
	repo.Put(ctx, &models.Article{Slug: "a", Title: "Edited", CreatedAt: 1})

	if len(repo.Articles) != 1 {
		t.Fatalf("Expected upsert, got %d articles", len(repo.Articles))
	}
	stored, _ := repo.GetBySlug(ctx, "a")
	if stored.Title != "Edited" {
		t.Errorf("Expected edited title, got %s", stored.Title)
	}
	if stored.Dummy != models.IndexPartition {
		t.Errorf("Put must stamp the index partition attribute, got %q", stored.Dummy)
	}
}

func TestMockCommentRepository_ListBySlug(t *testing.T) {
	repo := mocks.NewMockCommentRepository()
	ctx := context.Background()

	repo.Put(ctx, &models.Comment{ID: "c1", Slug: "a", Body: "first", CreatedAt: 1})
	repo.Put(ctx, &models.Comment{ID: "c2", Slug: "b", Body: "other", CreatedAt: 2})
	repo.Put(ctx, &models.Comment{ID: "c3", Slug: "a", Body: "second", CreatedAt: 3})

	comments, err := repo.ListBySlug(ctx, "a")
	if err != nil {
		t.Fatalf("ListBySlug failed: %v", err)
	}
	if len(comments) != 2 || comments[0].ID != "c1" || comments[1].ID != "c3" {
		t.Errorf("Unexpected comments: %v", comments)
	}
}

func TestMockUserRepository_Lookups(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	ctx := context.Background()

	repo.Put(ctx, &models.User{Username: "john", Email: "john@test.com"})

	byName, _ := repo.GetByUsername(ctx, "john")
	if byName == nil || byName.Email != "john@test.com" {
		t.Errorf("GetByUsername failed: %v", byName)
	}
	byEmail, _ := repo.GetByEmail(ctx, "john@test.com")
	if byEmail == nil || byEmail.Username != "john" {
		t.Errorf("GetByEmail failed: %v", byEmail)
	}
	missing, err := repo.GetByUsername(ctx, "ghost")
	if err != nil || missing != nil {
		t.Errorf("Absent user should be nil without error, got %v %v", missing, err)
	}
}

func slugs(articles []*models.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.Slug
	}
	return out
}
