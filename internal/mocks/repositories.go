package mocks

import (
	"context"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/conduit-api/internal/models"
	"github.com/conduit-api/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	Users    map[string]*models.User
	PutError error
	GetError error
	PutCalls int
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[string]*models.User)}
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.Users[username], nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, user := range m.Users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) Put(ctx context.Context, user *models.User) error {
	m.PutCalls++
	if m.PutError != nil {
		return m.PutError
	}
	m.Users[user.Username] = user
	return nil
}

// MockArticleRepository is a mock implementation of ArticleRepository.
// It reproduces the store's read behavior: RecentPage scans a fixed-size
// page of the newest-first listing and applies the filter after the
// page is cut, so a page can contribute fewer matches than PageSize.
type MockArticleRepository struct {
	Articles []*models.Article
	// PageSize is the number of raw items per RecentPage call before
	// filtering. Zero means everything in one page.
	PageSize  int
	PutError  error
	GetError  error
	PageCalls int
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{}
}

func (m *MockArticleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, a := range m.Articles {
		if a.Slug == slug {
			return a, nil
		}
	}
	return nil, nil
}

func (m *MockArticleRepository) Put(ctx context.Context, article *models.Article) error {
	if m.PutError != nil {
		return m.PutError
	}
	article.Dummy = models.IndexPartition
	for i, a := range m.Articles {
		if a.Slug == article.Slug {
			m.Articles[i] = article
			return nil
		}
	}
	m.Articles = append(m.Articles, article)
	return nil
}

func (m *MockArticleRepository) Delete(ctx context.Context, slug string) error {
	for i, a := range m.Articles {
		if a.Slug == slug {
			m.Articles = append(m.Articles[:i], m.Articles[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MockArticleRepository) RecentPage(ctx context.Context, filter repository.ListFilter, start repository.Cursor) ([]*models.Article, repository.Cursor, error) {
	m.PageCalls++
	if m.GetError != nil {
		return nil, nil, m.GetError
	}

	ordered := m.newestFirst()
	from := cursorIndex(start)
	pageSize := m.PageSize
	if pageSize <= 0 {
		pageSize = len(ordered)
	}

	to := from + pageSize
	if to > len(ordered) {
		to = len(ordered)
	}

	var matched []*models.Article
	for _, a := range ordered[from:to] {
		if matchesFilter(a, filter) {
			matched = append(matched, a)
		}
	}

	var next repository.Cursor
	if to < len(ordered) {
		next = repository.Cursor{
			"index": &types.AttributeValueMemberN{Value: strconv.Itoa(to)},
		}
	}
	return matched, next, nil
}

func (m *MockArticleRepository) ByAuthor(ctx context.Context, author string) ([]*models.Article, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	var out []*models.Article
	for _, a := range m.newestFirst() {
		if a.Author == author {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockArticleRepository) StreamTagLists(ctx context.Context, fn func(tags []string) error) error {
	if m.GetError != nil {
		return m.GetError
	}
	for _, a := range m.Articles {
		if len(a.TagList) == 0 {
			continue
		}
		if err := fn(a.TagList); err != nil {
			return err
		}
	}
	return nil
}

// newestFirst orders by creation time descending; within a second,
// later insertions come first, matching a range key that only resolves
// to the second.
func (m *MockArticleRepository) newestFirst() []*models.Article {
	pos := make(map[string]int, len(m.Articles))
	for i, a := range m.Articles {
		pos[a.Slug] = i
	}
	ordered := make([]*models.Article, len(m.Articles))
	copy(ordered, m.Articles)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].CreatedAt != ordered[j].CreatedAt {
			return ordered[i].CreatedAt > ordered[j].CreatedAt
		}
		return pos[ordered[i].Slug] > pos[ordered[j].Slug]
	})
	return ordered
}

func matchesFilter(a *models.Article, filter repository.ListFilter) bool {
	if filter.Tag != "" && !containsString(a.TagList, filter.Tag) {
		return false
	}
	if filter.Author != "" && a.Author != filter.Author {
		return false
	}
	if filter.Favorited != "" && !containsString(a.FavoritedBy, filter.Favorited) {
		return false
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func cursorIndex(cursor repository.Cursor) int {
	if cursor == nil {
		return 0
	}
	if v, ok := cursor["index"].(*types.AttributeValueMemberN); ok {
		if n, err := strconv.Atoi(v.Value); err == nil {
			return n
		}
	}
	return 0
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	Comments map[string]*models.Comment
	PutError error
	GetError error
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{Comments: make(map[string]*models.Comment)}
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.Comments[id], nil
}

func (m *MockCommentRepository) Put(ctx context.Context, comment *models.Comment) error {
	if m.PutError != nil {
		return m.PutError
	}
	m.Comments[comment.ID] = comment
	return nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id string) error {
	delete(m.Comments, id)
	return nil
}

func (m *MockCommentRepository) ListBySlug(ctx context.Context, slug string) ([]*models.Comment, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	var out []*models.Comment
	for _, c := range m.Comments {
		if c.Slug == slug {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out, nil
}

// NewRepositories bundles the mocks into a repository set for wiring
// services in tests
func NewRepositories(users *MockUserRepository, articles *MockArticleRepository, comments *MockCommentRepository) *repository.Repositories {
	return &repository.Repositories{
		User:    users,
		Article: articles,
		Comment: comments,
	}
}
