package models

import "time"

// IndexPartition is the constant partition value shared by every article
// so the createdAt GSI can order the whole table by creation time.
const IndexPartition = "partition"

// TimeFormat renders stored epoch-second timestamps in API responses
const TimeFormat = "2006-01-02T15:04:05.000Z"

// Article represents a stored article record.
// Timestamps are epoch seconds; tagList and favoritedBy are absent
// attributes when empty, the same convention as the user sets.
type Article struct {
	Slug           string   `json:"slug" dynamodbav:"slug"`
	Title          string   `json:"title" dynamodbav:"title"`
	Description    string   `json:"description" dynamodbav:"description"`
	Body           string   `json:"body" dynamodbav:"body"`
	Author         string   `json:"author" dynamodbav:"author"`
	Dummy          string   `json:"-" dynamodbav:"dummy"` // createdAt GSI partition, always IndexPartition
	CreatedAt      int64    `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt      int64    `json:"updatedAt" dynamodbav:"updatedAt"`
	TagList        []string `json:"tagList" dynamodbav:"tagList,omitempty"`
	FavoritedBy    []string `json:"-" dynamodbav:"favoritedBy,omitempty"`
	FavoritesCount int      `json:"favoritesCount" dynamodbav:"favoritesCount"`
}

// IsFavoritedBy reports whether username is in the article's favoritedBy set
func (a *Article) IsFavoritedBy(username string) bool {
	return contains(a.FavoritedBy, username)
}

// AddFavorite adds username to favoritedBy and recomputes favoritesCount.
// The count is always derived from the set, never adjusted independently,
// so the two cannot drift.
func (a *Article) AddFavorite(username string) {
	a.FavoritedBy = withMember(a.FavoritedBy, username)
	a.FavoritesCount = len(a.FavoritedBy)
}

// RemoveFavorite removes username from favoritedBy and recomputes
// favoritesCount. An emptied set becomes a nil slice so the attribute is
// dropped from storage.
func (a *Article) RemoveFavorite(username string) {
	a.FavoritedBy = withoutMember(a.FavoritedBy, username)
	a.FavoritesCount = len(a.FavoritedBy)
}

// ArticleView is the response shape for a single article: tags and count
// defaulted, favorited resolved relative to the viewer, and the author
// expanded to a full profile.
type ArticleView struct {
	Slug           string   `json:"slug"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Body           string   `json:"body"`
	TagList        []string `json:"tagList"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
	Favorited      bool     `json:"favorited"`
	FavoritesCount int      `json:"favoritesCount"`
	Author         Profile  `json:"author"`
}

// FormatTime renders an epoch-second timestamp as an ISO-8601 UTC string
func FormatTime(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(TimeFormat)
}

// ArticleCreateRequest is the article creation input
type ArticleCreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Body        string   `json:"body"`
	TagList     []string `json:"tagList"`
}

// ArticleUpdateRequest is the partial article-update input.
// Nil fields are left untouched; at least one must be present.
type ArticleUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Body        *string `json:"body"`
}

// ListQuery carries the listing filter and window.
// At most one of Tag, Author, Favorited may be set.
type ListQuery struct {
	Tag       string
	Author    string
	Favorited string
	Limit     int
	Offset    int
}
