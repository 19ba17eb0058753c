package models

// Comment represents a stored comment record, keyed by id with the owning
// article's slug as a secondary index.
type Comment struct {
	ID        string `json:"id" dynamodbav:"id"`
	Slug      string `json:"-" dynamodbav:"slug"`
	Body      string `json:"body" dynamodbav:"body"`
	Author    string `json:"author" dynamodbav:"author"`
	CreatedAt int64  `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt int64  `json:"updatedAt" dynamodbav:"updatedAt"`
}

// CommentView is the response shape for a comment
type CommentView struct {
	ID        string  `json:"id"`
	Body      string  `json:"body"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
	Author    Profile `json:"author"`
}

// CommentCreateRequest is the comment creation input
type CommentCreateRequest struct {
	Body string `json:"body"`
}
