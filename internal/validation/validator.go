package validation

import (
	"regexp"

	"github.com/conduit-api/internal/apperr"
	"github.com/conduit-api/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateRegister checks a registration request
func ValidateRegister(req *models.RegisterRequest) error {
	if req == nil || req.Username == "" {
		return apperr.New(apperr.Validation, "Username must be specified.")
	}
	if req.Email == "" {
		return apperr.New(apperr.Validation, "Email must be specified.")
	}
	if !emailRegex.MatchString(req.Email) {
		return apperr.Newf(apperr.Validation, "Invalid email: %s", req.Email)
	}
	if req.Password == "" {
		return apperr.New(apperr.Validation, "Password must be specified.")
	}
	return nil
}

// ValidateLogin checks a login request
func ValidateLogin(req *models.LoginRequest) error {
	if req == nil || req.Email == "" {
		return apperr.New(apperr.Validation, "Email must be specified.")
	}
	if req.Password == "" {
		return apperr.New(apperr.Validation, "Password must be specified.")
	}
	return nil
}

// ValidateUserUpdate checks a profile update request. Any subset of
// fields may be present, but present ones must not be empty.
func ValidateUserUpdate(req *models.UserUpdateRequest) error {
	if req == nil {
		return apperr.New(apperr.Validation, "User must be specified.")
	}
	if req.Email != nil && !emailRegex.MatchString(*req.Email) {
		return apperr.Newf(apperr.Validation, "Invalid email: %s", *req.Email)
	}
	if req.Password != nil && *req.Password == "" {
		return apperr.New(apperr.Validation, "Password must be specified.")
	}
	return nil
}

// ValidateArticleCreate checks an article creation request
func ValidateArticleCreate(req *models.ArticleCreateRequest) error {
	if req == nil || req.Title == "" {
		return apperr.New(apperr.Validation, "title must be specified")
	}
	if req.Description == "" {
		return apperr.New(apperr.Validation, "description must be specified")
	}
	if req.Body == "" {
		return apperr.New(apperr.Validation, "body must be specified")
	}
	return nil
}

// ValidateArticleUpdate checks a partial article update request
func ValidateArticleUpdate(req *models.ArticleUpdateRequest) error {
	if req == nil || (req.Title == nil && req.Description == nil && req.Body == nil) {
		return apperr.New(apperr.Validation, "At least one field must be specified: [title, description, body].")
	}
	return nil
}

// ValidateComment checks a comment creation request
func ValidateComment(req *models.CommentCreateRequest) error {
	if req == nil || req.Body == "" {
		return apperr.New(apperr.Validation, "body must be specified")
	}
	return nil
}
