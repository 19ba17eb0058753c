package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/conduit-api/internal/apperr"
	"github.com/conduit-api/internal/models"
	"github.com/conduit-api/internal/repository"
)

// userService is the concrete implementation of UserService
type userService struct {
	users repository.UserRepository
	auth  AuthService
	log   zerolog.Logger
}

// newUserService creates a new UserService
func newUserService(users repository.UserRepository, auth AuthService, log zerolog.Logger) *userService {
	return &userService{
		users: users,
		auth:  auth,
		log:   log.With().Str("service", "user").Logger(),
	}
}

// Register creates a new user. Username and email uniqueness are each
// enforced by lookup, not by a store-level constraint, so concurrent
// registrations can race; that window is accepted.
func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserView, error) {
	existing, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Newf(apperr.Conflict, "Username already taken: %s", req.Username)
	}

	existing, err = s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Newf(apperr.Conflict, "Email already taken: %s", req.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
	}
	if err := s.users.Put(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("username", user.Username).Msg("User registered")
	return s.userView(user, "")
}

// Login authenticates by email and password. Unknown email and wrong
// password fail with distinct messages.
func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.UserView, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Newf(apperr.NotFound, "Email not found: %s.", req.Email)
	}

	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(req.Password)); err != nil {
		return nil, apperr.New(apperr.Auth, "Wrong password.")
	}

	return s.userView(user, "")
}

// Update applies a partial profile update. Only fields present in the
// request are touched; an email change re-checks uniqueness first.
func (s *userService) Update(ctx context.Context, user *models.User, req *models.UserUpdateRequest, token string) (*models.UserView, error) {
	if req.Email != nil && *req.Email != user.Email {
		existing, err := s.users.GetByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperr.Newf(apperr.Conflict, "Email already taken: %s", *req.Email)
		}
		user.Email = *req.Email
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = hash
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Image != nil {
		user.Image = *req.Image
	}

	if err := s.users.Put(ctx, user); err != nil {
		return nil, err
	}

	view := viewOf(user, token)
	return view, nil
}

// Follow records or removes a follow relationship. Both sides are
// updated: the target's followers set and the actor's following set. The
// two writes are independent, not transactional; a failure between them
// can leave the sets asymmetric. Following an already-followed user, or
// unfollowing a non-followed one, is a no-op on that side.
func (s *userService) Follow(ctx context.Context, actor *models.User, username string, follow bool) (*models.Profile, error) {
	target, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperr.Newf(apperr.NotFound, "User not found: %s", username)
	}

	if follow {
		target.AddFollower(actor.Username)
	} else {
		target.RemoveFollower(actor.Username)
	}
	if err := s.users.Put(ctx, target); err != nil {
		return nil, err
	}

	if follow {
		actor.AddFollowing(username)
	} else {
		actor.RemoveFollowing(username)
	}
	if err := s.users.Put(ctx, actor); err != nil {
		return nil, err
	}

	profile := target.ProfileFor(actor)
	return &profile, nil
}

// ProfileOf resolves a public profile relative to an optional viewer
func (s *userService) ProfileOf(ctx context.Context, username string, viewer *models.User) (*models.Profile, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Newf(apperr.NotFound, "User not found: %s", username)
	}
	profile := user.ProfileFor(viewer)
	return &profile, nil
}

// userView builds the authenticated-user view, minting a fresh token when
// none is supplied
func (s *userService) userView(user *models.User, token string) (*models.UserView, error) {
	if token == "" {
		minted, err := s.auth.IssueToken(user.Username)
		if err != nil {
			return nil, err
		}
		token = minted
	}
	return viewOf(user, token), nil
}

func viewOf(user *models.User, token string) *models.UserView {
	return &models.UserView{
		Email:    user.Email,
		Token:    token,
		Username: user.Username,
		Bio:      user.Bio,
		Image:    user.Image,
	}
}
