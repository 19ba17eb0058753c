package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/conduit-api/internal/config"
	"github.com/conduit-api/internal/models"
	"github.com/conduit-api/internal/repository"
)

// authService is the concrete implementation of AuthService
type authService struct {
	users  repository.UserRepository
	secret []byte
	ttl    time.Duration
	log    zerolog.Logger
}

// newAuthService creates a new AuthService
func newAuthService(users repository.UserRepository, cfg *config.AuthConfig, log zerolog.Logger) *authService {
	return &authService{
		users:  users,
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
		log:    log.With().Str("service", "auth").Logger(),
	}
}

// IssueToken signs an HS256 token binding username until now+TTL
func (s *authService) IssueToken(username string) (string, error) {
	claims := jwt.MapClaims{
		"username": username,
		"exp":      jwt.NewNumericDate(time.Now().Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// TokenFromHeader extracts the raw token from an Authorization header.
// Both "Token <jwt>" and "Bearer <jwt>" appear in the wild; splitting on
// whitespace and taking the last segment accepts either.
func (s *authService) TokenFromHeader(authorization string) string {
	fields := strings.Fields(authorization)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// Authenticate resolves an Authorization header to a user record, or nil
func (s *authService) Authenticate(ctx context.Context, authorization string) *models.User {
	raw := s.TokenFromHeader(authorization)
	if raw == "" {
		return nil
	}

	parsed, err := jwt.Parse(raw,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		s.log.Debug().Err(err).Msg("Token rejected")
		return nil
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	username, _ := claims["username"].(string)
	if username == "" {
		return nil
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		s.log.Error().Err(err).Str("username", username).Msg("User lookup failed during authentication")
		return nil
	}
	return user
}
