package auth

import (
	"context"
	stderrors "errors"
	"strings"

	"school-management-api/internal/logger"
	"school-management-api/internal/model"
	"school-management-api/pkg/errors"

	"github.com/rs/zerolog"
)

type UserFinder interface {
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type Service struct {
	users  UserFinder
	hasher *BcryptHasher
	tokens *TokenManager
	log    zerolog.Logger
}

func NewService(users UserFinder, hasher *BcryptHasher, tokens *TokenManager) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		log:    logger.Get(),
	}
}

// Login checks the password and returns a signed token. Unknown emails and
// wrong passwords yield the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindUserByEmail(ctx, email)
	if stderrors.Is(err, errors.ErrNotFound) {
		return nil, errors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		s.log.Warn().Str("email", email).Msg("Login rejected")
		return nil, errors.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(*user)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{Token: token, ExpiresAt: expiresAt, User: *user}, nil
}
