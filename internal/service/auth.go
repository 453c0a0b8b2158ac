package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"acadrepo/internal/apperror"
	"acadrepo/internal/auth"
	"acadrepo/internal/model"
	"acadrepo/internal/repository"
)

var (
	ErrInvalidCredentials = apperror.New(apperror.KindUnauthenticated, "invalid username or password")
	ErrUnauthenticated    = apperror.New(apperror.KindUnauthenticated, "authentication required")
	ErrUsernameTaken      = apperror.New(apperror.KindConflict, "username already registered")
	ErrWrongPassword      = apperror.New(apperror.KindInvalidInput, "current password is incorrect")
	ErrCredentialsMissing = apperror.New(apperror.KindInvalidInput, "username and password are required")
)

// Session is the result of a successful login.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AuthService defines the use cases of the authentication gate.
type AuthService interface {
	// Login exchanges credentials for a session token.
	Login(ctx context.Context, username, password string) (*Session, error)
	// Verify resolves a session token to the principal named in it.
	Verify(ctx context.Context, token string) (*model.Principal, error)
	// Register creates a new principal; ErrUsernameTaken on duplicates.
	Register(ctx context.Context, username, password string) (*model.Principal, error)
	// ChangePassword rotates the principal's secret after checking the old one.
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error
	// EnsurePrincipal creates username or resets its secret. Used by bootstrap.
	EnsurePrincipal(ctx context.Context, username, password string) error
}

type authService struct {
	repo   repository.PrincipalRepository
	tokens auth.TokenConfig
	argon  auth.ArgonParams
	now    func() time.Time
	// dummyHash is verified against when the username is unknown so both
	// branches of Login cost one digest.
	dummyHash string
}

// NewAuthService constructs an AuthService.
func NewAuthService(repo repository.PrincipalRepository, tokens auth.TokenConfig, argon auth.ArgonParams) (AuthService, error) {
	dummy, err := auth.HashPassword(uuid.NewString(), argon)
	if err != nil {
		return nil, err
	}
	return &authService{
		repo:      repo,
		tokens:    tokens,
		argon:     argon,
		now:       time.Now,
		dummyHash: dummy,
	}, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	p, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_, _ = auth.VerifyPassword(password, s.dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, translate(err, "failed to load principal")
	}

	ok, err := auth.VerifyPassword(password, p.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	token, expires, err := auth.MintToken(s.tokens, s.now(), p.Username)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, err, "failed to issue token")
	}
	return &Session{AccessToken: token, TokenType: "bearer", ExpiresAt: expires}, nil
}

func (s *authService) Verify(ctx context.Context, token string) (*model.Principal, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := auth.ParseToken(s.tokens, token)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUnauthenticated, err, ErrUnauthenticated.Message())
	}
	p, err := s.repo.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, translate(err, "failed to load principal")
	}
	return p, nil
}

func (s *authService) Register(ctx context.Context, username, password string) (*model.Principal, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrCredentialsMissing
	}
	hash, err := auth.HashPassword(password, s.argon)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, err, "failed to hash password")
	}
	now := s.now().UTC()
	p := &model.Principal{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, translate(err, "failed to save principal")
	}
	return p, nil
}

func (s *authService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if newPassword == "" {
		return ErrCredentialsMissing
	}
	p, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnauthenticated
		}
		return translate(err, "failed to load principal")
	}
	ok, err := auth.VerifyPassword(oldPassword, p.PasswordHash)
	if err != nil || !ok {
		return ErrWrongPassword
	}
	hash, err := auth.HashPassword(newPassword, s.argon)
	if err != nil {
		return apperror.Wrap(apperror.KindInternal, err, "failed to hash password")
	}
	if err := s.repo.UpdatePassword(ctx, username, hash); err != nil {
		return translate(err, "failed to update password")
	}
	return nil
}

func (s *authService) EnsurePrincipal(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return ErrCredentialsMissing
	}
	hash, err := auth.HashPassword(password, s.argon)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	return s.repo.Upsert(ctx, &model.Principal{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}
