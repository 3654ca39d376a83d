package service

import (
	"context"
	"time"

	"github.com/taskloop/task-service/config"
	"github.com/taskloop/task-service/internal/auth/domain"
	"github.com/taskloop/task-service/internal/auth/dto"
	autherror "github.com/taskloop/task-service/internal/errors"
)

const tokenTypeBearer = "bearer"

type UserService struct {
	repo         domain.UserRepository
	tokenService TokenGenerator
	cfg          *config.Config
}

func NewUserService(repo domain.UserRepository, tokenService TokenGenerator, cfg *config.Config) *UserService {
	return &UserService{
		repo:         repo,
		tokenService: tokenService,
		cfg:          cfg,
	}
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	existingUser, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	hashedPassword, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	user := &domain.User{
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Permissions:  s.cfg.DefaultPermissions(config.DefaultRole),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	if user == nil || !VerifyPassword(input.Password, user.PasswordHash) {
		return nil, autherror.ErrInvalidCredentials
	}

	accessToken, refreshToken, refreshExpiresAt, err := s.tokenService.GeneratePair(user.ID)
	if err != nil {
		return nil, err
	}

	rt := &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: s.tokenService.Hash(refreshToken),
		ExpiresAt: refreshExpiresAt,
		CreatedAt: time.Now(),
	}
	if err := s.repo.StoreRefreshToken(ctx, rt); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenTypeBearer,
	}, nil
}

// Refresh rotates a refresh token: the presented token must be
// cryptographically valid AND have an active ledger record. The ledger check
// is what lets server-side revocation override a still-valid signature. The
// consumed token is revoked and the replacement recorded in one transaction,
// so at most one of two concurrent rotations of the same token succeeds.
func (s *UserService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.TokenResponse, error) {
	claims, err := s.tokenService.Verify(input.RefreshToken, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	tokenHash := s.tokenService.Hash(input.RefreshToken)

	stored, err := s.repo.GetRefreshToken(ctx, tokenHash)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, autherror.ErrRefreshTokenNotFound
	}
	if stored.RevokedAt != nil {
		return nil, autherror.ErrRefreshTokenRevoked
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, autherror.ErrRefreshTokenExpired
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	accessToken, newRefreshToken, refreshExpiresAt, err := s.tokenService.GeneratePair(user.ID)
	if err != nil {
		return nil, err
	}

	newToken := &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: s.tokenService.Hash(newRefreshToken),
		ExpiresAt: refreshExpiresAt,
		CreatedAt: time.Now(),
	}
	if err := s.repo.RotateRefreshToken(ctx, tokenHash, newToken); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		TokenType:    tokenTypeBearer,
	}, nil
}

// Logout revokes the presented refresh token. Revoking an unknown or
// already-revoked token is a no-op; logout never fails for the client.
func (s *UserService) Logout(ctx context.Context, rawRefreshToken string) error {
	if rawRefreshToken == "" {
		return nil
	}

	_, err := s.repo.RevokeRefreshToken(ctx, s.tokenService.Hash(rawRefreshToken))

	return err
}

// CurrentUser resolves an access token to its user record. Every failure
// surfaces to the boundary as the same unauthorized outcome.
func (s *UserService) CurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.tokenService.Verify(accessToken, TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	return user, nil
}
