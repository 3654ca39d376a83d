package domain

import "context"

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/taskloop/task-service/internal/auth/domain UserRepository

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, user *User) error

	StoreRefreshToken(ctx context.Context, rt *RefreshToken) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error)
	// RevokeRefreshToken stamps the record revoked if it is not already.
	// It reports whether this call performed the revocation.
	RevokeRefreshToken(ctx context.Context, tokenHash string) (bool, error)
	// RotateRefreshToken atomically revokes the record for oldHash and stores
	// newToken. If oldHash is missing, already revoked, or expired, nothing is
	// written and ErrRefreshTokenRevoked is returned.
	RotateRefreshToken(ctx context.Context, oldHash string, newToken *RefreshToken) error
}
