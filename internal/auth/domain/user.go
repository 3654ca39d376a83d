package domain

import (
	"time"

	"github.com/taskloop/task-service/pkg/permission"
)

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Permissions  permission.Set
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshToken is the ledger record for an issued refresh token. Only the
// SHA-256 hash of the raw token is ever persisted. A nil RevokedAt means the
// record is still active; revocation is monotonic.
type RefreshToken struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

func (rt *RefreshToken) Active(now time.Time) bool {
	return rt.RevokedAt == nil && now.Before(rt.ExpiresAt)
}
