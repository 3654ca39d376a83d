package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taskloop/task-service/internal/auth/domain"
	autherror "github.com/taskloop/task-service/internal/errors"
	"github.com/taskloop/task-service/pkg/permission"
)

const uniqueViolationCode = "23505"

// DB is the subset of pgxpool.Pool the repository needs; pgxmock satisfies it
// in tests.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, permissions, created_at, updated_at
		FROM users
		WHERE email = $1
		LIMIT 1;
	`
	user, err := r.scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, permissions, created_at, updated_at
		FROM users
		WHERE id = $1
		LIMIT 1;
	`
	user, err := r.scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var permissions string

	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &permissions, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	user.Permissions = permission.Parse(permissions)

	return &user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (email, password_hash, permissions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
	`
	err := r.db.QueryRow(ctx, query,
		user.Email, user.PasswordHash, permission.Join(user.Permissions), user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return autherror.ErrEmailAlreadyInUse
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *PostgresRepository) StoreRefreshToken(ctx context.Context, rt *domain.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (token_hash, user_id, expires_at, created_at)
	          VALUES ($1, $2, $3, $4)`
	_, err := r.db.Exec(ctx, query, rt.TokenHash, rt.UserID, rt.ExpiresAt, rt.CreatedAt)

	return err
}

func (r *PostgresRepository) GetRefreshToken(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	query := `
		SELECT id, token_hash, user_id, expires_at, revoked_at, created_at
		FROM refresh_tokens
		WHERE token_hash = $1
		LIMIT 1;
	`
	var rt domain.RefreshToken
	err := r.db.QueryRow(ctx, query, tokenHash).
		Scan(&rt.ID, &rt.TokenHash, &rt.UserID, &rt.ExpiresAt, &rt.RevokedAt, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return &rt, nil
}

// RevokeRefreshToken is a compare-and-set: only a currently-unrevoked record
// is stamped, so concurrent revokes of one token settle on a single winner.
func (r *PostgresRepository) RevokeRefreshToken(ctx context.Context, tokenHash string) (bool, error) {
	query := `UPDATE refresh_tokens
	          SET revoked_at = now()
	          WHERE token_hash = $1 AND revoked_at IS NULL`
	tag, err := r.db.Exec(ctx, query, tokenHash)
	if err != nil {
		return false, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// RotateRefreshToken revokes oldHash and stores newToken in one transaction.
// Losing a race for oldHash leaves the store untouched and reports the token
// as revoked.
func (r *PostgresRepository) RotateRefreshToken(ctx context.Context, oldHash string, newToken *domain.RefreshToken) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin rotation: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	revoke := `UPDATE refresh_tokens
	           SET revoked_at = now()
	           WHERE token_hash = $1 AND revoked_at IS NULL AND expires_at > now()`
	tag, err := tx.Exec(ctx, revoke, oldHash)
	if err != nil {
		return fmt.Errorf("failed to revoke rotated token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return autherror.ErrRefreshTokenRevoked
	}

	insert := `INSERT INTO refresh_tokens (token_hash, user_id, expires_at, created_at)
	           VALUES ($1, $2, $3, $4)`
	if _, err := tx.Exec(ctx, insert, newToken.TokenHash, newToken.UserID, newToken.ExpiresAt, newToken.CreatedAt); err != nil {
		return fmt.Errorf("failed to store rotated token: %w", err)
	}

	return tx.Commit(ctx)
}
