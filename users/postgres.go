package users

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const uniqueViolationCode = "23505"

var _ Repo = (*PostgresRepo)(nil)

// PostgresRepo implements Repo over a pgx connection pool.
type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{pool: pool}
}

func (r *PostgresRepo) Create(ctx context.Context, user *User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (
			id, username, nickname, password_hash,
			refresh_token_hash, refresh_token_exp,
			provider, social_id, gender, birth_date, created_at
		) VALUES ($1, $2, $3, $4, NULL, NULL, $5, $6, $7, $8, $9)
	`, user.ID, user.Username, user.Nickname, user.PasswordHash,
		user.Provider, user.SocialID, user.Gender, user.BirthDate, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrAlreadyExists
		}
		return errors.Wrap(err, "PostgresRepo.Create")
	}
	return nil
}

func (r *PostgresRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.get(ctx, "username = $1", username)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (*User, error) {
	return r.get(ctx, "id = $1", id)
}

func (r *PostgresRepo) get(ctx context.Context, where string, arg any) (*User, error) {
	user := &User{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, nickname, password_hash,
			refresh_token_hash, refresh_token_exp,
			provider, social_id, gender, birth_date, created_at
		FROM users
		WHERE `+where,
		arg).Scan(
		&user.ID, &user.Username, &user.Nickname, &user.PasswordHash,
		&user.RefreshTokenHash, &user.RefreshTokenExp,
		&user.Provider, &user.SocialID, &user.Gender, &user.BirthDate, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "PostgresRepo.get")
	}
	return user, nil
}

func (r *PostgresRepo) List(ctx context.Context, offset, limit int) ([]*User, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, username, nickname, password_hash,
			refresh_token_hash, refresh_token_exp,
			provider, social_id, gender, birth_date, created_at
		FROM users
		ORDER BY username
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, errors.Wrap(err, "PostgresRepo.List")
	}
	defer rows.Close()

	var all []*User
	for rows.Next() {
		user := &User{}
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Nickname, &user.PasswordHash,
			&user.RefreshTokenHash, &user.RefreshTokenExp,
			&user.Provider, &user.SocialID, &user.Gender, &user.BirthDate, &user.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "PostgresRepo.List scan")
		}
		all = append(all, user)
	}
	return all, rows.Err()
}

func (r *PostgresRepo) UpdateRefreshSession(ctx context.Context, id, hash string, exp time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET refresh_token_hash = $2, refresh_token_exp = $3
		WHERE id = $1
	`, id, hash, exp)
	if err != nil {
		return errors.Wrap(err, "PostgresRepo.UpdateRefreshSession")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RotateRefreshSession relies on the row-level atomicity of a single UPDATE:
// the swap only happens while the stored hash still equals oldHash, which
// serializes concurrent rotations for the same user.
func (r *PostgresRepo) RotateRefreshSession(ctx context.Context, id, oldHash, newHash string, exp time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET refresh_token_hash = $3, refresh_token_exp = $4
		WHERE id = $1 AND refresh_token_hash = $2
	`, id, oldHash, newHash, exp)
	if err != nil {
		return errors.Wrap(err, "PostgresRepo.RotateRefreshSession")
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionMismatch
	}
	return nil
}

func (r *PostgresRepo) ClearRefreshSession(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET refresh_token_hash = NULL, refresh_token_exp = NULL
		WHERE id = $1
	`, id)
	if err != nil {
		return errors.Wrap(err, "PostgresRepo.ClearRefreshSession")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
