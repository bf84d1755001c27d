package folders

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

var _ Repo = (*PostgresRepo)(nil)

type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{pool: pool}
}

func (r *PostgresRepo) Create(ctx context.Context, folder *Folder) error {
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = time.Now()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO folders (id, user_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`, folder.ID, folder.UserID, folder.Name, folder.CreatedAt)
	return errors.Wrap(err, "folders.PostgresRepo.Create")
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (*Folder, error) {
	folder := &Folder{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, created_at
		FROM folders
		WHERE id = $1
	`, id).Scan(&folder.ID, &folder.UserID, &folder.Name, &folder.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "folders.PostgresRepo.GetByID")
	}
	return folder, nil
}

func (r *PostgresRepo) ListAll(ctx context.Context) ([]*Folder, error) {
	return r.query(ctx, `
		SELECT id, user_id, name, created_at
		FROM folders
		ORDER BY created_at
	`)
}

func (r *PostgresRepo) ListByUserID(ctx context.Context, userID string) ([]*Folder, error) {
	return r.query(ctx, `
		SELECT id, user_id, name, created_at
		FROM folders
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
}

func (r *PostgresRepo) Update(ctx context.Context, id, name string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE folders SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return errors.Wrap(err, "folders.PostgresRepo.Update")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM folders WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "folders.PostgresRepo.Delete")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) query(ctx context.Context, sql string, args ...any) ([]*Folder, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "folders.PostgresRepo.query")
	}
	defer rows.Close()

	var all []*Folder
	for rows.Next() {
		folder := &Folder{}
		if err := rows.Scan(&folder.ID, &folder.UserID, &folder.Name, &folder.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "folders.PostgresRepo.query scan")
		}
		all = append(all, folder)
	}
	return all, rows.Err()
}
