package chatposts

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

// Create inserts the post and its pairs in one transaction.
func (r *PostgresRepo) Create(ctx context.Context, post *ChatPost) error {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "chatposts.PostgresRepo.Create begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO chat_posts (id, user_id, folder_id, title, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, post.ID, post.UserID, post.FolderID, post.Title, post.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "chatposts.PostgresRepo.Create post")
	}

	for i, pair := range post.Pairs {
		_, err = tx.Exec(ctx, `
			INSERT INTO chat_pairs (id, chat_post_id, question, answer, seq)
			VALUES ($1, $2, $3, $4, $5)
		`, pair.ID, post.ID, pair.Question, pair.Answer, i)
		if err != nil {
			return errors.Wrap(err, "chatposts.PostgresRepo.Create pair")
		}
	}

	return errors.Wrap(tx.Commit(ctx), "chatposts.PostgresRepo.Create commit")
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (*ChatPost, error) {
	post := &ChatPost{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, folder_id, title, created_at
		FROM chat_posts
		WHERE id = $1
	`, id).Scan(&post.ID, &post.UserID, &post.FolderID, &post.Title, &post.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "chatposts.PostgresRepo.GetByID")
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, chat_post_id, question, answer, seq
		FROM chat_pairs
		WHERE chat_post_id = $1
		ORDER BY seq
	`, id)
	if err != nil {
		return nil, errors.Wrap(err, "chatposts.PostgresRepo.GetByID pairs")
	}
	defer rows.Close()

	for rows.Next() {
		var pair ChatPair
		if err := rows.Scan(&pair.ID, &pair.ChatPostID, &pair.Question, &pair.Answer, &pair.Seq); err != nil {
			return nil, errors.Wrap(err, "chatposts.PostgresRepo.GetByID pair scan")
		}
		post.Pairs = append(post.Pairs, pair)
	}
	return post, rows.Err()
}

func (r *PostgresRepo) ListAll(ctx context.Context) ([]*ChatPost, error) {
	return r.query(ctx, `
		SELECT id, user_id, folder_id, title, created_at
		FROM chat_posts
		ORDER BY created_at
	`)
}

func (r *PostgresRepo) ListByUserID(ctx context.Context, userID string) ([]*ChatPost, error) {
	return r.query(ctx, `
		SELECT id, user_id, folder_id, title, created_at
		FROM chat_posts
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
}

func (r *PostgresRepo) UpdateMeta(ctx context.Context, id, title string, folderID *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE chat_posts
		SET title = $2, folder_id = $3
		WHERE id = $1
	`, id, title, folderID)
	if err != nil {
		return errors.Wrap(err, "chatposts.PostgresRepo.UpdateMeta")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	// chat_pairs rows go with the post via ON DELETE CASCADE.
	tag, err := r.pool.Exec(ctx, `DELETE FROM chat_posts WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "chatposts.PostgresRepo.Delete")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// query lists post rows without their pairs; list views only need metadata.
func (r *PostgresRepo) query(ctx context.Context, sql string, args ...any) ([]*ChatPost, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "chatposts.PostgresRepo.query")
	}
	defer rows.Close()

	var all []*ChatPost
	for rows.Next() {
		post := &ChatPost{}
		if err := rows.Scan(&post.ID, &post.UserID, &post.FolderID, &post.Title, &post.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "chatposts.PostgresRepo.query scan")
		}
		all = append(all, post)
	}
	return all, rows.Err()
}
