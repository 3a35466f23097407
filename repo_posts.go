package social

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Posts is the store for post records. Likes live inside each post row.
type Posts interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)
	List(ctx context.Context) ([]*Post, error)
	Create(ctx context.Context, post *Post) (*Post, error)
	Update(ctx context.Context, post *Post) (*Post, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteByUserIDTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error
}

type posts struct {
	db *bun.DB
}

var _ Posts = (*posts)(nil)

// NewPostsRepository creates a new post store backed by Bun.
func NewPostsRepository(db *bun.DB) Posts {
	return &posts{db: db}
}

func (r *posts) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	record := &Post{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPostNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to load post")
	}

	return record, nil
}

// List returns every post, newest first.
func (r *posts) List(ctx context.Context) ([]*Post, error) {
	var records []*Post
	err := r.db.NewSelect().
		Model(&records).
		Order("pst.created_at DESC").
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return []*Post{}, nil
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to list posts")
	}

	return records, nil
}

func (r *posts) Create(ctx context.Context, post *Post) (*Post, error) {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}

	_, err := r.db.NewInsert().
		Model(post).
		Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to create post")
	}

	return post, nil
}

func (r *posts) Update(ctx context.Context, post *Post) (*Post, error) {
	now := time.Now()
	post.UpdatedAt = &now

	res, err := r.db.NewUpdate().
		Model(post).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to update post")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, ErrPostNotFound
	}

	return post, nil
}

func (r *posts) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Post)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to delete post")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrPostNotFound
	}

	return nil
}

// DeleteByUserIDTx removes every post authored by the given user. Used
// by the account cascade delete.
func (r *posts) DeleteByUserIDTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*Post)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to delete posts")
	}

	return nil
}
