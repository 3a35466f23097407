package social

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Profiles is the store for profile records and their embedded
// experience, education, and subscriber collections.
type Profiles interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	GetByUserIDTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) (*Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetByHandle(ctx context.Context, handle string) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
	Create(ctx context.Context, profile *Profile) (*Profile, error)
	CreateTx(ctx context.Context, tx bun.IDB, profile *Profile) (*Profile, error)
	Update(ctx context.Context, profile *Profile) (*Profile, error)
	UpdateTx(ctx context.Context, tx bun.IDB, profile *Profile) (*Profile, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	DeleteByUserIDTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error
}

type profiles struct {
	db *bun.DB
}

var _ Profiles = (*profiles)(nil)

// NewProfilesRepository creates a new profile store backed by Bun.
func NewProfilesRepository(db *bun.DB) Profiles {
	return &profiles{db: db}
}

func (r *profiles) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return r.GetByUserIDTx(ctx, r.db, userID)
}

func (r *profiles) GetByUserIDTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) (*Profile, error) {
	record := &Profile{}
	err := tx.NewSelect().
		Model(record).
		Relation("User").
		Where("?TableAlias.user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProfileNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to load profile")
	}

	return record, nil
}

func (r *profiles) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	record := &Profile{}
	err := r.db.NewSelect().
		Model(record).
		Relation("User").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProfileNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to load profile")
	}

	return record, nil
}

func (r *profiles) GetByHandle(ctx context.Context, handle string) (*Profile, error) {
	record := &Profile{}
	err := r.db.NewSelect().
		Model(record).
		Relation("User").
		Where("?TableAlias.handle = ?", handle).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProfileNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to load profile")
	}

	return record, nil
}

func (r *profiles) List(ctx context.Context) ([]*Profile, error) {
	var records []*Profile
	err := r.db.NewSelect().
		Model(&records).
		Relation("User").
		Order("prf.created_at DESC").
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return []*Profile{}, nil
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to list profiles")
	}

	return records, nil
}

func (r *profiles) Create(ctx context.Context, profile *Profile) (*Profile, error) {
	return r.CreateTx(ctx, r.db, profile)
}

func (r *profiles) CreateTx(ctx context.Context, tx bun.IDB, profile *Profile) (*Profile, error) {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}

	_, err := tx.NewInsert().
		Model(profile).
		Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to create profile")
	}

	return profile, nil
}

func (r *profiles) Update(ctx context.Context, profile *Profile) (*Profile, error) {
	return r.UpdateTx(ctx, r.db, profile)
}

func (r *profiles) UpdateTx(ctx context.Context, tx bun.IDB, profile *Profile) (*Profile, error) {
	now := time.Now()
	profile.UpdatedAt = &now

	res, err := tx.NewUpdate().
		Model(profile).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to update profile")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, ErrProfileNotFound
	}

	return profile, nil
}

func (r *profiles) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.DeleteByUserIDTx(ctx, r.db, userID)
}

func (r *profiles) DeleteByUserIDTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*Profile)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to delete profile")
	}

	return nil
}
