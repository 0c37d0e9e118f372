package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"social-service/internal/models"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository abstracts profile persistence.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID int) (models.Profile, error)
	UserExists(ctx context.Context, userID int) (bool, error)
	DisplayNameTaken(ctx context.Context, displayName string, excludeUserID int) (bool, error)
	UpdateProfile(ctx context.Context, userID int, displayName, bio string) error
	SetCustomPicture(ctx context.Context, userID int, upload func(context.Context) error) error
	ResetPicture(ctx context.Context, userID int, remove func(context.Context) error) error
}

// ProfileRepo is a sqlx implementation of ProfileRepository.
type ProfileRepo struct {
	db *sqlx.DB
}

// NewProfileRepo constructs a ProfileRepo.
func NewProfileRepo(db *sqlx.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// GetProfile fetches a profile by user id.
func (r *ProfileRepo) GetProfile(ctx context.Context, userID int) (models.Profile, error) {
	var profile models.Profile
	err := r.db.GetContext(ctx, &profile, `SELECT user_id, display_name, bio, default_picture FROM profiles WHERE user_id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, ErrProfileNotFound
	}
	return profile, err
}

// UserExists reports whether a user row exists.
func (r *ProfileRepo) UserExists(ctx context.Context, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id=$1)`, userID)
	return exists, err
}

// DisplayNameTaken reports whether another profile already owns the name.
func (r *ProfileRepo) DisplayNameTaken(ctx context.Context, displayName string, excludeUserID int) (bool, error) {
	var taken bool
	err := r.db.GetContext(ctx, &taken, `SELECT EXISTS(SELECT 1 FROM profiles WHERE display_name=$1 AND user_id<>$2)`, displayName, excludeUserID)
	return taken, err
}

// UpdateProfile sets display name and bio on the user's own profile.
func (r *ProfileRepo) UpdateProfile(ctx context.Context, userID int, displayName, bio string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET display_name=$1, bio=$2 WHERE user_id=$3`, displayName, bio, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// SetCustomPicture flips default_picture off and runs the upload callback
// inside the same transaction. The row update happens first: if the upload
// fails the flag change rolls back, so the flag can never claim a custom
// image that was never stored. A failed commit after a successful upload is
// not compensated.
func (r *ProfileRepo) SetCustomPicture(ctx context.Context, userID int, upload func(context.Context) error) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := setDefaultPicture(ctx, tx, userID, false); err != nil {
			return err
		}
		return upload(ctx)
	})
}

// ResetPicture flips default_picture back on and runs the remove callback
// inside the same transaction, mirroring SetCustomPicture's ordering.
func (r *ProfileRepo) ResetPicture(ctx context.Context, userID int, remove func(context.Context) error) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := setDefaultPicture(ctx, tx, userID, true); err != nil {
			return err
		}
		return remove(ctx)
	})
}

func setDefaultPicture(ctx context.Context, tx *sqlx.Tx, userID int, value bool) error {
	res, err := tx.ExecContext(ctx, `UPDATE profiles SET default_picture=$1 WHERE user_id=$2`, value, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepo) inTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
