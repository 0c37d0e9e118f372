package repositories

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"social-service/internal/models"
)

var ErrRequestNotFound = errors.New("friend request not found")

// FriendRepository abstracts friendships and pending friend requests.
type FriendRepository interface {
	AreFriends(ctx context.Context, userID, otherID int) (bool, error)
	GetMutuals(ctx context.Context, userID, otherID int) ([]models.MutualFriend, error)
	HasPendingRequest(ctx context.Context, fromID, toID int) (bool, error)
	CreateRequest(ctx context.Context, fromID, toID int) error
	AcceptRequest(ctx context.Context, fromID, toID int) error
	ListIncomingRequests(ctx context.Context, userID int) ([]models.IncomingRequest, error)
}

// FriendRepo is a sqlx implementation of FriendRepository.
type FriendRepo struct {
	db *sqlx.DB
}

// NewFriendRepo constructs a FriendRepo.
func NewFriendRepo(db *sqlx.DB) *FriendRepo {
	return &FriendRepo{db: db}
}

// AreFriends reports whether an accepted friendship links the two users.
func (r *FriendRepo) AreFriends(ctx context.Context, userID, otherID int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(
        SELECT 1 FROM friends f1
        JOIN friends f2 ON f2.friendship_id = f1.friendship_id
        WHERE f1.user_id=$1 AND f2.user_id=$2)`
	err := r.db.GetContext(ctx, &exists, query, userID, otherID)
	return exists, err
}

// GetMutuals returns every user who is friends with both arguments.
func (r *FriendRepo) GetMutuals(ctx context.Context, userID, otherID int) ([]models.MutualFriend, error) {
	query := `SELECT p.user_id AS id, p.display_name
        FROM profiles p
        WHERE p.user_id IN (
            SELECT f2.user_id FROM friends f1
            JOIN friends f2 ON f2.friendship_id = f1.friendship_id AND f2.user_id <> f1.user_id
            WHERE f1.user_id = $1
        )
        AND p.user_id IN (
            SELECT f2.user_id FROM friends f1
            JOIN friends f2 ON f2.friendship_id = f1.friendship_id AND f2.user_id <> f1.user_id
            WHERE f1.user_id = $2
        )
        ORDER BY p.user_id`
	var mutuals []models.MutualFriend
	err := r.db.SelectContext(ctx, &mutuals, query, userID, otherID)
	return mutuals, err
}

// HasPendingRequest reports whether fromID already has an open request to toID.
func (r *FriendRepo) HasPendingRequest(ctx context.Context, fromID, toID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM friend_requests WHERE from_id=$1 AND to_id=$2)`, fromID, toID)
	return exists, err
}

// CreateRequest records a pending friend request.
func (r *FriendRepo) CreateRequest(ctx context.Context, fromID, toID int) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO friend_requests (from_id, to_id) VALUES ($1, $2)`, fromID, toID)
	return err
}

// AcceptRequest turns a pending request into a friendship: the request row
// is removed and a friendship with two friend rows is created, all in one
// transaction.
func (r *FriendRepo) AcceptRequest(ctx context.Context, fromID, toID int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM friend_requests WHERE from_id=$1 AND to_id=$2`, fromID, toID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrRequestNotFound
	}

	var friendshipID int
	if err := tx.QueryRowxContext(ctx, `INSERT INTO friendships DEFAULT VALUES RETURNING id`).Scan(&friendshipID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO friends (friendship_id, user_id) VALUES ($1, $2), ($1, $3)`, friendshipID, fromID, toID); err != nil {
		return err
	}

	return tx.Commit()
}

// ListIncomingRequests returns open requests addressed to the user, newest
// first, joined with the requester's profile.
func (r *FriendRepo) ListIncomingRequests(ctx context.Context, userID int) ([]models.IncomingRequest, error) {
	query := `SELECT fr.from_id AS requester_id, p.display_name, p.default_picture
        FROM friend_requests fr
        JOIN profiles p ON p.user_id = fr.from_id
        WHERE fr.to_id = $1
        ORDER BY fr.created_at DESC`
	var requests []models.IncomingRequest
	err := r.db.SelectContext(ctx, &requests, query, userID)
	return requests, err
}
