package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"social-service/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// MessageRepository abstracts direct-message persistence.
type MessageRepository interface {
	CreateMessage(ctx context.Context, fromID, toID int, content, msgType string) (models.Message, error)
	CreateImageMessage(ctx context.Context, fromID, toID int, upload func(context.Context) (string, error)) (models.Message, error)
	GetConversation(ctx context.Context, userID, otherID int) ([]models.Message, error)
	LatestPerCounterpart(ctx context.Context, userID int) ([]models.LatestMessage, error)
	GetMessage(ctx context.Context, messageID int) (models.Message, error)
	SoftDelete(ctx context.Context, messageID int, removeAsset func(context.Context) error) error
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

const messageColumns = `id, from_id, to_id, content, type, date_sent`

// CreateMessage stores a message row with the server-side send time.
func (r *MessageRepo) CreateMessage(ctx context.Context, fromID, toID int, content, msgType string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (from_id, to_id, content, type) VALUES ($1, $2, $3, $4) RETURNING `+messageColumns, fromID, toID, content, msgType).
		StructScan(&msg)
	return msg, err
}

// CreateImageMessage runs the upload callback inside a transaction and
// stores the returned URL as the message content. The upload happens before
// the insert because the URL is the content; an insert failure after a
// successful upload leaves an orphaned asset, which is accepted.
func (r *MessageRepo) CreateImageMessage(ctx context.Context, fromID, toID int, upload func(context.Context) (string, error)) (models.Message, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Message{}, err
	}
	defer func() { _ = tx.Rollback() }()

	url, err := upload(ctx)
	if err != nil {
		return models.Message{}, err
	}

	var msg models.Message
	if err := tx.QueryRowxContext(ctx, `INSERT INTO messages (from_id, to_id, content, type) VALUES ($1, $2, $3, $4) RETURNING `+messageColumns, fromID, toID, url, models.TypeImage).
		StructScan(&msg); err != nil {
		return models.Message{}, err
	}

	return msg, tx.Commit()
}

// GetConversation returns every message between the two users in send order.
func (r *MessageRepo) GetConversation(ctx context.Context, userID, otherID int) ([]models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages
        WHERE (from_id=$1 AND to_id=$2) OR (from_id=$2 AND to_id=$1)
        ORDER BY date_sent ASC, id ASC`
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, query, userID, otherID)
	return msgs, err
}

// LatestPerCounterpart returns, for every user the given user has exchanged
// messages with, the single most recent message, newest thread first.
func (r *MessageRepo) LatestPerCounterpart(ctx context.Context, userID int) ([]models.LatestMessage, error) {
	query := `SELECT latest.counterpart_id, p.display_name, p.default_picture,
            m.id, m.from_id, m.to_id, m.content, m.type, m.date_sent
        FROM (
            SELECT DISTINCT ON (CASE WHEN from_id=$1 THEN to_id ELSE from_id END)
                CASE WHEN from_id=$1 THEN to_id ELSE from_id END AS counterpart_id,
                id AS message_id
            FROM messages
            WHERE from_id=$1 OR to_id=$1
            ORDER BY CASE WHEN from_id=$1 THEN to_id ELSE from_id END, date_sent DESC, id DESC
        ) latest
        JOIN messages m ON m.id = latest.message_id
        JOIN profiles p ON p.user_id = latest.counterpart_id
        ORDER BY m.date_sent DESC`
	var latest []models.LatestMessage
	err := r.db.SelectContext(ctx, &latest, query, userID)
	return latest, err
}

// GetMessage retrieves a single message.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, `SELECT `+messageColumns+` FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// SoftDelete clears the content and marks the message DELETED, then runs the
// asset-removal callback inside the same transaction. The transition is
// one-way: an already deleted message counts as not found. A nil callback
// skips the image-store call.
func (r *MessageRepo) SoftDelete(ctx context.Context, messageID int, removeAsset func(context.Context) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE messages SET content='', type=$1 WHERE id=$2 AND type<>$1`, models.TypeDeleted, messageID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMessageNotFound
	}

	if removeAsset != nil {
		if err := removeAsset(ctx); err != nil {
			return err
		}
	}

	return tx.Commit()
}
