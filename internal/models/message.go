package models

import (
	"strings"
	"time"
)

// Message types as stored in the database.
const (
	TypeText    = "TEXT"
	TypeImage   = "IMAGE"
	TypeDeleted = "DELETED"
)

// Message is a direct message between two friends. Once Type is DELETED
// the content is empty and the row never transitions back.
type Message struct {
	ID       int       `db:"id" json:"id"`
	FromID   int       `db:"from_id" json:"from_id"`
	ToID     int       `db:"to_id" json:"to_id"`
	Content  string    `db:"content" json:"content"`
	Type     string    `db:"type" json:"type"`
	DateSent time.Time `db:"date_sent" json:"date_sent"`
}

// MessageView is the wire representation of a message for a given reader.
type MessageView struct {
	ID       int       `json:"id"`
	Content  string    `json:"content"`
	Type     string    `json:"type"`
	Me       bool      `json:"me"`
	DateSent time.Time `json:"dateSent"`
}

// View renders the message for the given reader with the type lowercased.
func (m Message) View(readerID int) MessageView {
	return MessageView{
		ID:       m.ID,
		Content:  m.Content,
		Type:     strings.ToLower(m.Type),
		Me:       m.FromID == readerID,
		DateSent: m.DateSent,
	}
}

// ConversationSummary is one entry of GET /messages/: the counterpart and
// the single most recent message exchanged with them.
type ConversationSummary struct {
	ID          int         `json:"id"`
	DisplayName string      `json:"displayName"`
	Picture     string      `json:"picture"`
	Message     MessageView `json:"message"`
}

// LatestMessage pairs a counterpart with the newest message in the thread.
type LatestMessage struct {
	CounterpartID  int    `db:"counterpart_id"`
	DisplayName    string `db:"display_name"`
	DefaultPicture bool   `db:"default_picture"`
	Message
}
