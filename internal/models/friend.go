package models

import "time"

// Friendship groups exactly two Friend rows under one id.
type Friendship struct {
	ID int `db:"id" json:"id"`
}

// Friend is one side of a friendship.
type Friend struct {
	ID           int `db:"id" json:"id"`
	FriendshipID int `db:"friendship_id" json:"friendship_id"`
	UserID       int `db:"user_id" json:"user_id"`
}

// FriendRequest is a pending, not yet accepted request. Accepting it
// replaces the row with a Friendship and two Friend rows.
type FriendRequest struct {
	ID        int       `db:"id" json:"id"`
	FromID    int       `db:"from_id" json:"from_id"`
	ToID      int       `db:"to_id" json:"to_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// IncomingRequest is an API-friendly view of a pending request addressed
// to the authenticated user.
type IncomingRequest struct {
	RequesterID    int    `db:"requester_id" json:"id"`
	DisplayName    string `db:"display_name" json:"displayName"`
	Picture        string `json:"picture"`
	DefaultPicture bool   `db:"default_picture" json:"-"`
}
