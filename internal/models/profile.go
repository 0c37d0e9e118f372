package models

// Profile holds the public-facing data attached 1:1 to a user.
type Profile struct {
	UserID         int    `db:"user_id" json:"userId"`
	DisplayName    string `db:"display_name" json:"displayName"`
	Bio            string `db:"bio" json:"bio"`
	DefaultPicture bool   `db:"default_picture" json:"-"`
}

// ProfileView is the viewer-scoped response for GET /profile/:userId.
// MutualFriends is present only when the viewer and target are neither
// the same user nor friends.
// The pointer keeps an empty mutual set distinguishable from an omitted
// one: strangers with no common friends still get "mutualFriends": [].
type ProfileView struct {
	DisplayName   string          `json:"displayName"`
	Bio           string          `json:"bio"`
	Picture       string          `json:"picture"`
	MutualFriends *[]MutualFriend `json:"mutualFriends,omitempty"`
}

// MutualFriend is a user who is friends with both viewer and target.
type MutualFriend struct {
	ID          int    `db:"id" json:"id"`
	DisplayName string `db:"display_name" json:"displayName"`
}
