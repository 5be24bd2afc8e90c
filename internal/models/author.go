package models

import "strings"

// AuthorRef identifies who wrote a piece of content. Imported legacy content may only
// carry an external display name.
type AuthorRef struct {
	UserID     *string `db:"user_id" json:"userID,omitempty"`
	ExUserName string  `db:"ex_user_name" json:"exUserName,omitempty"`
}

// Valid reports whether the reference resolves to a user id or a non-empty external name.
func (a AuthorRef) Valid() bool {
	if a.UserID != nil && *a.UserID != "" {
		return true
	}
	return strings.TrimSpace(a.ExUserName) != ""
}

// OwnerID returns the owning user id, empty for external authors.
func (a AuthorRef) OwnerID() string {
	if a.UserID == nil {
		return ""
	}
	return *a.UserID
}

// AuthorFromToken builds the reference for content created by the token holder.
func AuthorFromToken(token *AccessToken) AuthorRef {
	if token == nil || token.UserID == "" {
		return AuthorRef{}
	}
	id := token.UserID
	return AuthorRef{UserID: &id}
}

// Owned is implemented by every entity with an author.
type Owned interface {
	OwnerID() string
}

// User is the public projection of an account managed by the identity service.
type User struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
