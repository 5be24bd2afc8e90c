package models

import "time"

// Thread is a discussion thread on the bulletin board.
type Thread struct {
	ID    string `db:"id" json:"id"`
	Title string `db:"title" json:"title"`
	AuthorRef
	CreatedTime time.Time `db:"created_at" json:"createdTime"`
	UpdatedTime time.Time `db:"updated_at" json:"updatedTime"`

	PostCount  int       `db:"-" json:"postCount"`
	LastActive time.Time `db:"-" json:"lastActive"`
	User       *User     `db:"-" json:"user,omitempty"`
	Posts      []Post    `db:"-" json:"posts,omitempty"`
}

// Post is a single reply inside a thread.
type Post struct {
	ID       string `db:"id" json:"id"`
	ThreadID string `db:"thread_id" json:"threadID"`
	Content  string `db:"content" json:"content"`
	AuthorRef
	CreatedTime time.Time `db:"created_at" json:"createdTime"`
	UpdatedTime time.Time `db:"updated_at" json:"updatedTime"`

	User *User `db:"-" json:"user,omitempty"`
}

// ThreadActivity holds the aggregates derived from a thread's posts.
type ThreadActivity struct {
	ThreadID   string     `db:"thread_id"`
	PostCount  int        `db:"post_count"`
	LastPostAt *time.Time `db:"last_post_at"`
}

// ThreadPreload lists the relations a thread listing may embed.
type ThreadPreload struct {
	User       bool
	Posts      bool
	PostsUsers bool
}

// ThreadFilter windows thread listings.
type ThreadFilter struct {
	Limit   int
	Offset  int
	Preload ThreadPreload
}

// PostFilter windows post listings for a thread.
type PostFilter struct {
	ThreadID string
	Limit    int
	Offset   int
	Preload  bool
}
