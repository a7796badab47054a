package models

import "time"

// Post is a single short message. Posts are immutable once stored.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// FeedEntry pairs a post with the public projection of its author.
type FeedEntry struct {
	Post   Post `json:"post"`
	Author User `json:"author"`
}
