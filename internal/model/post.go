package model

import "time"

// Post is a post joined with its author's public projection.
type Post struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	MediaURL  *string    `json:"mediaUrl"`
	CreatedAt time.Time  `json:"createdAt"`
	Author    PublicUser `json:"author"`
}
