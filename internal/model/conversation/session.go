package conversation

import "time"

// Session binds an uploaded document and its dialogue history to an opaque
// identifier. DocumentText is the immutable extracted snapshot the citation
// pipeline reads; History is append-only.
type Session struct {
	ID           string    `json:"id"`
	DocumentText string    `json:"-"`
	History      []Turn    `json:"history"`
	CreatedAt    time.Time `json:"createdAt"`
}
