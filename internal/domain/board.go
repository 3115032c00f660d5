package domain

import (
	"fmt"
	"time"
)

// to iterate thru layers: handler -> service -> storage
type PostCreationData struct {
	Title   string
	Content string
	Author  UserId
}

type PostMetadata struct {
	Id         PostId
	Title      string
	AuthorName string
	CreatedAt  time.Time
}

type Post struct {
	PostMetadata
	Content  string
	AuthorId UserId
}

// Comment carries the author id internally; the HTTP layer exposes only
// the anonymous label built from AnonIndex.
type Comment struct {
	Id        CommentId
	PostId    PostId
	AuthorId  UserId
	Content   string
	AnonIndex int // 0 when no alias row exists for the author
	CreatedAt time.Time
}

// AnonLabel formats the per-post pseudonym shown instead of the author name.
func AnonLabel(anonIndex int) string {
	if anonIndex <= 0 {
		return "익명"
	}
	return fmt.Sprintf("익명%d", anonIndex)
}
