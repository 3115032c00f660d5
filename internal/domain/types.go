package domain

type (
	Email    = string
	Password = string
	UserId   = int64

	PostId    = int64
	CommentId = int64

	SessionToken = string
)
