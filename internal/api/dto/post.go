package dto

import "time"

type CreatePostDTO struct {
	Content  string  `json:"content" validate:"required,max=5000"`
	MediaURL *string `json:"media_url,omitempty"`
}

type PostDTO struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Content   string    `json:"content"`
	MediaURL  *string   `json:"media_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateCommentDTO struct {
	PostID  uint64 `json:"post_id" validate:"required"`
	Content string `json:"content" validate:"required,max=1000"`
}

type CommentDTO struct {
	ID        uint64    `json:"id"`
	PostID    uint64    `json:"post_id"`
	UserID    uint64    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
