package model

import "time"

type PostComment struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	PostID    uint64    `gorm:"not null;index:idx_comment_post" json:"postId"`
	UserID    uint64    `gorm:"not null;index:idx_comment_user" json:"userId"`
	Content   string    `gorm:"type:varchar(1000)" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (PostComment) TableName() string {
	return "post_comments"
}
