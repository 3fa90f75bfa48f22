package model

import "time"

type Post struct {
	ID        uint64  `gorm:"primaryKey" json:"id"`
	UserID    uint64  `gorm:"not null;index:idx_post_user" json:"userId"`
	Content   string  `gorm:"type:text" json:"content"`
	MediaURL  *string `gorm:"type:varchar(255)" json:"mediaUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Post) TableName() string {
	return "posts"
}
