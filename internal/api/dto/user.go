package dto

import "time"

type UserDTO struct {
	UserID         *uint64    `json:"user_id,omitempty"`
	Nickname       *string    `json:"nickname,omitempty" validate:"omitempty,min=1,max=15"`
	AvatarURL      *string    `json:"avatar_url,omitempty"`
	Bio            *string    `json:"bio,omitempty" validate:"omitempty,max=200"`
	FollowerCount  *int64     `json:"follower_count,omitempty"`
	FollowingCount *int64     `json:"following_count,omitempty"`
	PostsCount     *int64     `json:"posts_count,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}

// UserSettingsDTO 通知偏好与设备推送令牌，客户端随设置页与登录态变化上报
type UserSettingsDTO struct {
	NotificationsEnabled *bool   `json:"notifications_enabled,omitempty"`
	PushToken            *string `json:"push_token,omitempty" validate:"omitempty,max=255"`
}

type SearchUserDTO struct {
	Keyword string `json:"keyword" form:"keyword" validate:"required,min=1,max=50"`
}
