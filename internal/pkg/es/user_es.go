package es

// UserES 对应 user_index 的文档结构
type UserES struct {
	ID             uint64  `json:"id"`
	Username       string  `json:"username"`
	Nickname       string  `json:"nickname"`
	Bio            *string `json:"bio,omitempty"`
	Avatar         string  `json:"avatar"`
	FollowerCount  int64   `json:"follower_count"`
	FollowingCount int64   `json:"following_count"`
}
