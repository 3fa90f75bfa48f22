package dto

// SysBoxDTO 系统通知返回对象
type SysBoxDTO struct {
	ID        string         `json:"id"`
	SenderID  uint64         `json:"sender_id"`
	Type      int8           `json:"type"` // 1-被关注, 2-奖励到账
	Content   string         `json:"content"`
	Payload   map[string]any `json:"payload"`
	IsRead    bool           `json:"is_read"`
	CreatedAt string         `json:"created_at"`
}

type SysBoxUnreadDTO struct {
	UnreadCount int64 `json:"unread_count"`
}
