package dto

import "time"

// SendMessageReq 发送消息请求体，conversation_id 与 target_user_id 二选一
type SendMessageReq struct {
	ConversationID uint64 `json:"conversation_id"`
	TargetUserID   uint64 `json:"target_user_id"`
	Content        string `json:"content" validate:"required,max=5000"`
}

type MessageDTO struct {
	ID             string    `json:"id,omitempty"`
	ConversationID uint64    `json:"conversation_id"`
	SenderID       uint64    `json:"sender_id"`
	Content        string    `json:"content"`
	Seq            uint64    `json:"seq"`
	CreatedAt      time.Time `json:"created_at"`
}

type ConversationDTO struct {
	ConversationID uint64    `json:"conversation_id"`
	PeerID         uint64    `json:"peer_id"`
	LastMsgContent string    `json:"last_msg_content"`
	LastSenderID   uint64    `json:"last_sender_id"`
	LastMessageAt  time.Time `json:"last_message_at"`
	UnreadCount    uint64    `json:"unread_count"`
}

type MarkAsReadReq struct {
	ConversationID uint64 `json:"conversation_id" validate:"required"`
	Sequence       uint64 `json:"sequence" validate:"required"`
}
