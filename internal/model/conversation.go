package model

import "time"

// Conversation 单聊会话。MaxMsgSeq 在发消息时走事务自增，
// 该行的每一次序号增长即一条新消息事件，CDC 消费方据此触发推送
type Conversation struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	PeerKey        string    `gorm:"type:varchar(64);uniqueIndex:idx_peer_key" json:"peerKey"`
	MaxMsgSeq      uint64    `gorm:"not null;default:0" json:"maxMsgSeq"`
	LastMsgContent string    `gorm:"type:varchar(255)" json:"lastMsgContent"`
	LastSenderID   uint64    `json:"lastSenderId"`
	LastMessageAt  time.Time `json:"lastMessageAt"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (Conversation) TableName() string {
	return "conversations"
}

type ConversationMember struct {
	ConversationID uint64    `gorm:"primaryKey" json:"conversationId"`
	UserID         uint64    `gorm:"primaryKey;index:idx_member_user" json:"userId"`
	ReadMsgSeq     uint64    `gorm:"not null;default:0" json:"readMsgSeq"`
	JoinedAt       time.Time `json:"joinedAt"`

	Conversation Conversation `gorm:"foreignKey:ConversationID;references:ID" json:"conversation"`
}

func (ConversationMember) TableName() string {
	return "conversation_members"
}
