package mongo

import (
	"time"
)

// Message MongoDB 消息明细模型
type Message struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	ConversationID uint64    `bson:"conversation_id" json:"conversationId"` // 关联 MySQL 的会话 ID
	SenderID       uint64    `bson:"sender_id" json:"senderId"`
	Text           string    `bson:"text" json:"text"`
	Seq            uint64    `bson:"seq" json:"seq"` // 该消息在会话中的唯一绝对序号 (来自 MySQL)
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
}
