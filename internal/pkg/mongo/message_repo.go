package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepo interface {
	SaveMessage(ctx context.Context, msg *Message) error
	GetHistory(ctx context.Context, convID uint64, lastSeq uint64, pageSize int) ([]*Message, error)
	DeleteByConversationIDs(ctx context.Context, convIDs []uint64) (int64, error)
}

type messageRepoImpl struct {
	col *mongo.Collection
}

func NewMessageRepo(db *mongo.Database) MessageRepo {
	return &messageRepoImpl{
		col: db.Collection("message"),
	}
}

// SaveMessage 将消息存入 MongoDB
func (s *messageRepoImpl) SaveMessage(ctx context.Context, msg *Message) error {
	_, err := s.col.InsertOne(ctx, msg)
	return err
}

// GetHistory 历史消息查询逻辑
// lastSeq 为当前页面最旧一条消息的序号。如果是第一页，传 0。
func (s *messageRepoImpl) GetHistory(ctx context.Context, convID uint64, lastSeq uint64, pageSize int) ([]*Message, error) {
	filter := bson.M{"conversation_id": convID}

	// 游标过滤：拉取比当前最旧序号更小的消息
	if lastSeq > 0 {
		filter["seq"] = bson.M{"$lt": lastSeq}
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "seq", Value: -1}}).
		SetLimit(int64(pageSize))

	cursor, err := s.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var messages []*Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	return messages, nil
}

// DeleteByConversationIDs 删除若干会话的全部消息，用于注销清理
func (s *messageRepoImpl) DeleteByConversationIDs(ctx context.Context, convIDs []uint64) (int64, error) {
	if len(convIDs) == 0 {
		return 0, nil
	}
	res, err := s.col.DeleteMany(ctx, bson.M{"conversation_id": bson.M{"$in": convIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
