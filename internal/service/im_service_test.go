package service

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/model"
	"Murmur/internal/pkg/consts"
	"Murmur/internal/pkg/redis"
	"Murmur/internal/repository"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newIMTestEnv(t *testing.T) (*gorm.DB, IMService, *fakeMessageRepo) {
	t.Helper()

	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err = db.AutoMigrate(&model.User{}, &model.Conversation{}, &model.ConversationMember{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	messages := &fakeMessageRepo{}
	svc := NewIMService(repository.NewConversationRepo(db), repository.NewUserRepo(db), messages)
	t.Cleanup(svc.Close)
	return db, svc, messages
}

func seedIMUser(t *testing.T, db *gorm.DB, id uint64, username string) {
	t.Helper()
	if err := db.Create(&model.User{ID: id, Username: &username, Nickname: username}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func TestSendMessage(t *testing.T) {
	db, svc, messages := newIMTestEnv(t)
	ctx := context.Background()

	seedIMUser(t, db, 1, "alice")
	seedIMUser(t, db, 2, "bob")

	// 首聊不带会话 ID，按目标用户建会话
	first, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 2, Content: "hello"})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if first.Seq != 1 {
		t.Fatalf("first seq = %d, want 1", first.Seq)
	}
	if first.ConversationID == 0 {
		t.Fatal("conversation id should be assigned")
	}

	second, err := svc.SendMessage(ctx, 2, &dto.SendMessageReq{ConversationID: first.ConversationID, Content: "hi"})
	if err != nil {
		t.Fatalf("SendMessage reply: %v", err)
	}
	if second.Seq != 2 {
		t.Fatalf("second seq = %d, want 2", second.Seq)
	}

	messages.mu.Lock()
	savedCount := len(messages.saved)
	messages.mu.Unlock()
	if savedCount != 2 {
		t.Fatalf("saved messages = %d, want 2", savedCount)
	}

	var conv model.Conversation
	if err = db.First(&conv, first.ConversationID).Error; err != nil {
		t.Fatalf("load conversation: %v", err)
	}
	if conv.MaxMsgSeq != 2 || conv.LastMsgContent != "hi" || conv.LastSenderID != 2 {
		t.Fatalf("conversation row not refreshed: %+v", conv)
	}
}

func TestSendMessagePreviewTruncated(t *testing.T) {
	db, svc, _ := newIMTestEnv(t)
	ctx := context.Background()

	seedIMUser(t, db, 1, "alice")
	seedIMUser(t, db, 2, "bob")

	long := strings.Repeat("啊", 120)
	sent, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 2, Content: long})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	// 消息正文完整保留
	if sent.Content != long {
		t.Fatal("message body should not be truncated")
	}

	var conv model.Conversation
	if err = db.First(&conv, sent.ConversationID).Error; err != nil {
		t.Fatalf("load conversation: %v", err)
	}
	// 会话预览按字符截断
	wantPreview := strings.Repeat("啊", consts.MessagePreviewRunes) + consts.MessagePreviewEllipsis
	if conv.LastMsgContent != wantPreview {
		t.Fatalf("preview = %q (%d runes)", conv.LastMsgContent, len([]rune(conv.LastMsgContent)))
	}
}

func TestSendMessageGuards(t *testing.T) {
	db, svc, _ := newIMTestEnv(t)
	ctx := context.Background()

	seedIMUser(t, db, 1, "alice")
	seedIMUser(t, db, 2, "bob")
	seedIMUser(t, db, 3, "carol")

	if _, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 1, Content: "self"}); !errors.Is(err, ErrTargetUserInvalid) {
		t.Fatalf("self target err = %v, want ErrTargetUserInvalid", err)
	}
	if _, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 99, Content: "ghost"}); !errors.Is(err, ErrTargetUserInvalid) {
		t.Fatalf("missing target err = %v, want ErrTargetUserInvalid", err)
	}

	sent, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 2, Content: "hello"})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	// 非会话成员不能往别人的会话里发消息
	if _, err = svc.SendMessage(ctx, 3, &dto.SendMessageReq{ConversationID: sent.ConversationID, Content: "intrude"}); !errors.Is(err, UnauthorizedError) {
		t.Fatalf("outsider err = %v, want UnauthorizedError", err)
	}
}

func TestMarkAsReadClamp(t *testing.T) {
	db, svc, _ := newIMTestEnv(t)
	ctx := context.Background()

	seedIMUser(t, db, 1, "alice")
	seedIMUser(t, db, 2, "bob")

	sent, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 2, Content: "hello"})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	// 超过当前最大序号时夹到 MaxMsgSeq
	if err = svc.MarkAsRead(ctx, 2, sent.ConversationID, 999); err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}

	var member model.ConversationMember
	if err = db.Where("conversation_id = ? AND user_id = ?", sent.ConversationID, 2).
		First(&member).Error; err != nil {
		t.Fatalf("load member: %v", err)
	}
	if member.ReadMsgSeq != 1 {
		t.Fatalf("read_msg_seq = %d, want clamped to 1", member.ReadMsgSeq)
	}
}
