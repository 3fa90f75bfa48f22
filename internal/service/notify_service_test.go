package service

import (
	"Murmur/internal/model"
	"Murmur/internal/pkg/consts"
	"Murmur/internal/pkg/util"
	"Murmur/internal/repository"
	"context"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newNotifyTestEnv(t *testing.T) (*gorm.DB, repository.ConversationRepo, NotifyService, *fakeSysBoxRepo, *fakePushSender) {
	t.Helper()

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

	convRepo := repository.NewConversationRepo(db)
	sysBox := &fakeSysBoxRepo{}
	sender := &fakePushSender{}
	svc := NewNotifyService(repository.NewUserRepo(db), convRepo, sysBox, sender)
	return db, convRepo, svc, sysBox, sender
}

func seedNotifyUser(t *testing.T, db *gorm.DB, id uint64, nickname string, pushToken string) {
	t.Helper()
	user := &model.User{
		ID:                   id,
		Username:             &nickname,
		Nickname:             nickname,
		NotificationsEnabled: true,
	}
	if pushToken != "" {
		user.PushToken = &pushToken
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

// 消息事件：给发送者之外的成员推预览，负载带上类型、会话与发送者
func TestNotifyNewMessage(t *testing.T) {
	db, convRepo, svc, _, sender := newNotifyTestEnv(t)
	ctx := context.Background()

	seedNotifyUser(t, db, 1, "alice", "tok-alice")
	seedNotifyUser(t, db, 2, "bob", "tok-bob")

	conv, err := convRepo.GetOrCreateConversation(ctx, 1, 2)
	if err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	if _, err = convRepo.IncrMaxSeq(ctx, conv.ID, 1, "hello"); err != nil {
		t.Fatalf("IncrMaxSeq: %v", err)
	}

	if err = svc.NotifyNewMessage(ctx, conv.ID); err != nil {
		t.Fatalf("NotifyNewMessage: %v", err)
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.sent) != 1 {
		t.Fatalf("pushes = %d, want 1", len(sender.sent))
	}
	// 只推给非发送方成员
	if sender.tokens[0] != "tok-bob" {
		t.Fatalf("pushed to %q, want recipient device", sender.tokens[0])
	}

	got := sender.sent[0]
	if got.Title != "alice" || got.Body != "hello" {
		t.Fatalf("title/body = %q/%q", got.Title, got.Body)
	}
	if got.Data["type"] != consts.PushTypeMessage {
		t.Fatalf("data type = %q", got.Data["type"])
	}
	if got.Data["conversation_id"] == "" {
		t.Fatal("data should carry conversation_id")
	}
	if got.Data["sender_id"] != "1" {
		t.Fatalf("data sender_id = %q, want \"1\"", got.Data["sender_id"])
	}
}

func TestNotifyNewMessageRecipientPreferences(t *testing.T) {
	db, convRepo, svc, _, sender := newNotifyTestEnv(t)
	ctx := context.Background()

	seedNotifyUser(t, db, 1, "alice", "tok-alice")
	// bob 注册了设备但关掉了通知开关
	seedNotifyUser(t, db, 2, "bob", "tok-bob")
	if err := db.Model(&model.User{}).Where("id = ?", 2).
		Update("notifications_enabled", false).Error; err != nil {
		t.Fatalf("disable notifications: %v", err)
	}
	// carol 没注册过设备
	seedNotifyUser(t, db, 3, "carol", "")

	for _, peerID := range []uint64{2, 3} {
		conv, err := convRepo.GetOrCreateConversation(ctx, 1, peerID)
		if err != nil {
			t.Fatalf("create conversation: %v", err)
		}
		if _, err = convRepo.IncrMaxSeq(ctx, conv.ID, 1, "hello"); err != nil {
			t.Fatalf("IncrMaxSeq: %v", err)
		}
		if err = svc.NotifyNewMessage(ctx, conv.ID); err != nil {
			t.Fatalf("NotifyNewMessage: %v", err)
		}
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.sent) != 0 {
		t.Fatalf("pushes = %d, want 0 for disabled and token-less recipients", len(sender.sent))
	}
}

// 推送正文取会话行上的预览，超长消息在发送侧已按字符截断
func TestNotifyNewMessagePreviewBody(t *testing.T) {
	db, convRepo, svc, _, sender := newNotifyTestEnv(t)
	ctx := context.Background()

	seedNotifyUser(t, db, 1, "alice", "tok-alice")
	seedNotifyUser(t, db, 2, "bob", "tok-bob")

	conv, err := convRepo.GetOrCreateConversation(ctx, 1, 2)
	if err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	long := strings.Repeat("啊", 120)
	preview := util.TruncateRunes(long, consts.MessagePreviewRunes, consts.MessagePreviewEllipsis)
	if _, err = convRepo.IncrMaxSeq(ctx, conv.ID, 1, preview); err != nil {
		t.Fatalf("IncrMaxSeq: %v", err)
	}

	if err = svc.NotifyNewMessage(ctx, conv.ID); err != nil {
		t.Fatalf("NotifyNewMessage: %v", err)
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.sent) != 1 {
		t.Fatalf("pushes = %d, want 1", len(sender.sent))
	}
	want := strings.Repeat("啊", consts.MessagePreviewRunes) + consts.MessagePreviewEllipsis
	if sender.sent[0].Body != want {
		t.Fatalf("body = %q (%d runes)", sender.sent[0].Body, len([]rune(sender.sent[0].Body)))
	}
}

func TestNotifyNewMessageDeletedConversation(t *testing.T) {
	_, _, svc, _, sender := newNotifyTestEnv(t)

	// 会话已随注销删除，事件作废
	if err := svc.NotifyNewMessage(context.Background(), 999); err != nil {
		t.Fatalf("NotifyNewMessage: %v", err)
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.sent) != 0 {
		t.Fatalf("pushes = %d, want 0", len(sender.sent))
	}
}

func TestNotifyFollowed(t *testing.T) {
	db, _, svc, sysBox, sender := newNotifyTestEnv(t)
	ctx := context.Background()

	seedNotifyUser(t, db, 1, "alice", "")
	seedNotifyUser(t, db, 2, "bob", "tok-bob")

	if err := svc.NotifyFollowed(ctx, 1, 2); err != nil {
		t.Fatalf("NotifyFollowed: %v", err)
	}

	sysBox.mu.Lock()
	if len(sysBox.notifications) != 1 || sysBox.notifications[0].ReceiverID != 2 {
		t.Fatalf("inbox notifications = %+v, want one for the followed user", sysBox.notifications)
	}
	sysBox.mu.Unlock()

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.sent) != 1 {
		t.Fatalf("pushes = %d, want 1", len(sender.sent))
	}
	got := sender.sent[0]
	// 关注事件要与聊天消息区分开，否则客户端会错误地深链到会话页
	if got.Data["type"] != consts.PushTypeFollow {
		t.Fatalf("data type = %q, want %q", got.Data["type"], consts.PushTypeFollow)
	}
	if got.Data["follower_id"] != "1" {
		t.Fatalf("data follower_id = %q, want \"1\"", got.Data["follower_id"])
	}
}
