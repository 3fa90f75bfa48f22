package service

import (
	"Murmur/internal/model"
	mongorepo "Murmur/internal/pkg/mongo"
	"Murmur/internal/pkg/redis"
	"Murmur/internal/repository"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeMessageRepo struct {
	mu             sync.Mutex
	saved          []*mongorepo.Message
	deletedConvIDs []uint64
}

func (f *fakeMessageRepo) SaveMessage(_ context.Context, msg *mongorepo.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, msg)
	return nil
}

func (f *fakeMessageRepo) GetHistory(context.Context, uint64, uint64, int) ([]*mongorepo.Message, error) {
	return nil, nil
}

func (f *fakeMessageRepo) DeleteByConversationIDs(_ context.Context, convIDs []uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedConvIDs = append(f.deletedConvIDs, convIDs...)
	return int64(len(convIDs)), nil
}

func newPurgeTestEnv(t *testing.T) (*gorm.DB, PurgeService, *fakeMessageRepo) {
	t.Helper()

	// 吊销标记要写 Redis，指向打不通的地址时注销必须报未完成
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

	err = db.AutoMigrate(
		&model.User{},
		&model.UserFollow{},
		&model.Conversation{},
		&model.ConversationMember{},
		&model.Post{},
		&model.PostComment{},
		&model.Transaction{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	messages := &fakeMessageRepo{}
	svc := NewPurgeService(repository.NewPurgeRepo(db), messages, &fakeSysBoxRepo{})
	return db, svc, messages
}

func TestPurgeUserRevocationRequired(t *testing.T) {
	db, svc, messages := newPurgeTestEnv(t)
	ctx := context.Background()

	username := "doomed"
	if err := db.Create(&model.User{ID: 1, Username: &username, Nickname: username}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	// 对端早已注销的会话，注销时要连会话行一起删并清消息体
	if err := db.Create(&model.Conversation{ID: 21, PeerKey: "1:9"}).Error; err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	if err := db.Create(&model.ConversationMember{ConversationID: 21, UserID: 1}).Error; err != nil {
		t.Fatalf("seed member: %v", err)
	}

	// Redis 打不通，吊销标记写不进去，注销要报未完成
	err := svc.PurgeUser(ctx, 1)
	if !errors.Is(err, ErrPurgeIncomplete) {
		t.Fatalf("err = %v, want ErrPurgeIncomplete", err)
	}

	// 关系型数据的第一阶段已经提交，不随吊销失败回滚
	var count int64
	db.Model(&model.User{}).Where("id = ?", 1).Count(&count)
	if count != 0 {
		t.Fatal("user row should be deleted despite revocation failure")
	}

	messages.mu.Lock()
	deleted := append([]uint64(nil), messages.deletedConvIDs...)
	messages.mu.Unlock()
	if len(deleted) != 1 || deleted[0] != 21 {
		t.Fatalf("message cleanup conv ids = %v, want [21]", deleted)
	}

	// 重试走短路分支，仍要再试一次吊销
	err = svc.PurgeUser(ctx, 1)
	if !errors.Is(err, ErrPurgeIncomplete) {
		t.Fatalf("retry err = %v, want ErrPurgeIncomplete", err)
	}
}
