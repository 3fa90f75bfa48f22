package service

import (
	"Murmur/internal/model"
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

type fakeNotifyService struct {
	mu       sync.Mutex
	followed int
}

func (f *fakeNotifyService) NotifyFollowed(context.Context, uint64, uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followed++
	return nil
}

func (f *fakeNotifyService) NotifyNewMessage(context.Context, uint64) error { return nil }

func newFollowTestEnv(t *testing.T) (*gorm.DB, UserFollowService, *fakeNotifyService) {
	t.Helper()

	// 缓存和脏集合都是旁路，指向打不通的地址时只产生告警日志
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

	if err = db.AutoMigrate(&model.User{}, &model.UserFollow{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	notify := &fakeNotifyService{}
	svc := NewUserFollowService(repository.NewUserRepo(db), repository.NewUserFollowRepo(db), notify)
	return db, svc, notify
}

func seedFollowUser(t *testing.T, db *gorm.DB, id uint64, username string) {
	t.Helper()
	if err := db.Create(&model.User{ID: id, Username: &username, Nickname: username}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func TestCreateUserFollow(t *testing.T) {
	db, svc, notify := newFollowTestEnv(t)
	ctx := context.Background()

	seedFollowUser(t, db, 1, "alice")
	seedFollowUser(t, db, 2, "bob")

	if err := svc.CreateUserFollow(ctx, 1, 2); err != nil {
		t.Fatalf("CreateUserFollow: %v", err)
	}

	following, err := svc.GetSomeoneIsFollowing(ctx, 1, 2)
	if err != nil {
		t.Fatalf("GetSomeoneIsFollowing: %v", err)
	}
	if !following {
		t.Fatal("edge should exist after follow")
	}

	// 重复关注直接拒绝，不产生第二条边
	if err = svc.CreateUserFollow(ctx, 1, 2); !errors.Is(err, ErrUserFollowExist) {
		t.Fatalf("err = %v, want ErrUserFollowExist", err)
	}

	// 站内信在旁路 goroutine 里发，等它落地
	deadline := time.Now().Add(2 * time.Second)
	for {
		notify.mu.Lock()
		count := notify.followed
		notify.mu.Unlock()
		if count == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("followed notifications = %d, want 1", count)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestCreateUserFollowGuards(t *testing.T) {
	db, svc, _ := newFollowTestEnv(t)
	ctx := context.Background()

	seedFollowUser(t, db, 1, "alice")

	if err := svc.CreateUserFollow(ctx, 1, 1); !errors.Is(err, ErrUserFollowSelf) {
		t.Fatalf("err = %v, want ErrUserFollowSelf", err)
	}
	if err := svc.CreateUserFollow(ctx, 1, 99); !errors.Is(err, ErrTargetUserInvalid) {
		t.Fatalf("err = %v, want ErrTargetUserInvalid", err)
	}
}

func TestDeleteUserFollow(t *testing.T) {
	db, svc, _ := newFollowTestEnv(t)
	ctx := context.Background()

	seedFollowUser(t, db, 1, "alice")
	seedFollowUser(t, db, 2, "bob")

	if err := svc.DeleteUserFollow(ctx, 1, 2); !errors.Is(err, ErrUserFollowNotFound) {
		t.Fatalf("err = %v, want ErrUserFollowNotFound", err)
	}

	if err := svc.CreateUserFollow(ctx, 1, 2); err != nil {
		t.Fatalf("CreateUserFollow: %v", err)
	}
	if err := svc.DeleteUserFollow(ctx, 1, 2); err != nil {
		t.Fatalf("DeleteUserFollow: %v", err)
	}

	following, err := svc.GetSomeoneIsFollowing(ctx, 1, 2)
	if err != nil {
		t.Fatalf("GetSomeoneIsFollowing: %v", err)
	}
	if following {
		t.Fatal("edge should be gone after unfollow")
	}
}

func TestReconcileCounts(t *testing.T) {
	db, svc, _ := newFollowTestEnv(t)
	ctx := context.Background()

	seedFollowUser(t, db, 1, "alice")
	seedFollowUser(t, db, 2, "bob")
	seedFollowUser(t, db, 3, "carol")

	if err := svc.CreateUserFollow(ctx, 2, 1); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := svc.CreateUserFollow(ctx, 3, 1); err != nil {
		t.Fatalf("follow: %v", err)
	}

	followerCount, followingCount, err := svc.ReconcileCounts(ctx, 1)
	if err != nil {
		t.Fatalf("ReconcileCounts: %v", err)
	}
	if followerCount != 2 || followingCount != 0 {
		t.Fatalf("counts = (%d, %d), want (2, 0)", followerCount, followingCount)
	}

	var user model.User
	if err = db.First(&user, 1).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.FollowerCount != 2 {
		t.Fatalf("stored follower_count = %d, want 2", user.FollowerCount)
	}
}
