package repository

import (
	"Murmur/internal/model"
	"strconv"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个用例一个独立的内存库，单连接避免 SQLite 写锁冲突
func newTestDB(t *testing.T) *gorm.DB {
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

	err = db.AutoMigrate(
		&model.User{},
		&model.UserFollow{},
		&model.Conversation{},
		&model.ConversationMember{},
		&model.Post{},
		&model.PostComment{},
		&model.Transaction{},
		&model.RewardRule{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id uint64) *model.User {
	t.Helper()
	name := "user_" + strconv.FormatUint(id, 10)
	user := &model.User{
		ID:       id,
		Username: &name,
		Nickname: name,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %d: %v", id, err)
	}
	return user
}
