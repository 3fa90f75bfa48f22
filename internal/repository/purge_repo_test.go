package repository

import (
	"Murmur/internal/model"
	"context"
	"testing"
)

func TestPurgeUserData(t *testing.T) {
	db := newTestDB(t)
	repo := NewPurgeRepo(db)
	ctx := context.Background()

	seedUser(t, db, 1)
	seedUser(t, db, 2)
	seedUser(t, db, 3)

	// 关注关系：2 关注 1，1 关注 3
	if err := db.Create(&model.UserFollow{FollowerID: 2, FollowingID: 1}).Error; err != nil {
		t.Fatalf("seed edge: %v", err)
	}
	if err := db.Create(&model.UserFollow{FollowerID: 1, FollowingID: 3}).Error; err != nil {
		t.Fatalf("seed edge: %v", err)
	}
	if err := db.Model(&model.User{}).Where("id = ?", 2).Update("following_count", 1).Error; err != nil {
		t.Fatalf("seed counts: %v", err)
	}
	if err := db.Model(&model.User{}).Where("id = ?", 3).Update("follower_count", 1).Error; err != nil {
		t.Fatalf("seed counts: %v", err)
	}

	// 帖子与评论：1 发帖，2 在帖下评论，1 在别人帖子下评论
	post := &model.Post{ID: 10, UserID: 1, Content: "hello"}
	otherPost := &model.Post{ID: 11, UserID: 2, Content: "world"}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	if err := db.Create(otherPost).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	if err := db.Create(&model.PostComment{PostID: 10, UserID: 2, Content: "nice"}).Error; err != nil {
		t.Fatalf("seed comment: %v", err)
	}
	if err := db.Create(&model.PostComment{PostID: 11, UserID: 1, Content: "thanks"}).Error; err != nil {
		t.Fatalf("seed comment: %v", err)
	}

	// 会话：conv 20 与用户 2 双人，conv 21 只剩自己（对端早已注销）
	if err := db.Create(&model.Conversation{ID: 20, PeerKey: "1:2"}).Error; err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	if err := db.Create(&model.Conversation{ID: 21, PeerKey: "1:9"}).Error; err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	members := []model.ConversationMember{
		{ConversationID: 20, UserID: 1},
		{ConversationID: 20, UserID: 2},
		{ConversationID: 21, UserID: 1},
	}
	for _, member := range members {
		if err := db.Create(&member).Error; err != nil {
			t.Fatalf("seed member: %v", err)
		}
	}

	if err := db.Create(&model.Transaction{UserID: 1, Type: model.TransactionTypeReward, Amount: 500}).Error; err != nil {
		t.Fatalf("seed transaction: %v", err)
	}

	result, err := repo.PurgeUserData(ctx, 1)
	if err != nil {
		t.Fatalf("PurgeUserData: %v", err)
	}
	if !result.Found {
		t.Fatal("expected Found = true")
	}

	var count int64
	db.Model(&model.User{}).Where("id = ?", 1).Count(&count)
	if count != 0 {
		t.Fatal("user row should be deleted")
	}

	// 自己的帖子和帖下评论、自己发出的评论都要清掉，别人的帖子不动
	db.Model(&model.Post{}).Count(&count)
	if count != 1 {
		t.Fatalf("posts remaining = %d, want 1", count)
	}
	db.Model(&model.PostComment{}).Count(&count)
	if count != 0 {
		t.Fatalf("comments remaining = %d, want 0", count)
	}

	// 双人会话保留但摘掉本人成员关系，单人会话连行一起删
	db.Model(&model.Conversation{}).Where("id = ?", 20).Count(&count)
	if count != 1 {
		t.Fatal("two-member conversation should survive")
	}
	db.Model(&model.Conversation{}).Where("id = ?", 21).Count(&count)
	if count != 0 {
		t.Fatal("sole-member conversation should be deleted")
	}
	db.Model(&model.ConversationMember{}).Where("user_id = ?", 1).Count(&count)
	if count != 0 {
		t.Fatal("memberships of purged user should be deleted")
	}
	if len(result.DeletedConversationIDs) != 1 || result.DeletedConversationIDs[0] != 21 {
		t.Fatalf("DeletedConversationIDs = %v, want [21]", result.DeletedConversationIDs)
	}

	// 双向关注边删掉，对端计数在同一事务里重算归零
	db.Model(&model.UserFollow{}).Count(&count)
	if count != 0 {
		t.Fatalf("edges remaining = %d, want 0", count)
	}
	var counterpart model.User
	if err = db.First(&counterpart, 2).Error; err != nil {
		t.Fatalf("load counterpart: %v", err)
	}
	if counterpart.FollowingCount != 0 {
		t.Fatalf("counterpart following_count = %d, want 0", counterpart.FollowingCount)
	}
	counterpart = model.User{}
	if err = db.First(&counterpart, 3).Error; err != nil {
		t.Fatalf("load counterpart: %v", err)
	}
	if counterpart.FollowerCount != 0 {
		t.Fatalf("counterpart follower_count = %d, want 0", counterpart.FollowerCount)
	}
	if len(result.CounterpartIDs) != 2 {
		t.Fatalf("CounterpartIDs = %v, want two entries", result.CounterpartIDs)
	}

	db.Model(&model.Transaction{}).Where("user_id = ?", 1).Count(&count)
	if count != 0 {
		t.Fatal("transactions of purged user should be deleted")
	}
}

func TestPurgeUserDataIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewPurgeRepo(db)
	ctx := context.Background()

	seedUser(t, db, 1)

	first, err := repo.PurgeUserData(ctx, 1)
	if err != nil {
		t.Fatalf("first purge: %v", err)
	}
	if !first.Found {
		t.Fatal("first purge should find the user")
	}

	// 重复投递：用户行已不存在，直接短路
	second, err := repo.PurgeUserData(ctx, 1)
	if err != nil {
		t.Fatalf("second purge: %v", err)
	}
	if second.Found {
		t.Fatal("second purge should short-circuit")
	}
}
