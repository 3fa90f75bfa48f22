package repository

import (
	"Murmur/internal/model"
	"context"
	"testing"
)

func TestSyncFollowCounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserFollowRepo(db)
	ctx := context.Background()

	seedUser(t, db, 1)
	seedUser(t, db, 2)
	seedUser(t, db, 3)

	// 2、3 关注 1，1 关注 2
	edges := []model.UserFollow{
		{FollowerID: 2, FollowingID: 1},
		{FollowerID: 3, FollowingID: 1},
		{FollowerID: 1, FollowingID: 2},
	}
	for _, edge := range edges {
		if err := db.Create(&edge).Error; err != nil {
			t.Fatalf("seed edge: %v", err)
		}
	}

	// 冗余计数先写成错的，对账必须以边表为准覆盖掉
	if err := db.Model(&model.User{}).Where("id = ?", 1).
		Updates(map[string]any{"follower_count": 99, "following_count": 99}).Error; err != nil {
		t.Fatalf("corrupt counts: %v", err)
	}

	followerCount, followingCount, err := repo.SyncFollowCounts(ctx, 1)
	if err != nil {
		t.Fatalf("SyncFollowCounts: %v", err)
	}
	if followerCount != 2 || followingCount != 1 {
		t.Fatalf("got counts (%d, %d), want (2, 1)", followerCount, followingCount)
	}

	var user model.User
	if err = db.First(&user, 1).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.FollowerCount != 2 || user.FollowingCount != 1 {
		t.Fatalf("stored counts (%d, %d), want (2, 1)", user.FollowerCount, user.FollowingCount)
	}

	// 重复对账不改变结果
	followerCount, followingCount, err = repo.SyncFollowCounts(ctx, 1)
	if err != nil {
		t.Fatalf("second SyncFollowCounts: %v", err)
	}
	if followerCount != 2 || followingCount != 1 {
		t.Fatalf("second sync got (%d, %d), want (2, 1)", followerCount, followingCount)
	}
}

func TestSyncFollowCountsNoEdges(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserFollowRepo(db)

	seedUser(t, db, 1)
	if err := db.Model(&model.User{}).Where("id = ?", 1).
		Update("follower_count", 7).Error; err != nil {
		t.Fatalf("corrupt counts: %v", err)
	}

	followerCount, followingCount, err := repo.SyncFollowCounts(context.Background(), 1)
	if err != nil {
		t.Fatalf("SyncFollowCounts: %v", err)
	}
	if followerCount != 0 || followingCount != 0 {
		t.Fatalf("got (%d, %d), want (0, 0)", followerCount, followingCount)
	}
}

func TestGetUserFollowNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserFollowRepo(db)

	follow, err := repo.GetUserFollow(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("GetUserFollow: %v", err)
	}
	if follow != nil {
		t.Fatalf("expected nil for missing edge, got %+v", follow)
	}
}

func TestGetFollowerIDListCursor(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserFollowRepo(db)
	ctx := context.Background()

	for id := uint64(1); id <= 6; id++ {
		seedUser(t, db, id)
	}
	for id := uint64(2); id <= 6; id++ {
		if err := db.Create(&model.UserFollow{FollowerID: id, FollowingID: 1}).Error; err != nil {
			t.Fatalf("seed edge: %v", err)
		}
	}

	first, err := repo.GetFollowerIDList(ctx, 1, 0, 3)
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("first page len = %d, want 3", len(first))
	}

	second, err := repo.GetFollowerIDList(ctx, 1, first[len(first)-1], 3)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("second page len = %d, want 2", len(second))
	}

	seen := make(map[uint64]bool)
	for _, id := range append(first, second...) {
		if seen[id] {
			t.Fatalf("duplicate id %d across pages", id)
		}
		seen[id] = true
	}
}
