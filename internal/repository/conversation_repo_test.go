package repository

import (
	"Murmur/internal/model"
	"context"
	"testing"
)

func TestPeerKey(t *testing.T) {
	if PeerKey(7, 3) != PeerKey(3, 7) {
		t.Fatal("peer key must not depend on argument order")
	}
	if PeerKey(3, 7) != "3:7" {
		t.Fatalf("PeerKey(3, 7) = %q, want \"3:7\"", PeerKey(3, 7))
	}
}

func TestGetOrCreateConversation(t *testing.T) {
	db := newTestDB(t)
	repo := NewConversationRepo(db)
	ctx := context.Background()

	first, err := repo.GetOrCreateConversation(ctx, 1, 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("conversation id should be assigned")
	}

	// 反向传参要命中同一个会话
	second, err := repo.GetOrCreateConversation(ctx, 2, 1)
	if err != nil {
		t.Fatalf("get existing: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("got conversation %d, want %d", second.ID, first.ID)
	}

	memberIDs, err := repo.GetMemberIDs(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetMemberIDs: %v", err)
	}
	if len(memberIDs) != 2 {
		t.Fatalf("members = %v, want both users", memberIDs)
	}
}

func TestIncrMaxSeq(t *testing.T) {
	db := newTestDB(t)
	repo := NewConversationRepo(db)
	ctx := context.Background()

	conversation, err := repo.GetOrCreateConversation(ctx, 1, 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	seq, err := repo.IncrMaxSeq(ctx, conversation.ID, 1, "first")
	if err != nil {
		t.Fatalf("IncrMaxSeq: %v", err)
	}
	if seq != 1 {
		t.Fatalf("seq = %d, want 1", seq)
	}

	seq, err = repo.IncrMaxSeq(ctx, conversation.ID, 2, "second")
	if err != nil {
		t.Fatalf("IncrMaxSeq: %v", err)
	}
	if seq != 2 {
		t.Fatalf("seq = %d, want 2", seq)
	}

	var row model.Conversation
	if err = db.First(&row, conversation.ID).Error; err != nil {
		t.Fatalf("load conversation: %v", err)
	}
	if row.MaxMsgSeq != 2 || row.LastMsgContent != "second" || row.LastSenderID != 2 {
		t.Fatalf("conversation row not refreshed: %+v", row)
	}
}

func TestUpdateReadSeqMonotonic(t *testing.T) {
	db := newTestDB(t)
	repo := NewConversationRepo(db)
	ctx := context.Background()

	conversation, err := repo.GetOrCreateConversation(ctx, 1, 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err = repo.UpdateReadSeq(ctx, conversation.ID, 1, 5); err != nil {
		t.Fatalf("UpdateReadSeq: %v", err)
	}
	// 乱序投递的小序号不能把已读游标拉回去
	if err = repo.UpdateReadSeq(ctx, conversation.ID, 1, 3); err != nil {
		t.Fatalf("UpdateReadSeq: %v", err)
	}

	var member model.ConversationMember
	if err = db.Where("conversation_id = ? AND user_id = ?", conversation.ID, 1).
		First(&member).Error; err != nil {
		t.Fatalf("load member: %v", err)
	}
	if member.ReadMsgSeq != 5 {
		t.Fatalf("read_msg_seq = %d, want 5", member.ReadMsgSeq)
	}
}
