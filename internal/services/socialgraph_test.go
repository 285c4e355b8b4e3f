package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qfeed/qfeed-backend/internal/repos"
	"github.com/qfeed/qfeed-backend/internal/types"
)

func newSocialGraphServiceForTest(t *testing.T, gdb *gorm.DB) SocialGraphService {
	t.Helper()
	log := newTestLogger()
	return NewSocialGraphService(
		gdb,
		log,
		repos.NewAccountRepo(gdb, log),
		repos.NewFollowRepo(gdb, log),
		repos.NewBlockRepo(gdb, log),
	)
}

func TestFollow_CreatesEdgeOnce(t *testing.T) {
	gdb := newTestDB(t)
	svc := newSocialGraphServiceForTest(t, gdb)
	a := createTestAccount(t, gdb, "mina")
	b := createTestAccount(t, gdb, "juno")

	follow, err := svc.Follow(context.Background(), a.ID, b.ID)
	if err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if follow.AccountID != a.ID || follow.TargetAccountID != b.ID {
		t.Fatalf("unexpected edge: %+v", follow)
	}

	_, err = svc.Follow(context.Background(), a.ID, b.ID)
	wantStatus(t, err, http.StatusConflict)
}

func TestFollow_Validation(t *testing.T) {
	gdb := newTestDB(t)
	svc := newSocialGraphServiceForTest(t, gdb)
	a := createTestAccount(t, gdb, "mina")

	_, err := svc.Follow(context.Background(), a.ID, a.ID)
	wantStatus(t, err, http.StatusBadRequest)

	_, err = svc.Follow(context.Background(), a.ID, uuid.New())
	wantStatus(t, err, http.StatusNotFound)
}

func TestUnfollow_RemovesEdge(t *testing.T) {
	gdb := newTestDB(t)
	svc := newSocialGraphServiceForTest(t, gdb)
	a := createTestAccount(t, gdb, "mina")
	b := createTestAccount(t, gdb, "juno")

	if _, err := svc.Follow(context.Background(), a.ID, b.ID); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if err := svc.Unfollow(context.Background(), a.ID, b.ID); err != nil {
		t.Fatalf("Unfollow failed: %v", err)
	}
	err := svc.Unfollow(context.Background(), a.ID, b.ID)
	wantStatus(t, err, http.StatusNotFound)
}

func TestBlock_SeversFollowsBothWays(t *testing.T) {
	gdb := newTestDB(t)
	svc := newSocialGraphServiceForTest(t, gdb)
	a := createTestAccount(t, gdb, "mina")
	b := createTestAccount(t, gdb, "juno")

	if _, err := svc.Follow(context.Background(), a.ID, b.ID); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if _, err := svc.Follow(context.Background(), b.ID, a.ID); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if _, err := svc.Block(context.Background(), a.ID, b.ID); err != nil {
		t.Fatalf("Block failed: %v", err)
	}

	var followCount int64
	if err := gdb.Model(&types.Follow{}).Count(&followCount).Error; err != nil {
		t.Fatalf("follow count failed: %v", err)
	}
	if followCount != 0 {
		t.Fatalf("expected all follow edges removed, got %d", followCount)
	}

	_, err := svc.Block(context.Background(), a.ID, b.ID)
	wantStatus(t, err, http.StatusConflict)
}

func TestUnblock_RemovesEdge(t *testing.T) {
	gdb := newTestDB(t)
	svc := newSocialGraphServiceForTest(t, gdb)
	a := createTestAccount(t, gdb, "mina")
	b := createTestAccount(t, gdb, "juno")

	if _, err := svc.Block(context.Background(), a.ID, b.ID); err != nil {
		t.Fatalf("Block failed: %v", err)
	}
	if err := svc.Unblock(context.Background(), a.ID, b.ID); err != nil {
		t.Fatalf("Unblock failed: %v", err)
	}
	err := svc.Unblock(context.Background(), a.ID, b.ID)
	wantStatus(t, err, http.StatusNotFound)
}

func TestFetchListings(t *testing.T) {
	gdb := newTestDB(t)
	svc := newSocialGraphServiceForTest(t, gdb)
	a := createTestAccount(t, gdb, "mina")
	b := createTestAccount(t, gdb, "juno")
	c := createTestAccount(t, gdb, "ray")

	if _, err := svc.Follow(context.Background(), a.ID, b.ID); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if _, err := svc.Follow(context.Background(), c.ID, a.ID); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if _, err := svc.Block(context.Background(), a.ID, c.ID); err != nil {
		t.Fatalf("Block failed: %v", err)
	}

	followings, count, err := svc.FetchFollowings(context.Background(), a.ID, 0, 10)
	if err != nil {
		t.Fatalf("FetchFollowings failed: %v", err)
	}
	if count != 1 || len(followings) != 1 || followings[0].TargetAccountID != b.ID {
		t.Fatalf("unexpected followings: count=%d", count)
	}

	followers, count, err := svc.FetchFollowers(context.Background(), b.ID, 0, 10)
	if err != nil {
		t.Fatalf("FetchFollowers failed: %v", err)
	}
	if count != 1 || len(followers) != 1 || followers[0].AccountID != a.ID {
		t.Fatalf("unexpected followers: count=%d", count)
	}

	blocks, count, err := svc.FetchBlockings(context.Background(), a.ID, 0, 10)
	if err != nil {
		t.Fatalf("FetchBlockings failed: %v", err)
	}
	if count != 1 || len(blocks) != 1 || blocks[0].TargetAccountID != c.ID {
		t.Fatalf("unexpected blockings: count=%d", count)
	}
}
