package services

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qfeed/qfeed-backend/internal/repos"
	"github.com/qfeed/qfeed-backend/internal/types"
)

type capturingEventBus struct {
	mu     sync.Mutex
	events []ChatEvent
}

func (b *capturingEventBus) Publish(ctx context.Context, event ChatEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *capturingEventBus) Close() error { return nil }

func newChatroomServiceForTest(t *testing.T, gdb *gorm.DB, bus ChatEventBus) ChatroomService {
	t.Helper()
	log := newTestLogger()
	return NewChatroomService(
		gdb,
		log,
		repos.NewAccountRepo(gdb, log),
		repos.NewChatroomRepo(gdb, log),
		repos.NewChatRepo(gdb, log),
		bus,
	)
}

func TestGetOrCreateChatroom_IsIdempotent(t *testing.T) {
	gdb := newTestDB(t)
	svc := newChatroomServiceForTest(t, gdb, NewNoopChatEventBus())
	owner := createTestAccount(t, gdb, "mina")
	target := createTestAccount(t, gdb, "juno")

	first, err := svc.GetOrCreateChatroom(context.Background(), owner.ID, target.ID, "hello")
	if err != nil {
		t.Fatalf("GetOrCreateChatroom failed: %v", err)
	}
	second, err := svc.GetOrCreateChatroom(context.Background(), owner.ID, target.ID, "hello")
	if err != nil {
		t.Fatalf("second GetOrCreateChatroom failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same room, got %s and %s", first.ID, second.ID)
	}

	// A different title opens a separate room.
	third, err := svc.GetOrCreateChatroom(context.Background(), owner.ID, target.ID, "other topic")
	if err != nil {
		t.Fatalf("GetOrCreateChatroom failed: %v", err)
	}
	if third.ID == first.ID {
		t.Fatalf("expected a new room for a new title")
	}
}

func TestGetOrCreateChatroom_Validation(t *testing.T) {
	gdb := newTestDB(t)
	svc := newChatroomServiceForTest(t, gdb, NewNoopChatEventBus())
	owner := createTestAccount(t, gdb, "mina")

	_, err := svc.GetOrCreateChatroom(context.Background(), owner.ID, owner.ID, "hello")
	wantStatus(t, err, http.StatusForbidden)

	target := createTestAccount(t, gdb, "juno")
	_, err = svc.GetOrCreateChatroom(context.Background(), owner.ID, target.ID, "   ")
	wantStatus(t, err, http.StatusBadRequest)

	_, err = svc.GetOrCreateChatroom(context.Background(), owner.ID, uuid.New(), "hello")
	wantStatus(t, err, http.StatusNotFound)
}

func TestCreateChat_BumpsOtherPartyUnread(t *testing.T) {
	gdb := newTestDB(t)
	bus := &capturingEventBus{}
	svc := newChatroomServiceForTest(t, gdb, bus)
	owner := createTestAccount(t, gdb, "mina")
	target := createTestAccount(t, gdb, "juno")

	room, err := svc.GetOrCreateChatroom(context.Background(), owner.ID, target.ID, "hello")
	if err != nil {
		t.Fatalf("GetOrCreateChatroom failed: %v", err)
	}
	if _, err := svc.CreateChat(context.Background(), owner.ID, room.ID, "hey"); err != nil {
		t.Fatalf("CreateChat failed: %v", err)
	}
	if _, err := svc.CreateChat(context.Background(), owner.ID, room.ID, "you there?"); err != nil {
		t.Fatalf("CreateChat failed: %v", err)
	}

	var reloaded types.Chatroom
	if err := gdb.Where("id = ?", room.ID).First(&reloaded).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.TargetUnreadCount != 2 || reloaded.OwnerUnreadCount != 0 {
		t.Fatalf("unexpected unread counts: owner=%d target=%d", reloaded.OwnerUnreadCount, reloaded.TargetUnreadCount)
	}
	if reloaded.LastMessage != "you there?" {
		t.Fatalf("expected last message to track, got %q", reloaded.LastMessage)
	}
	if len(bus.events) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(bus.events))
	}

	// A reply bumps the owner's counter instead.
	if _, err := svc.CreateChat(context.Background(), target.ID, room.ID, "here"); err != nil {
		t.Fatalf("reply failed: %v", err)
	}
	if err := gdb.Where("id = ?", room.ID).First(&reloaded).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.OwnerUnreadCount != 1 {
		t.Fatalf("expected owner unread 1, got %d", reloaded.OwnerUnreadCount)
	}
}

func TestCreateChat_RejectsNonParty(t *testing.T) {
	gdb := newTestDB(t)
	svc := newChatroomServiceForTest(t, gdb, NewNoopChatEventBus())
	owner := createTestAccount(t, gdb, "mina")
	target := createTestAccount(t, gdb, "juno")
	outsider := createTestAccount(t, gdb, "ray")

	room, err := svc.GetOrCreateChatroom(context.Background(), owner.ID, target.ID, "hello")
	if err != nil {
		t.Fatalf("GetOrCreateChatroom failed: %v", err)
	}
	_, err = svc.CreateChat(context.Background(), outsider.ID, room.ID, "hey")
	wantStatus(t, err, http.StatusForbidden)

	_, err = svc.CreateChat(context.Background(), owner.ID, room.ID, "   ")
	wantStatus(t, err, http.StatusBadRequest)

	_, err = svc.CreateChat(context.Background(), owner.ID, uuid.New(), "hey")
	wantStatus(t, err, http.StatusNotFound)
}

func TestFetchChats_ClearsCallerUnread(t *testing.T) {
	gdb := newTestDB(t)
	svc := newChatroomServiceForTest(t, gdb, NewNoopChatEventBus())
	owner := createTestAccount(t, gdb, "mina")
	target := createTestAccount(t, gdb, "juno")

	room, err := svc.GetOrCreateChatroom(context.Background(), owner.ID, target.ID, "hello")
	if err != nil {
		t.Fatalf("GetOrCreateChatroom failed: %v", err)
	}
	if _, err := svc.CreateChat(context.Background(), owner.ID, room.ID, "hey"); err != nil {
		t.Fatalf("CreateChat failed: %v", err)
	}

	chats, count, err := svc.FetchChats(context.Background(), target.ID, room.ID, 0, 10)
	if err != nil {
		t.Fatalf("FetchChats failed: %v", err)
	}
	if count != 1 || len(chats) != 1 || chats[0].Message != "hey" {
		t.Fatalf("unexpected chats: count=%d len=%d", count, len(chats))
	}

	var reloaded types.Chatroom
	if err := gdb.Where("id = ?", room.ID).First(&reloaded).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.TargetUnreadCount != 0 {
		t.Fatalf("expected cleared unread, got %d", reloaded.TargetUnreadCount)
	}

	_, _, err = svc.FetchChats(context.Background(), createTestAccount(t, gdb, "ray").ID, room.ID, 0, 10)
	wantStatus(t, err, http.StatusForbidden)
}

func TestFetchChatrooms_ListsBothSides(t *testing.T) {
	gdb := newTestDB(t)
	svc := newChatroomServiceForTest(t, gdb, NewNoopChatEventBus())
	owner := createTestAccount(t, gdb, "mina")
	target := createTestAccount(t, gdb, "juno")
	other := createTestAccount(t, gdb, "ray")

	if _, err := svc.GetOrCreateChatroom(context.Background(), owner.ID, target.ID, "hello"); err != nil {
		t.Fatalf("GetOrCreateChatroom failed: %v", err)
	}
	if _, err := svc.GetOrCreateChatroom(context.Background(), other.ID, target.ID, "hi"); err != nil {
		t.Fatalf("GetOrCreateChatroom failed: %v", err)
	}

	rooms, count, err := svc.FetchChatrooms(context.Background(), target.ID, 0, 10)
	if err != nil {
		t.Fatalf("FetchChatrooms failed: %v", err)
	}
	if count != 2 || len(rooms) != 2 {
		t.Fatalf("expected both rooms for the target, got count=%d", count)
	}

	rooms, count, err = svc.FetchChatrooms(context.Background(), owner.ID, 0, 10)
	if err != nil {
		t.Fatalf("FetchChatrooms failed: %v", err)
	}
	if count != 1 || len(rooms) != 1 {
		t.Fatalf("expected one room for the owner, got count=%d", count)
	}
}
