package services

import (
  "context"
  "net/http"
  "strings"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/qfeed/qfeed-backend/internal/apierr"
  "github.com/qfeed/qfeed-backend/internal/db"
  "github.com/qfeed/qfeed-backend/internal/logger"
  "github.com/qfeed/qfeed-backend/internal/repos"
  "github.com/qfeed/qfeed-backend/internal/types"
)

type ChatroomService interface {
  GetOrCreateChatroom(ctx context.Context, ownerID, targetAccountID uuid.UUID, title string) (*types.Chatroom, error)
  FetchChatrooms(ctx context.Context, accountID uuid.UUID, offset, limit int) ([]*types.Chatroom, int64, error)
  CreateChat(ctx context.Context, accountID, chatroomID uuid.UUID, message string) (*types.Chat, error)
  FetchChats(ctx context.Context, accountID, chatroomID uuid.UUID, offset, limit int) ([]*types.Chat, int64, error)
}

type chatroomService struct {
  db           *gorm.DB
  log          *logger.Logger
  accountRepo  repos.AccountRepo
  chatroomRepo repos.ChatroomRepo
  chatRepo     repos.ChatRepo
  eventBus     ChatEventBus
}

func NewChatroomService(
  pg *gorm.DB,
  log *logger.Logger,
  accountRepo repos.AccountRepo,
  chatroomRepo repos.ChatroomRepo,
  chatRepo repos.ChatRepo,
  eventBus ChatEventBus,
) ChatroomService {
  serviceLog := log.With("service", "ChatroomService")
  return &chatroomService{
    db:           pg,
    log:          serviceLog,
    accountRepo:  accountRepo,
    chatroomRepo: chatroomRepo,
    chatRepo:     chatRepo,
    eventBus:     eventBus,
  }
}

func (cs *chatroomService) GetOrCreateChatroom(ctx context.Context, ownerID, targetAccountID uuid.UUID, title string) (*types.Chatroom, error) {
  if ownerID == targetAccountID {
    return nil, apierr.Forbidden("cannot create a chatroom with yourself", nil)
  }
  title = strings.TrimSpace(title)
  if title == "" {
    return nil, apierr.BadRequest("title must not be empty", nil)
  }
  if _, err := cs.accountRepo.GetByID(ctx, nil, targetAccountID); err != nil {
    return nil, db.TranslateError(err, "target account not found")
  }

  existing, err := cs.chatroomRepo.GetByPairAndTitle(ctx, nil, ownerID, targetAccountID, title)
  if err == nil {
    return existing, nil
  }
  if translated := db.TranslateError(err, "chatroom lookup failed"); !apierr.IsStatus(translated, http.StatusNotFound) {
    return nil, translated
  }

  now := time.Now()
  chatroom := &types.Chatroom{
    ID:              uuid.New(),
    OwnerID:         ownerID,
    TargetAccountID: targetAccountID,
    Title:           title,
    Timestamps:      types.Timestamps{CreatedAt: now, UpdatedAt: now},
  }
  created, err := cs.chatroomRepo.Create(ctx, nil, chatroom)
  if err != nil {
    if db.IsDuplicate(err) {
      return cs.chatroomRepo.GetByPairAndTitle(ctx, nil, ownerID, targetAccountID, title)
    }
    return nil, db.TranslateError(err, "chatroom create failed")
  }
  return created, nil
}

func (cs *chatroomService) FetchChatrooms(ctx context.Context, accountID uuid.UUID, offset, limit int) ([]*types.Chatroom, int64, error) {
  chatrooms, count, err := cs.chatroomRepo.FetchByParty(ctx, nil, accountID, offset, limit)
  if err != nil {
    return nil, 0, db.TranslateError(err, "fetch chatrooms failed")
  }
  return chatrooms, count, nil
}

// CreateChat persists the message and bumps the other party's unread
// counter in one transaction, then publishes the event after commit.
func (cs *chatroomService) CreateChat(ctx context.Context, accountID, chatroomID uuid.UUID, message string) (*types.Chat, error) {
  message = strings.TrimSpace(message)
  if message == "" {
    return nil, apierr.BadRequest("message must not be empty", nil)
  }

  var chat *types.Chat
  err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    chatroom, err := cs.chatroomRepo.GetByID(ctx, tx, chatroomID)
    if err != nil {
      return db.TranslateError(err, "chatroom not found")
    }
    switch accountID {
    case chatroom.OwnerID:
      chatroom.TargetUnreadCount++
    case chatroom.TargetAccountID:
      chatroom.OwnerUnreadCount++
    default:
      return apierr.Forbidden("not a party of this chatroom", nil)
    }
    chatroom.LastMessage = message
    if _, err := cs.chatroomRepo.Update(ctx, tx, chatroom); err != nil {
      return db.TranslateError(err, "chatroom update failed")
    }

    now := time.Now()
    chat = &types.Chat{
      ID:         uuid.New(),
      ChatroomID: chatroom.ID,
      OwnerID:    accountID,
      Message:    message,
      Timestamps: types.Timestamps{CreatedAt: now, UpdatedAt: now},
    }
    if _, err := cs.chatRepo.Create(ctx, tx, chat); err != nil {
      return db.TranslateError(err, "chat create failed")
    }
    return nil
  })
  if err != nil {
    return nil, err
  }

  if cs.eventBus != nil {
    if err := cs.eventBus.Publish(ctx, NewChatEvent(chat)); err != nil {
      cs.log.Warn("Failed to publish chat event", "chatroom_id", chat.ChatroomID, "error", err)
    }
  }
  return chat, nil
}

// FetchChats lists messages newest first and clears the caller's
// unread counter.
func (cs *chatroomService) FetchChats(ctx context.Context, accountID, chatroomID uuid.UUID, offset, limit int) ([]*types.Chat, int64, error) {
  chatroom, err := cs.chatroomRepo.GetByID(ctx, nil, chatroomID)
  if err != nil {
    return nil, 0, db.TranslateError(err, "chatroom not found")
  }
  switch accountID {
  case chatroom.OwnerID:
    chatroom.OwnerUnreadCount = 0
  case chatroom.TargetAccountID:
    chatroom.TargetUnreadCount = 0
  default:
    return nil, 0, apierr.Forbidden("not a party of this chatroom", nil)
  }
  if _, err := cs.chatroomRepo.Update(ctx, nil, chatroom); err != nil {
    return nil, 0, db.TranslateError(err, "chatroom update failed")
  }
  chats, count, err := cs.chatRepo.FetchByChatroom(ctx, nil, chatroomID, offset, limit)
  if err != nil {
    return nil, 0, db.TranslateError(err, "fetch chats failed")
  }
  return chats, count, nil
}
