package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/qfeed/qfeed-backend/internal/logger"
  "github.com/qfeed/qfeed-backend/internal/types"
)

type ChatRepo interface {
  Create(ctx context.Context, tx *gorm.DB, chat *types.Chat) (*types.Chat, error)
  FetchByChatroom(ctx context.Context, tx *gorm.DB, chatroomID uuid.UUID, offset, limit int) ([]*types.Chat, int64, error)
}

type chatRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewChatRepo(db *gorm.DB, baseLog *logger.Logger) ChatRepo {
  repoLog := baseLog.With("repo", "ChatRepo")
  return &chatRepo{db: db, log: repoLog}
}

func (cr *chatRepo) Create(ctx context.Context, tx *gorm.DB, chat *types.Chat) (*types.Chat, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  if err := transaction.WithContext(ctx).Omit(clause.Associations).Create(chat).Error; err != nil {
    return nil, err
  }
  return chat, nil
}

func (cr *chatRepo) FetchByChatroom(ctx context.Context, tx *gorm.DB, chatroomID uuid.UUID, offset, limit int) ([]*types.Chat, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  query := transaction.WithContext(ctx).
    Model(&types.Chat{}).
    Where("chatroom_id = ?", chatroomID)

  var count int64
  if err := query.Count(&count).Error; err != nil {
    return nil, 0, err
  }
  var results []*types.Chat
  if err := query.Preload("Owner").
    Order("created_at DESC").
    Offset(offset).Limit(limit).
    Find(&results).Error; err != nil {
    return nil, 0, err
  }
  return results, count, nil
}
