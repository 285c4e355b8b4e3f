package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/qfeed/qfeed-backend/internal/logger"
  "github.com/qfeed/qfeed-backend/internal/types"
)

type ChatroomRepo interface {
  Create(ctx context.Context, tx *gorm.DB, chatroom *types.Chatroom) (*types.Chatroom, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Chatroom, error)
  GetByPairAndTitle(ctx context.Context, tx *gorm.DB, ownerID, targetAccountID uuid.UUID, title string) (*types.Chatroom, error)
  FetchByParty(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, offset, limit int) ([]*types.Chatroom, int64, error)
  Update(ctx context.Context, tx *gorm.DB, chatroom *types.Chatroom) (*types.Chatroom, error)
}

type chatroomRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewChatroomRepo(db *gorm.DB, baseLog *logger.Logger) ChatroomRepo {
  repoLog := baseLog.With("repo", "ChatroomRepo")
  return &chatroomRepo{db: db, log: repoLog}
}

func (cr *chatroomRepo) Create(ctx context.Context, tx *gorm.DB, chatroom *types.Chatroom) (*types.Chatroom, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  if err := transaction.WithContext(ctx).Omit(clause.Associations).Create(chatroom).Error; err != nil {
    return nil, err
  }
  return chatroom, nil
}

func (cr *chatroomRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Chatroom, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var result types.Chatroom
  if err := transaction.WithContext(ctx).
    Preload("Owner").
    Preload("TargetAccount").
    Where("id = ?", id).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (cr *chatroomRepo) GetByPairAndTitle(ctx context.Context, tx *gorm.DB, ownerID, targetAccountID uuid.UUID, title string) (*types.Chatroom, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var result types.Chatroom
  if err := transaction.WithContext(ctx).
    Preload("Owner").
    Preload("TargetAccount").
    Where("owner_id = ? AND target_account_id = ? AND title = ?", ownerID, targetAccountID, title).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (cr *chatroomRepo) FetchByParty(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, offset, limit int) ([]*types.Chatroom, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  query := transaction.WithContext(ctx).
    Model(&types.Chatroom{}).
    Where("owner_id = ? OR target_account_id = ?", accountID, accountID)

  var count int64
  if err := query.Count(&count).Error; err != nil {
    return nil, 0, err
  }
  var results []*types.Chatroom
  if err := query.Preload("Owner").
    Preload("TargetAccount").
    Order("updated_at DESC").
    Offset(offset).Limit(limit).
    Find(&results).Error; err != nil {
    return nil, 0, err
  }
  return results, count, nil
}

func (cr *chatroomRepo) Update(ctx context.Context, tx *gorm.DB, chatroom *types.Chatroom) (*types.Chatroom, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  if err := transaction.WithContext(ctx).Omit(clause.Associations).Save(chatroom).Error; err != nil {
    return nil, err
  }
  return chatroom, nil
}
