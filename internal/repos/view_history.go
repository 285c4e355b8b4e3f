package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/qfeed/qfeed-backend/internal/logger"
  "github.com/qfeed/qfeed-backend/internal/types"
)

type ViewHistoryRepo interface {
  Create(ctx context.Context, tx *gorm.DB, history *types.ViewHistory) (*types.ViewHistory, error)
  Get(ctx context.Context, tx *gorm.DB, questionID, accountID uuid.UUID) (*types.ViewHistory, error)
}

type viewHistoryRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewViewHistoryRepo(db *gorm.DB, baseLog *logger.Logger) ViewHistoryRepo {
  repoLog := baseLog.With("repo", "ViewHistoryRepo")
  return &viewHistoryRepo{db: db, log: repoLog}
}

func (vr *viewHistoryRepo) Create(ctx context.Context, tx *gorm.DB, history *types.ViewHistory) (*types.ViewHistory, error) {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }
  if err := transaction.WithContext(ctx).Create(history).Error; err != nil {
    return nil, err
  }
  return history, nil
}

func (vr *viewHistoryRepo) Get(ctx context.Context, tx *gorm.DB, questionID, accountID uuid.UUID) (*types.ViewHistory, error) {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }
  var result types.ViewHistory
  if err := transaction.WithContext(ctx).
    Where("question_id = ? AND account_id = ?", questionID, accountID).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}
