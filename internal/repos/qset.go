package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/qfeed/qfeed-backend/internal/logger"
  "github.com/qfeed/qfeed-backend/internal/types"
)

type QsetRepo interface {
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Qset, error)
  // GetNextExcluding returns the first qset by seed position whose id
  // is not in excludedIDs.
  GetNextExcluding(ctx context.Context, tx *gorm.DB, excludedIDs []uuid.UUID) (*types.Qset, error)
}

type qsetRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewQsetRepo(db *gorm.DB, baseLog *logger.Logger) QsetRepo {
  repoLog := baseLog.With("repo", "QsetRepo")
  return &qsetRepo{db: db, log: repoLog}
}

func (qr *qsetRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Qset, error) {
  transaction := tx
  if transaction == nil {
    transaction = qr.db
  }
  var result types.Qset
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (qr *qsetRepo) GetNextExcluding(ctx context.Context, tx *gorm.DB, excludedIDs []uuid.UUID) (*types.Qset, error) {
  transaction := tx
  if transaction == nil {
    transaction = qr.db
  }
  query := transaction.WithContext(ctx).Order("position ASC")
  if len(excludedIDs) > 0 {
    query = query.Where("id NOT IN ?", excludedIDs)
  }
  var result types.Qset
  if err := query.First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}
