package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/qfeed/qfeed-backend/internal/logger"
  "github.com/qfeed/qfeed-backend/internal/types"
)

type BlockRepo interface {
  Create(ctx context.Context, tx *gorm.DB, block *types.Block) (*types.Block, error)
  FetchBlockings(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, offset, limit int) ([]*types.Block, int64, error)
  BlockedIDs(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) ([]uuid.UUID, error)
  Delete(ctx context.Context, tx *gorm.DB, accountID, targetAccountID uuid.UUID) (int64, error)
}

type blockRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewBlockRepo(db *gorm.DB, baseLog *logger.Logger) BlockRepo {
  repoLog := baseLog.With("repo", "BlockRepo")
  return &blockRepo{db: db, log: repoLog}
}

func (br *blockRepo) Create(ctx context.Context, tx *gorm.DB, block *types.Block) (*types.Block, error) {
  transaction := tx
  if transaction == nil {
    transaction = br.db
  }
  if err := transaction.WithContext(ctx).Create(block).Error; err != nil {
    return nil, err
  }
  return block, nil
}

func (br *blockRepo) FetchBlockings(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, offset, limit int) ([]*types.Block, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = br.db
  }
  query := transaction.WithContext(ctx).
    Model(&types.Block{}).
    Where("account_id = ?", accountID)

  var count int64
  if err := query.Count(&count).Error; err != nil {
    return nil, 0, err
  }
  var results []*types.Block
  if err := query.Preload("TargetAccount").Offset(offset).Limit(limit).Find(&results).Error; err != nil {
    return nil, 0, err
  }
  return results, count, nil
}

func (br *blockRepo) BlockedIDs(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) ([]uuid.UUID, error) {
  transaction := tx
  if transaction == nil {
    transaction = br.db
  }
  var ids []uuid.UUID
  if err := transaction.WithContext(ctx).
    Model(&types.Block{}).
    Where("account_id = ?", accountID).
    Pluck("target_account_id", &ids).Error; err != nil {
    return nil, err
  }
  return ids, nil
}

func (br *blockRepo) Delete(ctx context.Context, tx *gorm.DB, accountID, targetAccountID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = br.db
  }
  result := transaction.WithContext(ctx).
    Where("account_id = ? AND target_account_id = ?", accountID, targetAccountID).
    Delete(&types.Block{})
  return result.RowsAffected, result.Error
}
