package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/qfeed/qfeed-backend/internal/logger"
  "github.com/qfeed/qfeed-backend/internal/types"
)

type FollowRepo interface {
  Create(ctx context.Context, tx *gorm.DB, follow *types.Follow) (*types.Follow, error)
  Get(ctx context.Context, tx *gorm.DB, accountID, targetAccountID uuid.UUID) (*types.Follow, error)
  FetchFollowings(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, offset, limit int) ([]*types.Follow, int64, error)
  FetchFollowers(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, offset, limit int) ([]*types.Follow, int64, error)
  FollowingIDs(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) ([]uuid.UUID, error)
  Delete(ctx context.Context, tx *gorm.DB, accountID, targetAccountID uuid.UUID) (int64, error)
}

type followRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewFollowRepo(db *gorm.DB, baseLog *logger.Logger) FollowRepo {
  repoLog := baseLog.With("repo", "FollowRepo")
  return &followRepo{db: db, log: repoLog}
}

func (fr *followRepo) Create(ctx context.Context, tx *gorm.DB, follow *types.Follow) (*types.Follow, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }
  if err := transaction.WithContext(ctx).Create(follow).Error; err != nil {
    return nil, err
  }
  return follow, nil
}

func (fr *followRepo) Get(ctx context.Context, tx *gorm.DB, accountID, targetAccountID uuid.UUID) (*types.Follow, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }
  var result types.Follow
  if err := transaction.WithContext(ctx).
    Where("account_id = ? AND target_account_id = ?", accountID, targetAccountID).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (fr *followRepo) FetchFollowings(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, offset, limit int) ([]*types.Follow, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }
  query := transaction.WithContext(ctx).
    Model(&types.Follow{}).
    Where("account_id = ?", accountID)

  var count int64
  if err := query.Count(&count).Error; err != nil {
    return nil, 0, err
  }
  var results []*types.Follow
  if err := query.Preload("TargetAccount").Offset(offset).Limit(limit).Find(&results).Error; err != nil {
    return nil, 0, err
  }
  return results, count, nil
}

func (fr *followRepo) FetchFollowers(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, offset, limit int) ([]*types.Follow, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }
  query := transaction.WithContext(ctx).
    Model(&types.Follow{}).
    Where("target_account_id = ?", accountID)

  var count int64
  if err := query.Count(&count).Error; err != nil {
    return nil, 0, err
  }
  var results []*types.Follow
  if err := query.Preload("Account").Offset(offset).Limit(limit).Find(&results).Error; err != nil {
    return nil, 0, err
  }
  return results, count, nil
}

func (fr *followRepo) FollowingIDs(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) ([]uuid.UUID, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }
  var ids []uuid.UUID
  if err := transaction.WithContext(ctx).
    Model(&types.Follow{}).
    Where("account_id = ?", accountID).
    Pluck("target_account_id", &ids).Error; err != nil {
    return nil, err
  }
  return ids, nil
}

func (fr *followRepo) Delete(ctx context.Context, tx *gorm.DB, accountID, targetAccountID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }
  result := transaction.WithContext(ctx).
    Where("account_id = ? AND target_account_id = ?", accountID, targetAccountID).
    Delete(&types.Follow{})
  return result.RowsAffected, result.Error
}
