package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/qfeed/qfeed-backend/internal/logger"
  "github.com/qfeed/qfeed-backend/internal/types"
)

type UserQsetRepo interface {
  Create(ctx context.Context, tx *gorm.DB, userQset *types.UserQset) (*types.UserQset, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.UserQset, error)
  FetchStartedInRange(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, from, to time.Time) ([]*types.UserQset, error)
  GetLastByAccount(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) (*types.UserQset, error)
  GetOutstandingByAccount(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) (*types.UserQset, error)
  DoneQsetIDs(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) ([]uuid.UUID, error)
  Update(ctx context.Context, tx *gorm.DB, userQset *types.UserQset) (*types.UserQset, error)
}

type userQsetRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserQsetRepo(db *gorm.DB, baseLog *logger.Logger) UserQsetRepo {
  repoLog := baseLog.With("repo", "UserQsetRepo")
  return &userQsetRepo{db: db, log: repoLog}
}

func (ur *userQsetRepo) Create(ctx context.Context, tx *gorm.DB, userQset *types.UserQset) (*types.UserQset, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }
  if err := transaction.WithContext(ctx).Omit(clause.Associations).Create(userQset).Error; err != nil {
    return nil, err
  }
  return userQset, nil
}

func (ur *userQsetRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.UserQset, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }
  var result types.UserQset
  if err := transaction.WithContext(ctx).
    Preload("Qset").
    Where("id = ?", id).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (ur *userQsetRepo) FetchStartedInRange(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, from, to time.Time) ([]*types.UserQset, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }
  var results []*types.UserQset
  if err := transaction.WithContext(ctx).
    Preload("Qset").
    Where("account_id = ? AND start_at >= ? AND start_at < ?", accountID, from, to).
    Order("start_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (ur *userQsetRepo) GetLastByAccount(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) (*types.UserQset, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }
  var result types.UserQset
  if err := transaction.WithContext(ctx).
    Preload("Qset").
    Where("account_id = ?", accountID).
    Order("start_at DESC").
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (ur *userQsetRepo) GetOutstandingByAccount(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) (*types.UserQset, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }
  var result types.UserQset
  if err := transaction.WithContext(ctx).
    Preload("Qset").
    Where("account_id = ? AND is_done = ?", accountID, false).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (ur *userQsetRepo) DoneQsetIDs(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) ([]uuid.UUID, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }
  var ids []uuid.UUID
  if err := transaction.WithContext(ctx).
    Model(&types.UserQset{}).
    Where("account_id = ? AND is_done = ?", accountID, true).
    Pluck("qset_id", &ids).Error; err != nil {
    return nil, err
  }
  return ids, nil
}

func (ur *userQsetRepo) Update(ctx context.Context, tx *gorm.DB, userQset *types.UserQset) (*types.UserQset, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }
  if err := transaction.WithContext(ctx).Omit(clause.Associations).Save(userQset).Error; err != nil {
    return nil, err
  }
  return userQset, nil
}
