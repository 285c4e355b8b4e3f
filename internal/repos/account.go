package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/qfeed/qfeed-backend/internal/logger"
  "github.com/qfeed/qfeed-backend/internal/types"
)

type AccountRepo interface {
  Create(ctx context.Context, tx *gorm.DB, account *types.Account) (*types.Account, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Account, error)
  GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Account, error)
  GetBySocialID(ctx context.Context, tx *gorm.DB, socialID string) (*types.Account, error)
  NicknameExists(ctx context.Context, tx *gorm.DB, nickname string) (bool, error)
  Search(ctx context.Context, tx *gorm.DB, keyword string, offset, limit int) ([]*types.Account, int64, error)
  Update(ctx context.Context, tx *gorm.DB, account *types.Account) (*types.Account, error)
  HardDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type accountRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewAccountRepo(db *gorm.DB, baseLog *logger.Logger) AccountRepo {
  repoLog := baseLog.With("repo", "AccountRepo")
  return &accountRepo{db: db, log: repoLog}
}

func (ar *accountRepo) Create(ctx context.Context, tx *gorm.DB, account *types.Account) (*types.Account, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  if err := transaction.WithContext(ctx).Create(account).Error; err != nil {
    return nil, err
  }
  return account, nil
}

func (ar *accountRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Account, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  var result types.Account
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (ar *accountRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Account, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  var result types.Account
  if err := transaction.WithContext(ctx).
    Where("email = ?", email).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (ar *accountRepo) GetBySocialID(ctx context.Context, tx *gorm.DB, socialID string) (*types.Account, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  var result types.Account
  if err := transaction.WithContext(ctx).
    Where("social_id = ?", socialID).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (ar *accountRepo) NicknameExists(ctx context.Context, tx *gorm.DB, nickname string) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.Account{}).
    Where("nickname = ?", nickname).
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}

func (ar *accountRepo) Search(ctx context.Context, tx *gorm.DB, keyword string, offset, limit int) ([]*types.Account, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  pattern := "%" + keyword + "%"
  query := transaction.WithContext(ctx).
    Model(&types.Account{}).
    Where("name LIKE ? OR nickname LIKE ?", pattern, pattern)

  var count int64
  if err := query.Count(&count).Error; err != nil {
    return nil, 0, err
  }
  var results []*types.Account
  if err := query.Offset(offset).Limit(limit).Find(&results).Error; err != nil {
    return nil, 0, err
  }
  return results, count, nil
}

func (ar *accountRepo) Update(ctx context.Context, tx *gorm.DB, account *types.Account) (*types.Account, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  if err := transaction.WithContext(ctx).Save(account).Error; err != nil {
    return nil, err
  }
  return account, nil
}

func (ar *accountRepo) HardDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  return transaction.WithContext(ctx).
    Where("id = ?", id).
    Delete(&types.Account{}).Error
}
