package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/qfeed/qfeed-backend/internal/logger"
  "github.com/qfeed/qfeed-backend/internal/types"
)

// ChoiceValueCount is one bucket of the per-value tally on a question.
type ChoiceValueCount struct {
  Value string `json:"value"`
  Count int    `json:"count"`
}

type ChoiceRepo interface {
  Create(ctx context.Context, tx *gorm.DB, choice *types.Choice) (*types.Choice, error)
  GetByQuestionAndAccount(ctx context.Context, tx *gorm.DB, questionID, accountID uuid.UUID) (*types.Choice, error)
  CountByValue(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) ([]*ChoiceValueCount, error)
}

type choiceRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewChoiceRepo(db *gorm.DB, baseLog *logger.Logger) ChoiceRepo {
  repoLog := baseLog.With("repo", "ChoiceRepo")
  return &choiceRepo{db: db, log: repoLog}
}

func (cr *choiceRepo) Create(ctx context.Context, tx *gorm.DB, choice *types.Choice) (*types.Choice, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  if err := transaction.WithContext(ctx).Create(choice).Error; err != nil {
    return nil, err
  }
  return choice, nil
}

func (cr *choiceRepo) GetByQuestionAndAccount(ctx context.Context, tx *gorm.DB, questionID, accountID uuid.UUID) (*types.Choice, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var result types.Choice
  if err := transaction.WithContext(ctx).
    Where("question_id = ? AND account_id = ?", questionID, accountID).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (cr *choiceRepo) CountByValue(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) ([]*ChoiceValueCount, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var results []*ChoiceValueCount
  if err := transaction.WithContext(ctx).
    Model(&types.Choice{}).
    Select("value AS value, COUNT(*) AS count").
    Where("question_id = ?", questionID).
    Group("value").
    Scan(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
