package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/qfeed/qfeed-backend/internal/logger"
  "github.com/qfeed/qfeed-backend/internal/types"
)

// QuestionFeedRow is one aggregated feed entry: the question plus
// distinct viewer/chooser counts and the caller's own view/choose flags.
type QuestionFeedRow struct {
  ID                 uuid.UUID   `json:"id"`
  Title              string      `json:"title"`
  BackgroundImage    string      `json:"background_image"`
  Qtype              types.Qtype `json:"qtype"`
  CreatedAt          time.Time   `json:"created_at"`
  OwnerID            uuid.UUID   `json:"owner_id"`
  OwnerNickname      *string     `json:"owner_nickname"`
  OwnerProfileImage  string      `json:"owner_profile_image"`
  ViewCount          int         `json:"view_count"`
  ChoiceCount        int         `json:"choice_count"`
  IsViewed           int         `json:"is_viewed"`
  IsChosen           int         `json:"is_chosen"`
}

type QuestionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, question *types.Question) (*types.Question, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Question, error)
  GetOfficialByOwnerAndTitle(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, title string) (*types.Question, error)
  FetchFeed(ctx context.Context, tx *gorm.DB, viewerID uuid.UUID, ownerIDs []uuid.UUID, qtype types.Qtype, orderBy string, offset, limit int) ([]*QuestionFeedRow, error)
  CountFeed(ctx context.Context, tx *gorm.DB, ownerIDs []uuid.UUID, qtype types.Qtype) (int64, error)
  FetchByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, qtype types.Qtype, offset, limit int) ([]*types.Question, int64, error)
}

type questionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
  repoLog := baseLog.With("repo", "QuestionRepo")
  return &questionRepo{db: db, log: repoLog}
}

func (qr *questionRepo) Create(ctx context.Context, tx *gorm.DB, question *types.Question) (*types.Question, error) {
  transaction := tx
  if transaction == nil {
    transaction = qr.db
  }
  if err := transaction.WithContext(ctx).Create(question).Error; err != nil {
    return nil, err
  }
  return question, nil
}

func (qr *questionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Question, error) {
  transaction := tx
  if transaction == nil {
    transaction = qr.db
  }
  var result types.Question
  if err := transaction.WithContext(ctx).
    Preload("Owner").
    Where("id = ?", id).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (qr *questionRepo) GetOfficialByOwnerAndTitle(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, title string) (*types.Question, error) {
  transaction := tx
  if transaction == nil {
    transaction = qr.db
  }
  var result types.Question
  if err := transaction.WithContext(ctx).
    Where("owner_id = ? AND title = ? AND qtype = ?", ownerID, title, types.QtypeOfficial).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

const feedQuery = `
SELECT question.id AS id,
       question.title AS title,
       question.background_image AS background_image,
       question.qtype AS qtype,
       question.created_at AS created_at,
       account.id AS owner_id,
       account.nickname AS owner_nickname,
       account.profile_image AS owner_profile_image,
       COUNT(DISTINCT view_history.id) AS view_count,
       COUNT(DISTINCT choice.id) AS choice_count,
       MAX(CASE WHEN view_history.account_id = ? THEN 1 ELSE 0 END) AS is_viewed,
       MAX(CASE WHEN choice.account_id = ? THEN 1 ELSE 0 END) AS is_chosen
FROM question
LEFT JOIN view_history ON view_history.question_id = question.id
LEFT JOIN choice ON choice.question_id = question.id
LEFT JOIN account ON account.id = question.owner_id
WHERE question.owner_id IN ?
  AND question.is_blind = ?
  AND question.qtype = ?
GROUP BY question.id, question.title, question.background_image, question.qtype,
         question.created_at, account.id, account.nickname, account.profile_image
`

// FetchFeed surfaces unviewed-and-unchosen questions first, then sorts
// by the caller-selected key descending. orderBy must come validated.
func (qr *questionRepo) FetchFeed(ctx context.Context, tx *gorm.DB, viewerID uuid.UUID, ownerIDs []uuid.UUID, qtype types.Qtype, orderBy string, offset, limit int) ([]*QuestionFeedRow, error) {
  transaction := tx
  if transaction == nil {
    transaction = qr.db
  }
  if len(ownerIDs) == 0 {
    return []*QuestionFeedRow{}, nil
  }
  sql := feedQuery + "ORDER BY is_viewed ASC, is_chosen ASC, " + orderBy + " DESC LIMIT ? OFFSET ?"
  var rows []*QuestionFeedRow
  if err := transaction.WithContext(ctx).
    Raw(sql, viewerID, viewerID, ownerIDs, false, qtype, limit, offset).
    Scan(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (qr *questionRepo) CountFeed(ctx context.Context, tx *gorm.DB, ownerIDs []uuid.UUID, qtype types.Qtype) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = qr.db
  }
  if len(ownerIDs) == 0 {
    return 0, nil
  }
  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.Question{}).
    Where("owner_id IN ? AND is_blind = ? AND qtype = ?", ownerIDs, false, qtype).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (qr *questionRepo) FetchByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, qtype types.Qtype, offset, limit int) ([]*types.Question, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = qr.db
  }
  query := transaction.WithContext(ctx).
    Model(&types.Question{}).
    Where("owner_id = ? AND qtype = ? AND is_blind = ?", ownerID, qtype, false)

  var count int64
  if err := query.Count(&count).Error; err != nil {
    return nil, 0, err
  }
  var results []*types.Question
  if err := query.Preload("Owner").
    Order("created_at DESC").
    Offset(offset).Limit(limit).
    Find(&results).Error; err != nil {
    return nil, 0, err
  }
  return results, count, nil
}
