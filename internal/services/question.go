package services

import (
  "context"
  "strings"
  "time"
  "github.com/google/uuid"
  "golang.org/x/sync/errgroup"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/qfeed/qfeed-backend/internal/apierr"
  "github.com/qfeed/qfeed-backend/internal/db"
  "github.com/qfeed/qfeed-backend/internal/logger"
  "github.com/qfeed/qfeed-backend/internal/repos"
  "github.com/qfeed/qfeed-backend/internal/types"
)

const maxPersonalChoices = 6

var feedOrderColumns = map[string]string{
  "":           "created_at",
  "createdAt":  "created_at",
  "created_at": "created_at",
  "viewCount":  "view_count",
  "view_count": "view_count",
}

type QuestionInCreate struct {
  Title           string
  ChoiceList      []string
  BackgroundImage string
  IsBlind         bool
}

// QuestionFeed is a page of aggregated feed rows plus the total count.
type QuestionFeed struct {
  Count int64                     `json:"count"`
  Data  []*repos.QuestionFeedRow  `json:"data"`
}

// ChoiceTally is the per-value vote distribution on one question,
// with the caller's own pick if any.
type ChoiceTally struct {
  Counts     []*repos.ChoiceValueCount `json:"counts"`
  UserChoice *string                   `json:"user_choice"`
}

type QuestionService interface {
  CreateQuestion(ctx context.Context, ownerID uuid.UUID, in QuestionInCreate) (*types.Question, error)
  FetchFeed(ctx context.Context, viewerID uuid.UUID, orderBy string, offset, limit int) (*QuestionFeed, error)
  FetchUserQuestions(ctx context.Context, targetAccountID uuid.UUID, qtype types.Qtype, offset, limit int) ([]*types.Question, int64, error)
  GetQuestion(ctx context.Context, viewerID, questionID uuid.UUID) (*types.Question, error)
  CreateChoice(ctx context.Context, accountID, questionID uuid.UUID, value string) (*types.Choice, error)
  FetchChoiceTally(ctx context.Context, accountID, questionID uuid.UUID) (*ChoiceTally, error)
}

type questionService struct {
  db              *gorm.DB
  log             *logger.Logger
  questionRepo    repos.QuestionRepo
  choiceRepo      repos.ChoiceRepo
  viewHistoryRepo repos.ViewHistoryRepo
  followRepo      repos.FollowRepo
}

func NewQuestionService(
  pg *gorm.DB,
  log *logger.Logger,
  questionRepo repos.QuestionRepo,
  choiceRepo repos.ChoiceRepo,
  viewHistoryRepo repos.ViewHistoryRepo,
  followRepo repos.FollowRepo,
) QuestionService {
  serviceLog := log.With("service", "QuestionService")
  return &questionService{
    db:              pg,
    log:             serviceLog,
    questionRepo:    questionRepo,
    choiceRepo:      choiceRepo,
    viewHistoryRepo: viewHistoryRepo,
    followRepo:      followRepo,
  }
}

func (qs *questionService) CreateQuestion(ctx context.Context, ownerID uuid.UUID, in QuestionInCreate) (*types.Question, error) {
  title := strings.TrimSpace(in.Title)
  if title == "" {
    return nil, apierr.BadRequest("title must not be empty", nil)
  }
  if len(in.ChoiceList) == 0 || len(in.ChoiceList) > maxPersonalChoices {
    return nil, apierr.BadRequest("choice list must contain 1 to 6 entries", nil)
  }
  background := in.BackgroundImage
  if background == "" {
    background = types.DefaultQuestionBackground
  }
  now := time.Now()
  question := &types.Question{
    ID:              uuid.New(),
    OwnerID:         ownerID,
    Title:           title,
    Qtype:           types.QtypePersonal,
    ChoiceList:      datatypes.NewJSONSlice(in.ChoiceList),
    BackgroundImage: background,
    IsBlind:         in.IsBlind,
    Timestamps:      types.Timestamps{CreatedAt: now, UpdatedAt: now},
  }
  created, err := qs.questionRepo.Create(ctx, nil, question)
  if err != nil {
    return nil, db.TranslateError(err, "question with this title already exists")
  }
  return created, nil
}

func (qs *questionService) FetchFeed(ctx context.Context, viewerID uuid.UUID, orderBy string, offset, limit int) (*QuestionFeed, error) {
  orderColumn, ok := feedOrderColumns[orderBy]
  if !ok {
    return nil, apierr.BadRequest("unsupported order key", nil)
  }
  followingIDs, err := qs.followRepo.FollowingIDs(ctx, nil, viewerID)
  if err != nil {
    return nil, db.TranslateError(err, "fetch feed failed")
  }
  ownerIDs := append(followingIDs, viewerID)

  var rows []*repos.QuestionFeedRow
  var count int64
  group, groupCtx := errgroup.WithContext(ctx)
  group.Go(func() error {
    var err error
    rows, err = qs.questionRepo.FetchFeed(groupCtx, nil, viewerID, ownerIDs, types.QtypePersonal, orderColumn, offset, limit)
    return err
  })
  group.Go(func() error {
    var err error
    count, err = qs.questionRepo.CountFeed(groupCtx, nil, ownerIDs, types.QtypePersonal)
    return err
  })
  if err := group.Wait(); err != nil {
    return nil, db.TranslateError(err, "fetch feed failed")
  }
  return &QuestionFeed{Count: count, Data: rows}, nil
}

func (qs *questionService) FetchUserQuestions(ctx context.Context, targetAccountID uuid.UUID, qtype types.Qtype, offset, limit int) ([]*types.Question, int64, error) {
  if qtype != types.QtypePersonal && qtype != types.QtypeOfficial {
    return nil, 0, apierr.BadRequest("unsupported question type", nil)
  }
  questions, count, err := qs.questionRepo.FetchByOwner(ctx, nil, targetAccountID, qtype, offset, limit)
  if err != nil {
    return nil, 0, db.TranslateError(err, "fetch user questions failed")
  }
  return questions, count, nil
}

// GetQuestion returns the question and idempotently marks it seen by
// the viewer.
func (qs *questionService) GetQuestion(ctx context.Context, viewerID, questionID uuid.UUID) (*types.Question, error) {
  question, err := qs.questionRepo.GetByID(ctx, nil, questionID)
  if err != nil {
    return nil, db.TranslateError(err, "question not found")
  }
  if _, err := qs.getOrCreateViewHistory(ctx, viewerID, question.ID); err != nil {
    return nil, err
  }
  return question, nil
}

func (qs *questionService) getOrCreateViewHistory(ctx context.Context, accountID, questionID uuid.UUID) (*types.ViewHistory, error) {
  history, err := qs.viewHistoryRepo.Get(ctx, nil, questionID, accountID)
  if err == nil {
    return history, nil
  }
  if translated := db.TranslateError(err, "view history lookup failed"); !apierr.IsStatus(translated, 404) {
    return nil, translated
  }
  now := time.Now()
  history = &types.ViewHistory{
    ID:         uuid.New(),
    QuestionID: questionID,
    AccountID:  accountID,
    Timestamps: types.Timestamps{CreatedAt: now, UpdatedAt: now},
  }
  created, err := qs.viewHistoryRepo.Create(ctx, nil, history)
  if err != nil {
    // Lost the insert race; the existing marker serves.
    if db.IsDuplicate(err) {
      return qs.viewHistoryRepo.Get(ctx, nil, questionID, accountID)
    }
    return nil, db.TranslateError(err, "view history create failed")
  }
  return created, nil
}

func (qs *questionService) CreateChoice(ctx context.Context, accountID, questionID uuid.UUID, value string) (*types.Choice, error) {
  value = strings.TrimSpace(value)
  if value == "" {
    return nil, apierr.BadRequest("choice value must not be empty", nil)
  }
  question, err := qs.questionRepo.GetByID(ctx, nil, questionID)
  if err != nil {
    return nil, db.TranslateError(err, "question not found")
  }
  now := time.Now()
  choice := &types.Choice{
    ID:         uuid.New(),
    QuestionID: question.ID,
    AccountID:  accountID,
    Value:      value,
    Timestamps: types.Timestamps{CreatedAt: now, UpdatedAt: now},
  }
  created, err := qs.choiceRepo.Create(ctx, nil, choice)
  if err != nil {
    return nil, db.TranslateError(err, "already answered this question")
  }
  return created, nil
}

func (qs *questionService) FetchChoiceTally(ctx context.Context, accountID, questionID uuid.UUID) (*ChoiceTally, error) {
  if _, err := qs.questionRepo.GetByID(ctx, nil, questionID); err != nil {
    return nil, db.TranslateError(err, "question not found")
  }
  counts, err := qs.choiceRepo.CountByValue(ctx, nil, questionID)
  if err != nil {
    return nil, db.TranslateError(err, "fetch choices failed")
  }
  tally := &ChoiceTally{Counts: counts}
  own, err := qs.choiceRepo.GetByQuestionAndAccount(ctx, nil, questionID, accountID)
  if err == nil {
    tally.UserChoice = &own.Value
  } else if translated := db.TranslateError(err, "choice lookup failed"); !apierr.IsStatus(translated, 404) {
    return nil, translated
  }
  return tally, nil
}
