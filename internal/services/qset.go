package services

import (
  "context"
  "net/http"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/qfeed/qfeed-backend/internal/apierr"
  "github.com/qfeed/qfeed-backend/internal/db"
  "github.com/qfeed/qfeed-backend/internal/logger"
  "github.com/qfeed/qfeed-backend/internal/repos"
  "github.com/qfeed/qfeed-backend/internal/types"
)

// At most this many question sets may be started per account per
// calendar day.
const dailyUserQsetLimit = 2

type QsetService interface {
  CreateUserQset(ctx context.Context, accountID uuid.UUID) (*types.UserQset, error)
  FetchTodayUserQsets(ctx context.Context, accountID uuid.UUID) ([]*types.UserQset, error)
  PassUserQ(ctx context.Context, accountID, userQsetID uuid.UUID) (*types.UserQset, error)
  CreateUserQChoice(ctx context.Context, accountID, userQsetID, targetAccountID uuid.UUID, value string) (*types.UserQset, error)
}

type qsetService struct {
  db           *gorm.DB
  log          *logger.Logger
  accountRepo  repos.AccountRepo
  qsetRepo     repos.QsetRepo
  userQsetRepo repos.UserQsetRepo
  questionRepo repos.QuestionRepo
  choiceRepo   repos.ChoiceRepo
  now          func() time.Time
}

func NewQsetService(
  pg *gorm.DB,
  log *logger.Logger,
  accountRepo repos.AccountRepo,
  qsetRepo repos.QsetRepo,
  userQsetRepo repos.UserQsetRepo,
  questionRepo repos.QuestionRepo,
  choiceRepo repos.ChoiceRepo,
) QsetService {
  serviceLog := log.With("service", "QsetService")
  return &qsetService{
    db:           pg,
    log:          serviceLog,
    accountRepo:  accountRepo,
    qsetRepo:     qsetRepo,
    userQsetRepo: userQsetRepo,
    questionRepo: questionRepo,
    choiceRepo:   choiceRepo,
    now:          time.Now,
  }
}

// todayRange is the server-local calendar day, midnight to midnight.
// The original system computed day boundaries in server-local time and
// this keeps that contract.
func (qs *qsetService) todayRange() (time.Time, time.Time) {
  now := qs.now()
  start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
  return start, start.AddDate(0, 0, 1)
}

func (qs *qsetService) CreateUserQset(ctx context.Context, accountID uuid.UUID) (*types.UserQset, error) {
  from, to := qs.todayRange()
  todays, err := qs.userQsetRepo.FetchStartedInRange(ctx, nil, accountID, from, to)
  if err != nil {
    return nil, db.TranslateError(err, "fetch today question sets failed")
  }
  if len(todays) >= dailyUserQsetLimit {
    return nil, apierr.BadRequest("daily question set limit reached", nil)
  }

  if _, err := qs.userQsetRepo.GetOutstandingByAccount(ctx, nil, accountID); err == nil {
    return nil, apierr.BadRequest("question set already in progress", nil)
  } else if translated := db.TranslateError(err, "outstanding question set lookup failed"); !apierr.IsStatus(translated, http.StatusNotFound) {
    return nil, translated
  }

  doneIDs, err := qs.userQsetRepo.DoneQsetIDs(ctx, nil, accountID)
  if err != nil {
    return nil, db.TranslateError(err, "completed question set lookup failed")
  }
  qset, err := qs.qsetRepo.GetNextExcluding(ctx, nil, doneIDs)
  if err != nil {
    return nil, db.TranslateError(err, "no new question set available")
  }

  now := qs.now()
  userQset := &types.UserQset{
    ID:         uuid.New(),
    AccountID:  accountID,
    QsetID:     qset.ID,
    Cursor:     0,
    IsDone:     false,
    StartAt:    now,
    Timestamps: types.Timestamps{CreatedAt: now, UpdatedAt: now},
  }
  created, err := qs.userQsetRepo.Create(ctx, nil, userQset)
  if err != nil {
    // A race on the (account, qset) pair is surfaced, not retried.
    return nil, db.TranslateError(err, "question set already assigned")
  }
  created.Qset = qset
  return created, nil
}

func (qs *qsetService) FetchTodayUserQsets(ctx context.Context, accountID uuid.UUID) ([]*types.UserQset, error) {
  from, to := qs.todayRange()
  todays, err := qs.userQsetRepo.FetchStartedInRange(ctx, nil, accountID, from, to)
  if err != nil {
    return nil, db.TranslateError(err, "fetch today question sets failed")
  }
  if len(todays) > 0 {
    return todays, nil
  }
  last, err := qs.userQsetRepo.GetLastByAccount(ctx, nil, accountID)
  if err != nil {
    if translated := db.TranslateError(err, "last question set lookup failed"); apierr.IsStatus(translated, http.StatusNotFound) {
      return []*types.UserQset{}, nil
    } else {
      return nil, translated
    }
  }
  return []*types.UserQset{last}, nil
}

// resolveOwned loads a UserQset and enforces the shared preconditions:
// it must exist, belong to the caller, and not be finished yet.
func (qs *qsetService) resolveOwned(ctx context.Context, tx *gorm.DB, accountID, userQsetID uuid.UUID) (*types.UserQset, error) {
  userQset, err := qs.userQsetRepo.GetByID(ctx, tx, userQsetID)
  if err != nil {
    return nil, db.TranslateError(err, "question set not found")
  }
  if userQset.AccountID != accountID {
    return nil, apierr.Forbidden("question set belongs to another account", nil)
  }
  if userQset.IsDone {
    return nil, apierr.BadRequest("question set already done", nil)
  }
  return userQset, nil
}

// advance moves the cursor forward one step and completes the set when
// the cursor reaches the prompt count.
func (qs *qsetService) advance(ctx context.Context, tx *gorm.DB, userQset *types.UserQset) (*types.UserQset, error) {
  userQset.Cursor++
  if userQset.Qset != nil && userQset.Cursor >= len(userQset.Qset.Prompts) {
    userQset.Cursor = len(userQset.Qset.Prompts)
    userQset.IsDone = true
    endAt := qs.now()
    userQset.EndAt = &endAt
  }
  updated, err := qs.userQsetRepo.Update(ctx, tx, userQset)
  if err != nil {
    return nil, db.TranslateError(err, "question set update failed")
  }
  return updated, nil
}

func (qs *qsetService) PassUserQ(ctx context.Context, accountID, userQsetID uuid.UUID) (*types.UserQset, error) {
  userQset, err := qs.resolveOwned(ctx, nil, accountID, userQsetID)
  if err != nil {
    return nil, err
  }
  return qs.advance(ctx, nil, userQset)
}

// CreateUserQChoice records an answer for the prompt under the cursor
// and advances the set, all in one transaction: the cursor never moves
// without a durably recorded answer, and no answer is recorded without
// its official question existing.
func (qs *qsetService) CreateUserQChoice(ctx context.Context, accountID, userQsetID, targetAccountID uuid.UUID, value string) (*types.UserQset, error) {
  if accountID == targetAccountID {
    return nil, apierr.BadRequest("cannot answer a prompt about yourself", nil)
  }
  userQset, err := qs.resolveOwned(ctx, nil, accountID, userQsetID)
  if err != nil {
    return nil, err
  }
  prompt, ok := userQset.CurrentPrompt()
  if !ok {
    return nil, apierr.BadRequest("question set has no prompt under cursor", nil)
  }
  target, err := qs.accountRepo.GetByID(ctx, nil, targetAccountID)
  if err != nil {
    return nil, db.TranslateError(err, "target account not found")
  }

  var updated *types.UserQset
  txErr := qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    question, err := qs.getOrCreateOfficialQuestion(ctx, tx, target.ID, prompt)
    if err != nil {
      return err
    }
    now := qs.now()
    choice := &types.Choice{
      ID:         uuid.New(),
      QuestionID: question.ID,
      AccountID:  accountID,
      Value:      value,
      Timestamps: types.Timestamps{CreatedAt: now, UpdatedAt: now},
    }
    if _, err := qs.choiceRepo.Create(ctx, tx, choice); err != nil {
      return db.TranslateError(err, "already answered this prompt for this account")
    }
    updated, err = qs.advance(ctx, tx, userQset)
    return err
  })
  if txErr != nil {
    // A detected uniqueness conflict passes through verbatim; every
    // other transaction failure collapses to a generic conflict so no
    // storage detail leaks.
    if apierr.IsStatus(txErr, http.StatusConflict) {
      return nil, txErr
    }
    qs.log.Warn("Choice-and-advance transaction failed", "error", txErr)
    return nil, apierr.Conflict("question set choice failed", txErr)
  }
  return updated, nil
}

// getOrCreateOfficialQuestion is idempotent on (owner, title): the
// unique index resolves creation races, with the loser falling back to
// a lookup of the winner's row.
func (qs *qsetService) getOrCreateOfficialQuestion(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, title string) (*types.Question, error) {
  existing, err := qs.questionRepo.GetOfficialByOwnerAndTitle(ctx, tx, ownerID, title)
  if err == nil {
    return existing, nil
  }
  if translated := db.TranslateError(err, "official question lookup failed"); !apierr.IsStatus(translated, http.StatusNotFound) {
    return nil, translated
  }
  now := qs.now()
  question := &types.Question{
    ID:              uuid.New(),
    OwnerID:         ownerID,
    Title:           title,
    Qtype:           types.QtypeOfficial,
    BackgroundImage: types.DefaultQuestionBackground,
    Timestamps:      types.Timestamps{CreatedAt: now, UpdatedAt: now},
  }
  created, err := qs.questionRepo.Create(ctx, tx, question)
  if err != nil {
    if db.IsDuplicate(err) {
      return qs.questionRepo.GetOfficialByOwnerAndTitle(ctx, tx, ownerID, title)
    }
    return nil, db.TranslateError(err, "official question create failed")
  }
  return created, nil
}
