package services

import (
  "context"
  "strings"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/qfeed/qfeed-backend/internal/apierr"
  "github.com/qfeed/qfeed-backend/internal/db"
  "github.com/qfeed/qfeed-backend/internal/logger"
  "github.com/qfeed/qfeed-backend/internal/repos"
  "github.com/qfeed/qfeed-backend/internal/types"
)

// AccountUpdate carries the patchable profile fields; nil means "leave as is".
type AccountUpdate struct {
  Name         *string
  Nickname     *string
  ProfileImage *string
}

type AccountService interface {
  GetMe(ctx context.Context, accountID uuid.UUID) (*types.Account, error)
  UpdateMe(ctx context.Context, accountID uuid.UUID, update AccountUpdate) (*types.Account, error)
  NicknameAvailable(ctx context.Context, nickname string) (bool, error)
  HardDelete(ctx context.Context, accountID uuid.UUID) error
  Search(ctx context.Context, keyword string, offset, limit int) ([]*types.Account, int64, error)
}

type accountService struct {
  db          *gorm.DB
  log         *logger.Logger
  accountRepo repos.AccountRepo
}

func NewAccountService(pg *gorm.DB, log *logger.Logger, accountRepo repos.AccountRepo) AccountService {
  serviceLog := log.With("service", "AccountService")
  return &accountService{db: pg, log: serviceLog, accountRepo: accountRepo}
}

func (s *accountService) GetMe(ctx context.Context, accountID uuid.UUID) (*types.Account, error) {
  account, err := s.accountRepo.GetByID(ctx, nil, accountID)
  if err != nil {
    return nil, db.TranslateError(err, "account not found")
  }
  return account, nil
}

func (s *accountService) UpdateMe(ctx context.Context, accountID uuid.UUID, update AccountUpdate) (*types.Account, error) {
  account, err := s.accountRepo.GetByID(ctx, nil, accountID)
  if err != nil {
    return nil, db.TranslateError(err, "account not found")
  }
  if update.Name != nil {
    account.Name = strings.TrimSpace(*update.Name)
  }
  if update.Nickname != nil {
    nickname := strings.TrimSpace(*update.Nickname)
    if nickname == "" {
      return nil, apierr.BadRequest("nickname must not be empty", nil)
    }
    if account.Nickname == nil || *account.Nickname != nickname {
      taken, err := s.accountRepo.NicknameExists(ctx, nil, nickname)
      if err != nil {
        return nil, db.TranslateError(err, "nickname check failed")
      }
      if taken {
        return nil, apierr.Conflict("nickname already taken", nil)
      }
    }
    account.Nickname = &nickname
  }
  if update.ProfileImage != nil {
    account.ProfileImage = *update.ProfileImage
  }
  updated, err := s.accountRepo.Update(ctx, nil, account)
  if err != nil {
    // The unique index backs up the pre-check under races.
    return nil, db.TranslateError(err, "nickname already taken")
  }
  return updated, nil
}

func (s *accountService) NicknameAvailable(ctx context.Context, nickname string) (bool, error) {
  nickname = strings.TrimSpace(nickname)
  if nickname == "" {
    return false, apierr.BadRequest("nickname must not be empty", nil)
  }
  taken, err := s.accountRepo.NicknameExists(ctx, nil, nickname)
  if err != nil {
    return false, db.TranslateError(err, "nickname check failed")
  }
  return !taken, nil
}

func (s *accountService) HardDelete(ctx context.Context, accountID uuid.UUID) error {
  if _, err := s.accountRepo.GetByID(ctx, nil, accountID); err != nil {
    return db.TranslateError(err, "account not found")
  }
  if err := s.accountRepo.HardDelete(ctx, nil, accountID); err != nil {
    return db.TranslateError(err, "account delete failed")
  }
  return nil
}

func (s *accountService) Search(ctx context.Context, keyword string, offset, limit int) ([]*types.Account, int64, error) {
  accounts, count, err := s.accountRepo.Search(ctx, nil, keyword, offset, limit)
  if err != nil {
    return nil, 0, db.TranslateError(err, "account search failed")
  }
  return accounts, count, nil
}
