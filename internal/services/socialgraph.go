package services

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/qfeed/qfeed-backend/internal/apierr"
  "github.com/qfeed/qfeed-backend/internal/db"
  "github.com/qfeed/qfeed-backend/internal/logger"
  "github.com/qfeed/qfeed-backend/internal/repos"
  "github.com/qfeed/qfeed-backend/internal/types"
)

type SocialGraphService interface {
  Follow(ctx context.Context, accountID, targetAccountID uuid.UUID) (*types.Follow, error)
  Unfollow(ctx context.Context, accountID, targetAccountID uuid.UUID) error
  Block(ctx context.Context, accountID, targetAccountID uuid.UUID) (*types.Block, error)
  Unblock(ctx context.Context, accountID, targetAccountID uuid.UUID) error
  FetchFollowings(ctx context.Context, accountID uuid.UUID, offset, limit int) ([]*types.Follow, int64, error)
  FetchFollowers(ctx context.Context, accountID uuid.UUID, offset, limit int) ([]*types.Follow, int64, error)
  FetchBlockings(ctx context.Context, accountID uuid.UUID, offset, limit int) ([]*types.Block, int64, error)
}

type socialGraphService struct {
  db          *gorm.DB
  log         *logger.Logger
  accountRepo repos.AccountRepo
  followRepo  repos.FollowRepo
  blockRepo   repos.BlockRepo
}

func NewSocialGraphService(pg *gorm.DB, log *logger.Logger, accountRepo repos.AccountRepo, followRepo repos.FollowRepo, blockRepo repos.BlockRepo) SocialGraphService {
  serviceLog := log.With("service", "SocialGraphService")
  return &socialGraphService{
    db:          pg,
    log:         serviceLog,
    accountRepo: accountRepo,
    followRepo:  followRepo,
    blockRepo:   blockRepo,
  }
}

func (s *socialGraphService) Follow(ctx context.Context, accountID, targetAccountID uuid.UUID) (*types.Follow, error) {
  if accountID == targetAccountID {
    return nil, apierr.BadRequest("cannot follow yourself", nil)
  }
  if _, err := s.accountRepo.GetByID(ctx, nil, targetAccountID); err != nil {
    return nil, db.TranslateError(err, "target account not found")
  }
  now := time.Now()
  follow := &types.Follow{
    ID:              uuid.New(),
    AccountID:       accountID,
    TargetAccountID: targetAccountID,
    Timestamps:      types.Timestamps{CreatedAt: now, UpdatedAt: now},
  }
  created, err := s.followRepo.Create(ctx, nil, follow)
  if err != nil {
    return nil, db.TranslateError(err, "already following")
  }
  return created, nil
}

func (s *socialGraphService) Unfollow(ctx context.Context, accountID, targetAccountID uuid.UUID) error {
  affected, err := s.followRepo.Delete(ctx, nil, accountID, targetAccountID)
  if err != nil {
    return db.TranslateError(err, "unfollow failed")
  }
  if affected == 0 {
    return apierr.NotFound("not following", nil)
  }
  return nil
}

func (s *socialGraphService) Block(ctx context.Context, accountID, targetAccountID uuid.UUID) (*types.Block, error) {
  if accountID == targetAccountID {
    return nil, apierr.BadRequest("cannot block yourself", nil)
  }
  if _, err := s.accountRepo.GetByID(ctx, nil, targetAccountID); err != nil {
    return nil, db.TranslateError(err, "target account not found")
  }
  var block *types.Block
  // Blocking also severs the follow edges in both directions.
  err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    now := time.Now()
    block = &types.Block{
      ID:              uuid.New(),
      AccountID:       accountID,
      TargetAccountID: targetAccountID,
      Timestamps:      types.Timestamps{CreatedAt: now, UpdatedAt: now},
    }
    if _, err := s.blockRepo.Create(ctx, tx, block); err != nil {
      return db.TranslateError(err, "already blocked")
    }
    if _, err := s.followRepo.Delete(ctx, tx, accountID, targetAccountID); err != nil {
      return db.TranslateError(err, "block failed")
    }
    if _, err := s.followRepo.Delete(ctx, tx, targetAccountID, accountID); err != nil {
      return db.TranslateError(err, "block failed")
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  return block, nil
}

func (s *socialGraphService) Unblock(ctx context.Context, accountID, targetAccountID uuid.UUID) error {
  affected, err := s.blockRepo.Delete(ctx, nil, accountID, targetAccountID)
  if err != nil {
    return db.TranslateError(err, "unblock failed")
  }
  if affected == 0 {
    return apierr.NotFound("not blocked", nil)
  }
  return nil
}

func (s *socialGraphService) FetchFollowings(ctx context.Context, accountID uuid.UUID, offset, limit int) ([]*types.Follow, int64, error) {
  follows, count, err := s.followRepo.FetchFollowings(ctx, nil, accountID, offset, limit)
  if err != nil {
    return nil, 0, db.TranslateError(err, "fetch followings failed")
  }
  return follows, count, nil
}

func (s *socialGraphService) FetchFollowers(ctx context.Context, accountID uuid.UUID, offset, limit int) ([]*types.Follow, int64, error) {
  follows, count, err := s.followRepo.FetchFollowers(ctx, nil, accountID, offset, limit)
  if err != nil {
    return nil, 0, db.TranslateError(err, "fetch followers failed")
  }
  return follows, count, nil
}

func (s *socialGraphService) FetchBlockings(ctx context.Context, accountID uuid.UUID, offset, limit int) ([]*types.Block, int64, error) {
  blocks, count, err := s.blockRepo.FetchBlockings(ctx, nil, accountID, offset, limit)
  if err != nil {
    return nil, 0, db.TranslateError(err, "fetch blockings failed")
  }
  return blocks, count, nil
}
