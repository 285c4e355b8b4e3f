package services

import (
  "context"
  "fmt"
  "strings"
  "time"
  "golang.org/x/crypto/bcrypt"
  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/qfeed/qfeed-backend/internal/apierr"
  "github.com/qfeed/qfeed-backend/internal/db"
  "github.com/qfeed/qfeed-backend/internal/logger"
  "github.com/qfeed/qfeed-backend/internal/repos"
  "github.com/qfeed/qfeed-backend/internal/requestdata"
  "github.com/qfeed/qfeed-backend/internal/types"
)

type JWTClaims struct {
  jwt.RegisteredClaims
}

// Token is an issued access token plus its expiry instant.
type Token struct {
  AccessToken string    `json:"access_token"`
  ExpireTime  time.Time `json:"expire_time"`
}

type AuthService interface {
  SignUp(ctx context.Context, email, password string) (*Token, error)
  SignIn(ctx context.Context, email, password string) (*Token, error)
  SocialLogin(ctx context.Context, provider, providerToken string) (*Token, error)
  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
  GetAccessTTL() time.Duration
}

type authService struct {
  db             *gorm.DB
  log            *logger.Logger
  accountRepo    repos.AccountRepo
  avatarService  AvatarService
  socialClient   SocialLoginClient
  jwtSecretKey   string
  accessTTL      time.Duration
}

func NewAuthService(
  pg *gorm.DB,
  log *logger.Logger,
  accountRepo repos.AccountRepo,
  avatarService AvatarService,
  socialClient SocialLoginClient,
  jwtSecretKey string,
  accessTTL time.Duration,
) AuthService {
  serviceLog := log.With("service", "AuthService")
  return &authService{
    db:            pg,
    log:           serviceLog,
    accountRepo:   accountRepo,
    avatarService: avatarService,
    socialClient:  socialClient,
    jwtSecretKey:  jwtSecretKey,
    accessTTL:     accessTTL,
  }
}

func (as *authService) SignUp(ctx context.Context, email, password string) (*Token, error) {
  email = strings.ToLower(strings.TrimSpace(email))
  if email == "" || !strings.Contains(email, "@") {
    return nil, apierr.BadRequest("invalid email", nil)
  }
  if len(password) < 8 {
    return nil, apierr.BadRequest("password must be at least 8 characters", nil)
  }
  hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
  if err != nil {
    return nil, apierr.Internal("failed to hash password", err)
  }

  hashedStr := string(hashed)
  account := &types.Account{
    ID:       uuid.New(),
    Email:    &email,
    Password: &hashedStr,
  }
  if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, err := as.accountRepo.Create(ctx, tx, account); err != nil {
      return db.TranslateError(err, "account already exists")
    }
    if as.avatarService != nil {
      if err := as.avatarService.CreateAndUploadDefaultAvatar(ctx, tx, account); err != nil {
        as.log.Warn("Failed to create default avatar, keeping placeholder", "error", err)
      }
    }
    return nil
  }); err != nil {
    return nil, err
  }
  return as.issueToken(account)
}

func (as *authService) SignIn(ctx context.Context, email, password string) (*Token, error) {
  email = strings.ToLower(strings.TrimSpace(email))
  account, err := as.accountRepo.GetByEmail(ctx, nil, email)
  if err != nil {
    return nil, apierr.Unauthorized("login failed", err)
  }
  if account.Password == nil {
    return nil, apierr.Unauthorized("login failed", nil)
  }
  if err := bcrypt.CompareHashAndPassword([]byte(*account.Password), []byte(password)); err != nil {
    return nil, apierr.Unauthorized("login failed", err)
  }
  return as.issueToken(account)
}

func (as *authService) SocialLogin(ctx context.Context, provider, providerToken string) (*Token, error) {
  if as.socialClient == nil {
    return nil, apierr.Internal("social login not configured", nil)
  }
  identity, err := as.socialClient.Exchange(ctx, provider, providerToken)
  if err != nil {
    return nil, err
  }
  account, err := as.accountRepo.GetBySocialID(ctx, nil, identity.SocialID)
  if err == nil {
    return as.issueToken(account)
  }
  if translated := db.TranslateError(err, "account lookup failed"); !apierr.IsStatus(translated, 404) {
    return nil, translated
  }

  account = &types.Account{
    ID:       uuid.New(),
    SocialID: &identity.SocialID,
  }
  if identity.Email != "" {
    email := strings.ToLower(identity.Email)
    account.Email = &email
  }
  if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, err := as.accountRepo.Create(ctx, tx, account); err != nil {
      // A concurrent first login can win the insert; reuse its row.
      if db.IsDuplicate(err) {
        existing, lookupErr := as.accountRepo.GetBySocialID(ctx, tx, identity.SocialID)
        if lookupErr != nil {
          return db.TranslateError(lookupErr, "account lookup failed")
        }
        account = existing
        return nil
      }
      return db.TranslateError(err, "social sign-up failed")
    }
    if as.avatarService != nil {
      if err := as.avatarService.CreateAndUploadDefaultAvatar(ctx, tx, account); err != nil {
        as.log.Warn("Failed to create default avatar, keeping placeholder", "error", err)
      }
    }
    return nil
  }); err != nil {
    return nil, err
  }
  return as.issueToken(account)
}

func (as *authService) issueToken(account *types.Account) (*Token, error) {
  expireTime := time.Now().Add(as.accessTTL)
  claims := JWTClaims{
    RegisteredClaims: jwt.RegisteredClaims{
      Subject:   account.ID.String(),
      ExpiresAt: jwt.NewNumericDate(expireTime),
      IssuedAt:  jwt.NewNumericDate(time.Now()),
    },
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  signed, err := token.SignedString([]byte(as.jwtSecretKey))
  if err != nil {
    return nil, apierr.Internal("failed to sign token", err)
  }
  return &Token{AccessToken: signed, ExpireTime: expireTime}, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  if tokenString == "" {
    return ctx, apierr.Unauthorized("missing token", nil)
  }
  parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
    if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
    }
    return []byte(as.jwtSecretKey), nil
  })
  if err != nil {
    return ctx, apierr.Unauthorized("invalid or expired token", err)
  }
  claims, ok := parsedToken.Claims.(*JWTClaims)
  if !ok || !parsedToken.Valid {
    return ctx, apierr.Unauthorized("invalid or expired token", nil)
  }
  accountID, err := uuid.Parse(claims.Subject)
  if err != nil {
    return ctx, apierr.Unauthorized("invalid account id in token", err)
  }
  rd := &requestdata.RequestData{
    TokenString: tokenString,
    AccountID:   accountID,
  }
  return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
  return as.accessTTL
}
