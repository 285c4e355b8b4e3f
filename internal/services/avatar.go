package services

import (
  "bytes"
  "context"
  "fmt"
  "image"
  "image/color"
  "image/png"
  "math/rand"
  "os"
  "strings"
  "time"
  "github.com/fogleman/gg"
  "github.com/golang/freetype/truetype"
  "golang.org/x/image/draw"
  "golang.org/x/image/font"
  "gorm.io/gorm"
  "github.com/qfeed/qfeed-backend/internal/logger"
  "github.com/qfeed/qfeed-backend/internal/repos"
  "github.com/qfeed/qfeed-backend/internal/types"
  "github.com/qfeed/qfeed-backend/internal/utils"
)

const (
  avatarCanvasSize = 1024
  avatarOutputSize = 512
)

var avatarPalette = []color.NRGBA{
  {R: 0x5A, G: 0x8D, B: 0xEE, A: 0xFF},
  {R: 0xF2, G: 0x7E, B: 0x63, A: 0xFF},
  {R: 0x6F, G: 0xCF, B: 0x97, A: 0xFF},
  {R: 0xBB, G: 0x6B, B: 0xD9, A: 0xFF},
  {R: 0xF2, G: 0xC9, B: 0x4C, A: 0xFF},
}

// AvatarService renders the default profile image a fresh account gets
// before it has uploaded one of its own.
type AvatarService interface {
  CreateAndUploadDefaultAvatar(ctx context.Context, tx *gorm.DB, account *types.Account) error
}

type avatarService struct {
  db            *gorm.DB
  log           *logger.Logger
  accountRepo   repos.AccountRepo
  bucketService BucketService
  fontFace      font.Face
}

func NewAvatarService(pg *gorm.DB, log *logger.Logger, accountRepo repos.AccountRepo, bucketService BucketService) (AvatarService, error) {
  serviceLog := log.With("service", "AvatarService")
  fontPath := utils.GetEnv("AVATAR_FONT", "", log)
  if strings.TrimSpace(fontPath) == "" {
    return nil, fmt.Errorf("env var AVATAR_FONT is empty")
  }
  face, err := loadFontFace(fontPath, 420)
  if err != nil {
    return nil, fmt.Errorf("could not load avatar font: %w", err)
  }
  return &avatarService{
    db:            pg,
    log:           serviceLog,
    accountRepo:   accountRepo,
    bucketService: bucketService,
    fontFace:      face,
  }, nil
}

func (as *avatarService) CreateAndUploadDefaultAvatar(ctx context.Context, tx *gorm.DB, account *types.Account) error {
  buf, err := as.renderAvatar(account)
  if err != nil {
    return err
  }
  key := fmt.Sprintf("avatars/%s/%d.png", account.ID.String(), time.Now().UnixNano())
  if err := as.bucketService.UploadFile(ctx, key, bytes.NewReader(buf.Bytes())); err != nil {
    return fmt.Errorf("failed to upload avatar: %w", err)
  }
  account.ProfileImage = as.bucketService.GetPublicURL(key)
  if _, err := as.accountRepo.Update(ctx, tx, account); err != nil {
    return fmt.Errorf("failed to store avatar url: %w", err)
  }
  return nil
}

func (as *avatarService) renderAvatar(account *types.Account) (*bytes.Buffer, error) {
  dc := gg.NewContext(avatarCanvasSize, avatarCanvasSize)
  bg := avatarPalette[rand.Intn(len(avatarPalette))]
  dc.SetColor(bg)
  dc.Clear()

  dc.SetFontFace(as.fontFace)
  dc.SetRGB(1, 1, 1)
  dc.DrawStringAnchored(avatarInitial(account), avatarCanvasSize/2, avatarCanvasSize/2, 0.5, 0.55)

  scaled := image.NewNRGBA(image.Rect(0, 0, avatarOutputSize, avatarOutputSize))
  draw.CatmullRom.Scale(scaled, scaled.Bounds(), dc.Image(), dc.Image().Bounds(), draw.Over, nil)

  var buf bytes.Buffer
  if err := png.Encode(&buf, scaled); err != nil {
    return nil, fmt.Errorf("failed to encode avatar: %w", err)
  }
  return &buf, nil
}

func avatarInitial(account *types.Account) string {
  source := account.Name
  if source == "" && account.Nickname != nil {
    source = *account.Nickname
  }
  if source == "" && account.Email != nil {
    source = *account.Email
  }
  for _, r := range strings.TrimSpace(source) {
    return strings.ToUpper(string(r))
  }
  return "Q"
}

func loadFontFace(path string, points float64) (font.Face, error) {
  raw, err := os.ReadFile(path)
  if err != nil {
    return nil, err
  }
  parsed, err := truetype.Parse(raw)
  if err != nil {
    return nil, err
  }
  return truetype.NewFace(parsed, &truetype.Options{Size: points}), nil
}
