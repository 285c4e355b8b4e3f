package services

import (
  "context"
  "fmt"
  "io"
  "os"
  "time"
  "cloud.google.com/go/storage"
  "google.golang.org/api/option"
  "github.com/qfeed/qfeed-backend/internal/logger"
  "github.com/qfeed/qfeed-backend/internal/utils"
)

type BucketService interface {
  UploadFile(ctx context.Context, key string, file io.Reader) error
  DeleteFile(ctx context.Context, key string) error
  SignedUploadURL(key, contentType string, expiresIn time.Duration) (string, error)
  GetPublicURL(key string) string
}

type bucketService struct {
  log           *logger.Logger
  storageClient *storage.Client
  bucketName    string
  cdnDomain     string
}

func NewBucketService(log *logger.Logger) (BucketService, error) {
  serviceLog := log.With("service", "BucketService")
  bucket := utils.GetEnv("GCS_BUCKET_NAME", "", log)
  if bucket == "" {
    return nil, fmt.Errorf("missing env var GCS_BUCKET_NAME")
  }
  cdnDomain := utils.GetEnv("CDN_DOMAIN", "", log)
  saPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON")
  if saPath == "" {
    serviceLog.Warn("GOOGLE_APPLICATION_CREDENTIALS_JSON not set, relying on ambient credentials")
  }
  ctx := context.Background()
  var stClient *storage.Client
  var err error
  if saPath != "" {
    stClient, err = storage.NewClient(ctx, option.WithCredentialsFile(saPath), option.WithScopes(storage.ScopeReadWrite))
  } else {
    stClient, err = storage.NewClient(ctx, option.WithScopes(storage.ScopeReadWrite))
  }
  if err != nil {
    return nil, fmt.Errorf("failed to create storage client: %w", err)
  }
  return &bucketService{
    log:           serviceLog,
    storageClient: stClient,
    bucketName:    bucket,
    cdnDomain:     cdnDomain,
  }, nil
}

func (bs *bucketService) UploadFile(ctx context.Context, key string, file io.Reader) error {
  ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
  defer cancel()
  w := bs.storageClient.Bucket(bs.bucketName).Object(key).NewWriter(ctx)
  if _, err := io.Copy(w, file); err != nil {
    _ = w.Close()
    return fmt.Errorf("failed to write data to bucket: %w", err)
  }
  if err := w.Close(); err != nil {
    return fmt.Errorf("failed to close bucket writer: %w", err)
  }
  return nil
}

func (bs *bucketService) DeleteFile(ctx context.Context, key string) error {
  ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
  defer cancel()
  o := bs.storageClient.Bucket(bs.bucketName).Object(key)
  if err := o.Delete(ctx); err != nil {
    return fmt.Errorf("failed to delete bucket object %q: %w", key, err)
  }
  return nil
}

func (bs *bucketService) SignedUploadURL(key, contentType string, expiresIn time.Duration) (string, error) {
  opts := &storage.SignedURLOptions{
    Scheme:      storage.SigningSchemeV4,
    Method:      "PUT",
    Expires:     time.Now().Add(expiresIn),
    ContentType: contentType,
  }
  url, err := bs.storageClient.Bucket(bs.bucketName).SignedURL(key, opts)
  if err != nil {
    return "", fmt.Errorf("failed to sign upload url for %q: %w", key, err)
  }
  return url, nil
}

func (bs *bucketService) GetPublicURL(key string) string {
  if bs.cdnDomain != "" {
    return fmt.Sprintf("https://%s/%s", bs.cdnDomain, key)
  }
  return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.bucketName, key)
}
