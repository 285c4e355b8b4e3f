package services

import (
  "fmt"
  "strings"
  "time"
  "github.com/qfeed/qfeed-backend/internal/apierr"
  "github.com/qfeed/qfeed-backend/internal/logger"
)

const presignExpiry = time.Hour

// PresignedUpload is a one-hour PUT url plus the public url the object
// will be served from once uploaded.
type PresignedUpload struct {
  PresignedURL string `json:"presigned_url"`
  ImageURL     string `json:"image_url"`
}

type FileService interface {
  CreatePresignedUpload(appName, fileName, fileType string) (*PresignedUpload, error)
}

type fileService struct {
  log           *logger.Logger
  bucketService BucketService
}

func NewFileService(log *logger.Logger, bucketService BucketService) FileService {
  serviceLog := log.With("service", "FileService")
  return &fileService{log: serviceLog, bucketService: bucketService}
}

func (fs *fileService) CreatePresignedUpload(appName, fileName, fileType string) (*PresignedUpload, error) {
  appName = strings.TrimSpace(appName)
  fileName = strings.TrimSpace(fileName)
  if appName == "" || fileName == "" {
    return nil, apierr.BadRequest("app name and file name must not be empty", nil)
  }
  if fs.bucketService == nil {
    return nil, apierr.Internal("object storage not configured", nil)
  }
  key := fmt.Sprintf("files/%s/%d-%s", appName, time.Now().UnixMilli(), fileName)
  url, err := fs.bucketService.SignedUploadURL(key, fileType, presignExpiry)
  if err != nil {
    return nil, apierr.Internal("failed to create presigned url", err)
  }
  return &PresignedUpload{
    PresignedURL: url,
    ImageURL:     fs.bucketService.GetPublicURL(key),
  }, nil
}
