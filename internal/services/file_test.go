package services

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type fakeBucket struct{}

func (fakeBucket) UploadFile(ctx context.Context, key string, file io.Reader) error { return nil }
func (fakeBucket) DeleteFile(ctx context.Context, key string) error                 { return nil }
func (fakeBucket) SignedUploadURL(key, contentType string, expiry time.Duration) (string, error) {
	return "https://signed.example.com/" + key, nil
}
func (fakeBucket) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func TestCreatePresignedUpload(t *testing.T) {
	svc := NewFileService(newTestLogger(), fakeBucket{})

	upload, err := svc.CreatePresignedUpload("qfeed", "photo.png", "image/png")
	if err != nil {
		t.Fatalf("CreatePresignedUpload failed: %v", err)
	}
	if !strings.HasPrefix(upload.PresignedURL, "https://signed.example.com/files/qfeed/") {
		t.Fatalf("unexpected presigned url: %q", upload.PresignedURL)
	}
	if !strings.HasSuffix(upload.ImageURL, "-photo.png") {
		t.Fatalf("unexpected image url: %q", upload.ImageURL)
	}

	_, err = svc.CreatePresignedUpload("", "photo.png", "image/png")
	wantStatus(t, err, http.StatusBadRequest)
}

func TestCreatePresignedUpload_NoBucket(t *testing.T) {
	svc := NewFileService(newTestLogger(), nil)
	_, err := svc.CreatePresignedUpload("qfeed", "photo.png", "image/png")
	wantStatus(t, err, http.StatusInternalServerError)
}
