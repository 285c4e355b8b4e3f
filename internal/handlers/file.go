package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/qfeed/qfeed-backend/internal/services"
)

type FileHandler struct {
  fileService   services.FileService
}

func NewFileHandler(fileService services.FileService) *FileHandler {
  return &FileHandler{fileService: fileService}
}

func (fh *FileHandler) CreatePresignedUpload(c *gin.Context) {
  var req struct {
    AppName   string    `json:"app_name"`
    FileName  string    `json:"file_name"`
    FileType  string    `json:"file_type"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  if req.FileName == "" || req.FileType == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "file_name and file_type are required"})
    return
  }
  upload, err := fh.fileService.CreatePresignedUpload(req.AppName, req.FileName, req.FileType)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondCreated(c, upload)
}
