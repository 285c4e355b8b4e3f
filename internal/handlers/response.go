package handlers

import (
  "errors"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/qfeed/qfeed-backend/internal/apierr"
)

// RespondDomainError maps a domain error onto its HTTP status. Plain
// errors become 500 without leaking their message.
func RespondDomainError(c *gin.Context, err error) {
  var ae *apierr.Error
  if errors.As(err, &ae) {
    c.JSON(ae.Status, gin.H{"error": ae.Code})
    return
  }
  c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
  c.JSON(http.StatusCreated, payload)
}
