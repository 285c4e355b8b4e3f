package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/qfeed/qfeed-backend/internal/services"
)

type QsetHandler struct {
  qsetService   services.QsetService
}

func NewQsetHandler(qsetService services.QsetService) *QsetHandler {
  return &QsetHandler{qsetService: qsetService}
}

func (qh *QsetHandler) Create(c *gin.Context) {
  userQset, err := qh.qsetService.CreateUserQset(c.Request.Context(), currentAccountID(c))
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondCreated(c, userQset)
}

func (qh *QsetHandler) Today(c *gin.Context) {
  userQsets, err := qh.qsetService.FetchTodayUserQsets(c.Request.Context(), currentAccountID(c))
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondOK(c, gin.H{"data": userQsets})
}

func (qh *QsetHandler) Pass(c *gin.Context) {
  userQsetID, ok := paramUUID(c, "user_qset_id")
  if !ok {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user qset id"})
    return
  }
  userQset, err := qh.qsetService.PassUserQ(c.Request.Context(), currentAccountID(c), userQsetID)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondOK(c, userQset)
}

func (qh *QsetHandler) Choose(c *gin.Context) {
  userQsetID, ok := paramUUID(c, "user_qset_id")
  if !ok {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user qset id"})
    return
  }
  var req struct {
    TargetAccountID uuid.UUID `json:"target_account_id"`
    Value           string    `json:"value"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  userQset, err := qh.qsetService.CreateUserQChoice(c.Request.Context(), currentAccountID(c), userQsetID, req.TargetAccountID, req.Value)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondOK(c, userQset)
}
