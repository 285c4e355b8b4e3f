package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/qfeed/qfeed-backend/internal/services"
)

type SocialGraphHandler struct {
  socialGraphService  services.SocialGraphService
}

func NewSocialGraphHandler(socialGraphService services.SocialGraphService) *SocialGraphHandler {
  return &SocialGraphHandler{socialGraphService: socialGraphService}
}

func (sh *SocialGraphHandler) Follow(c *gin.Context) {
  targetID, ok := paramUUID(c, "target_account_id")
  if !ok {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target account id"})
    return
  }
  follow, err := sh.socialGraphService.Follow(c.Request.Context(), currentAccountID(c), targetID)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondCreated(c, follow)
}

func (sh *SocialGraphHandler) Unfollow(c *gin.Context) {
  targetID, ok := paramUUID(c, "target_account_id")
  if !ok {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target account id"})
    return
  }
  if err := sh.socialGraphService.Unfollow(c.Request.Context(), currentAccountID(c), targetID); err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": "true"})
}

func (sh *SocialGraphHandler) Block(c *gin.Context) {
  targetID, ok := paramUUID(c, "target_account_id")
  if !ok {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target account id"})
    return
  }
  block, err := sh.socialGraphService.Block(c.Request.Context(), currentAccountID(c), targetID)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondCreated(c, block)
}

func (sh *SocialGraphHandler) Unblock(c *gin.Context) {
  targetID, ok := paramUUID(c, "target_account_id")
  if !ok {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target account id"})
    return
  }
  if err := sh.socialGraphService.Unblock(c.Request.Context(), currentAccountID(c), targetID); err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": "true"})
}

func (sh *SocialGraphHandler) ListFollowings(c *gin.Context) {
  offset, limit := paging(c)
  follows, count, err := sh.socialGraphService.FetchFollowings(c.Request.Context(), currentAccountID(c), offset, limit)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondOK(c, gin.H{"count": count, "data": follows})
}

func (sh *SocialGraphHandler) ListFollowers(c *gin.Context) {
  offset, limit := paging(c)
  follows, count, err := sh.socialGraphService.FetchFollowers(c.Request.Context(), currentAccountID(c), offset, limit)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondOK(c, gin.H{"count": count, "data": follows})
}

func (sh *SocialGraphHandler) ListBlockings(c *gin.Context) {
  offset, limit := paging(c)
  blocks, count, err := sh.socialGraphService.FetchBlockings(c.Request.Context(), currentAccountID(c), offset, limit)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondOK(c, gin.H{"count": count, "data": blocks})
}
