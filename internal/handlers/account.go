package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/qfeed/qfeed-backend/internal/services"
)

type AccountHandler struct {
  authService     services.AuthService
  accountService  services.AccountService
}

func NewAccountHandler(authService services.AuthService, accountService services.AccountService) *AccountHandler {
  return &AccountHandler{authService: authService, accountService: accountService}
}

func (ah *AccountHandler) SignUp(c *gin.Context) {
  var req struct {
    Email     string    `json:"email"`
    Password  string    `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  token, err := ah.authService.SignUp(c.Request.Context(), req.Email, req.Password)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondCreated(c, token)
}

func (ah *AccountHandler) SignIn(c *gin.Context) {
  var req struct {
    Email     string    `json:"email"`
    Password  string    `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  token, err := ah.authService.SignIn(c.Request.Context(), req.Email, req.Password)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondOK(c, token)
}

func (ah *AccountHandler) SocialLogin(c *gin.Context) {
  var req struct {
    Provider      string    `json:"provider"`
    ProviderToken string    `json:"provider_token"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  token, err := ah.authService.SocialLogin(c.Request.Context(), req.Provider, req.ProviderToken)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondOK(c, token)
}

func (ah *AccountHandler) CheckNickname(c *gin.Context) {
  nickname := c.Query("nickname")
  if nickname == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "nickname is required"})
    return
  }
  available, err := ah.accountService.NicknameAvailable(c.Request.Context(), nickname)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondOK(c, gin.H{"available": available})
}

func (ah *AccountHandler) GetMe(c *gin.Context) {
  me, err := ah.accountService.GetMe(c.Request.Context(), currentAccountID(c))
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondOK(c, me)
}

func (ah *AccountHandler) UpdateMe(c *gin.Context) {
  var req struct {
    Name          *string   `json:"name"`
    Nickname      *string   `json:"nickname"`
    ProfileImage  *string   `json:"profile_image"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  update := services.AccountUpdate{
    Name:         req.Name,
    Nickname:     req.Nickname,
    ProfileImage: req.ProfileImage,
  }
  me, err := ah.accountService.UpdateMe(c.Request.Context(), currentAccountID(c), update)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondOK(c, me)
}

func (ah *AccountHandler) DeleteMe(c *gin.Context) {
  if err := ah.accountService.HardDelete(c.Request.Context(), currentAccountID(c)); err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": "true"})
}

func (ah *AccountHandler) Search(c *gin.Context) {
  keyword := c.Query("keyword")
  offset, limit := paging(c)
  accounts, count, err := ah.accountService.Search(c.Request.Context(), keyword, offset, limit)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondOK(c, gin.H{"count": count, "data": accounts})
}
