package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/qfeed/qfeed-backend/internal/services"
)

type ChatroomHandler struct {
  chatroomService  services.ChatroomService
}

func NewChatroomHandler(chatroomService services.ChatroomService) *ChatroomHandler {
  return &ChatroomHandler{chatroomService: chatroomService}
}

func (ch *ChatroomHandler) GetOrCreate(c *gin.Context) {
  var req struct {
    TargetAccountID uuid.UUID `json:"target_account_id"`
    Title           string    `json:"title"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  chatroom, err := ch.chatroomService.GetOrCreateChatroom(c.Request.Context(), currentAccountID(c), req.TargetAccountID, req.Title)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondOK(c, chatroom)
}

func (ch *ChatroomHandler) List(c *gin.Context) {
  offset, limit := paging(c)
  chatrooms, count, err := ch.chatroomService.FetchChatrooms(c.Request.Context(), currentAccountID(c), offset, limit)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondOK(c, gin.H{"count": count, "data": chatrooms})
}

func (ch *ChatroomHandler) CreateChat(c *gin.Context) {
  chatroomID, ok := paramUUID(c, "chatroom_id")
  if !ok {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chatroom id"})
    return
  }
  var req struct {
    Message   string    `json:"message"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  chat, err := ch.chatroomService.CreateChat(c.Request.Context(), currentAccountID(c), chatroomID, req.Message)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondCreated(c, chat)
}

func (ch *ChatroomHandler) ListChats(c *gin.Context) {
  chatroomID, ok := paramUUID(c, "chatroom_id")
  if !ok {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chatroom id"})
    return
  }
  offset, limit := paging(c)
  chats, count, err := ch.chatroomService.FetchChats(c.Request.Context(), currentAccountID(c), chatroomID, offset, limit)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondOK(c, gin.H{"count": count, "data": chats})
}
