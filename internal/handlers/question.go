package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/qfeed/qfeed-backend/internal/services"
  "github.com/qfeed/qfeed-backend/internal/types"
)

type QuestionHandler struct {
  questionService  services.QuestionService
}

func NewQuestionHandler(questionService services.QuestionService) *QuestionHandler {
  return &QuestionHandler{questionService: questionService}
}

func (qh *QuestionHandler) Create(c *gin.Context) {
  var req struct {
    Title           string    `json:"title"`
    ChoiceList      []string  `json:"choice_list"`
    BackgroundImage string    `json:"background_image"`
    IsBlind         bool      `json:"is_blind"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  in := services.QuestionInCreate{
    Title:           req.Title,
    ChoiceList:      req.ChoiceList,
    BackgroundImage: req.BackgroundImage,
    IsBlind:         req.IsBlind,
  }
  question, err := qh.questionService.CreateQuestion(c.Request.Context(), currentAccountID(c), in)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondCreated(c, question)
}

func (qh *QuestionHandler) Feed(c *gin.Context) {
  offset, limit := paging(c)
  feed, err := qh.questionService.FetchFeed(c.Request.Context(), currentAccountID(c), c.Query("order_by"), offset, limit)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondOK(c, feed)
}

func (qh *QuestionHandler) ListByAccount(c *gin.Context) {
  targetID, ok := paramUUID(c, "target_account_id")
  if !ok {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target account id"})
    return
  }
  qtype := types.Qtype(c.DefaultQuery("qtype", string(types.QtypePersonal)))
  if qtype != types.QtypePersonal && qtype != types.QtypeOfficial {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid qtype"})
    return
  }
  offset, limit := paging(c)
  questions, count, err := qh.questionService.FetchUserQuestions(c.Request.Context(), targetID, qtype, offset, limit)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondOK(c, gin.H{"count": count, "data": questions})
}

func (qh *QuestionHandler) Get(c *gin.Context) {
  questionID, ok := paramUUID(c, "question_id")
  if !ok {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
    return
  }
  question, err := qh.questionService.GetQuestion(c.Request.Context(), currentAccountID(c), questionID)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondOK(c, question)
}

func (qh *QuestionHandler) CreateChoice(c *gin.Context) {
  questionID, ok := paramUUID(c, "question_id")
  if !ok {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
    return
  }
  var req struct {
    Value   string    `json:"value"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  choice, err := qh.questionService.CreateChoice(c.Request.Context(), currentAccountID(c), questionID, req.Value)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondCreated(c, choice)
}

func (qh *QuestionHandler) ChoiceTally(c *gin.Context) {
  questionID, ok := paramUUID(c, "question_id")
  if !ok {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
    return
  }
  tally, err := qh.questionService.FetchChoiceTally(c.Request.Context(), currentAccountID(c), questionID)
  if err != nil {
    RespondDomainError(c, err)
    return
  }
  RespondOK(c, tally)
}
