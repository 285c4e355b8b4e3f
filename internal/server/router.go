package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
  "github.com/qfeed/qfeed-backend/internal/handlers"
  "github.com/qfeed/qfeed-backend/internal/middleware"
)

type RouterConfig struct {
  AuthMiddleware      *middleware.AuthMiddleware
  AccountHandler      *handlers.AccountHandler
  SocialGraphHandler  *handlers.SocialGraphHandler
  QuestionHandler     *handlers.QuestionHandler
  QsetHandler         *handlers.QsetHandler
  ChatroomHandler     *handlers.ChatroomHandler
  FileHandler         *handlers.FileHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Tracing
  router.Use(otelgin.Middleware("qfeed-backend"))

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  router.POST("/account/sign-up", cfg.AccountHandler.SignUp)
  router.POST("/account/sign-in", cfg.AccountHandler.SignIn)
  router.POST("/account/social-login", cfg.AccountHandler.SocialLogin)
  router.GET("/account/nickname-check", cfg.AccountHandler.CheckNickname)

// ===============
// || Protected ||
// ===============
  protected := router.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  // Account
  protected.GET("/account", cfg.AccountHandler.Search)
  protected.GET("/account/me", cfg.AccountHandler.GetMe)
  protected.PATCH("/account/me", cfg.AccountHandler.UpdateMe)
  protected.DELETE("/account/me/hard-delete", cfg.AccountHandler.DeleteMe)
  // Social graph
  protected.POST("/account/:target_account_id/follow", cfg.SocialGraphHandler.Follow)
  protected.POST("/account/:target_account_id/unfollow", cfg.SocialGraphHandler.Unfollow)
  protected.POST("/account/:target_account_id/block", cfg.SocialGraphHandler.Block)
  protected.POST("/account/:target_account_id/unblock", cfg.SocialGraphHandler.Unblock)
  protected.GET("/account/followings", cfg.SocialGraphHandler.ListFollowings)
  protected.GET("/account/followers", cfg.SocialGraphHandler.ListFollowers)
  protected.GET("/account/blockings", cfg.SocialGraphHandler.ListBlockings)
  // Questions
  protected.POST("/questions", cfg.QuestionHandler.Create)
  protected.GET("/questions", cfg.QuestionHandler.Feed)
  protected.GET("/questions/user/:target_account_id", cfg.QuestionHandler.ListByAccount)
  protected.GET("/questions/:question_id", cfg.QuestionHandler.Get)
  protected.POST("/questions/:question_id/choices", cfg.QuestionHandler.CreateChoice)
  protected.GET("/questions/:question_id/choices", cfg.QuestionHandler.ChoiceTally)
  // Question sets
  protected.POST("/questions/q-set", cfg.QsetHandler.Create)
  protected.GET("/questions/q-set/today", cfg.QsetHandler.Today)
  protected.PATCH("/questions/q-set/:user_qset_id/pass", cfg.QsetHandler.Pass)
  protected.POST("/questions/q-set/:user_qset_id/choice", cfg.QsetHandler.Choose)
  // Chat
  protected.POST("/chatrooms", cfg.ChatroomHandler.GetOrCreate)
  protected.GET("/chatrooms", cfg.ChatroomHandler.List)
  protected.POST("/chatrooms/:chatroom_id/chats", cfg.ChatroomHandler.CreateChat)
  protected.GET("/chatrooms/:chatroom_id/chats", cfg.ChatroomHandler.ListChats)
  // Files
  protected.POST("/files/presigned-url", cfg.FileHandler.CreatePresignedUpload)

  return router
}
