package main

import (
  "context"
  "fmt"
  "os"
  "time"
  "github.com/qfeed/qfeed-backend/internal/db"
  "github.com/qfeed/qfeed-backend/internal/handlers"
  "github.com/qfeed/qfeed-backend/internal/logger"
  "github.com/qfeed/qfeed-backend/internal/middleware"
  "github.com/qfeed/qfeed-backend/internal/observability"
  "github.com/qfeed/qfeed-backend/internal/repos"
  "github.com/qfeed/qfeed-backend/internal/server"
  "github.com/qfeed/qfeed-backend/internal/services"
  "github.com/qfeed/qfeed-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Tracing
  shutdownTracing := observability.InitTracing(context.Background(), log, observability.Config{
    ServiceName: "qfeed-backend",
    Environment: logMode,
  })
  if shutdownTracing != nil {
    defer func() {
      ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer cancel()
      if err := shutdownTracing(ctx); err != nil {
        log.Warn("Tracing shutdown failed", "error", err)
      }
    }()
  }

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  qsetSeedPath := utils.GetEnv("QSET_SEED_PATH", "configs/qsets.yaml", log)

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Error("Postgres auto migration failed", "error", err)
    os.Exit(1)
  }
  thePG := postgresService.DB()
  if err = db.SeedQsets(thePG, log, qsetSeedPath); err != nil {
    log.Warn("Question set seeding failed", "error", err)
  }

  // Repos
  log.Info("Setting up Repos from main...")
  accountRepo := repos.NewAccountRepo(thePG, log)
  followRepo := repos.NewFollowRepo(thePG, log)
  blockRepo := repos.NewBlockRepo(thePG, log)
  qsetRepo := repos.NewQsetRepo(thePG, log)
  userQsetRepo := repos.NewUserQsetRepo(thePG, log)
  questionRepo := repos.NewQuestionRepo(thePG, log)
  choiceRepo := repos.NewChoiceRepo(thePG, log)
  viewHistoryRepo := repos.NewViewHistoryRepo(thePG, log)
  chatroomRepo := repos.NewChatroomRepo(thePG, log)
  chatRepo := repos.NewChatRepo(thePG, log)

  // Services
  log.Info("Setting up Services from main...")
  bucketService, err := services.NewBucketService(log)
  if err != nil {
    log.Warn("Could not init BucketService", "error", err)
  }
  var avatarService services.AvatarService
  if bucketService != nil {
    avatarService, err = services.NewAvatarService(thePG, log, accountRepo, bucketService)
    if err != nil {
      log.Warn("Could not init AvatarService", "error", err)
    }
  }
  eventBus, err := services.NewRedisChatEventBus(log)
  if err != nil {
    log.Warn("Could not init chat event bus, falling back to noop", "error", err)
    eventBus = services.NewNoopChatEventBus()
  }
  defer eventBus.Close()
  socialClient := services.NewSocialLoginClient(log)
  authService := services.NewAuthService(thePG, log, accountRepo, avatarService, socialClient, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second)
  accountService := services.NewAccountService(thePG, log, accountRepo)
  socialGraphService := services.NewSocialGraphService(thePG, log, accountRepo, followRepo, blockRepo)
  questionService := services.NewQuestionService(thePG, log, questionRepo, choiceRepo, viewHistoryRepo, followRepo)
  qsetService := services.NewQsetService(thePG, log, accountRepo, qsetRepo, userQsetRepo, questionRepo, choiceRepo)
  chatroomService := services.NewChatroomService(thePG, log, accountRepo, chatroomRepo, chatRepo, eventBus)
  fileService := services.NewFileService(log, bucketService)

  // Handlers
  log.Info("Setting up handlers from main...")
  accountHandler := handlers.NewAccountHandler(authService, accountService)
  socialGraphHandler := handlers.NewSocialGraphHandler(socialGraphService)
  questionHandler := handlers.NewQuestionHandler(questionService)
  qsetHandler := handlers.NewQsetHandler(qsetService)
  chatroomHandler := handlers.NewChatroomHandler(chatroomService)
  fileHandler := handlers.NewFileHandler(fileService)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthMiddleware:     authMiddleware,
    AccountHandler:     accountHandler,
    SocialGraphHandler: socialGraphHandler,
    QuestionHandler:    questionHandler,
    QsetHandler:        qsetHandler,
    ChatroomHandler:    chatroomHandler,
    FileHandler:        fileHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server exited", "error", err)
    os.Exit(1)
  }
}
