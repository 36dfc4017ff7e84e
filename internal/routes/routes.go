package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/himesh-bhushan/catchup-backend/internal/cache"
	"github.com/himesh-bhushan/catchup-backend/internal/config"
	"github.com/himesh-bhushan/catchup-backend/internal/handlers"
	"github.com/himesh-bhushan/catchup-backend/internal/middleware"
	"github.com/himesh-bhushan/catchup-backend/internal/notify"
	"github.com/himesh-bhushan/catchup-backend/internal/repository"
	"github.com/himesh-bhushan/catchup-backend/internal/services"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool, logger *zap.Logger) {
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	heartRateRepo := repository.NewHeartRateRepository(db)
	goalsRepo := repository.NewDailyGoalsRepository(db)
	chatRepo := repository.NewChatMessageRepository(db)
	sharingRepo := repository.NewSharingRepository(db)

	rdb := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	snapshots := cache.NewSnapshotCache(rdb, logger)
	drafts := cache.NewDraftStore(rdb)

	var storageService services.StorageService
	if cfg.SupabaseURL != "" && cfg.SupabaseBucket != "" && cfg.SupabaseServiceKey != "" {
		storageService = services.NewSupabaseStorageService(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	}

	hub := notify.NewHub(logger)
	go hub.Run()

	profileService := services.NewProfileService(profileRepo, storageService, snapshots, logger)
	medicalService := services.NewMedicalService(profileRepo, hub, logger)
	onboardingService := services.NewOnboardingService(drafts, profileRepo, logger)
	metricsService := services.NewMetricsService(activityRepo, heartRateRepo, goalsRepo, profileRepo, profileService, snapshots, logger)
	goalsService := services.NewGoalsService(goalsRepo, snapshots)
	logsService := services.NewLogsService(activityRepo, heartRateRepo, snapshots)
	chatService := services.NewChatService(cfg.ChatAPIURL, chatRepo, profileRepo, logger)
	wearableService := services.NewWearableService(
		profileRepo,
		cfg.WearableSyncURL,
		cfg.OAuthClientID,
		cfg.OAuthAuthorizeURL,
		cfg.OAuthRedirectURL,
		snapshots,
		logger,
	)
	reportService := services.NewReportService(metricsService, profileRepo, cfg.PublicBaseURL)

	authHandler := handlers.NewAuthHandler(db, userRepo, profileRepo, cfg.JWTSecret, logger)
	onboardingHandler := handlers.NewOnboardingHandler(onboardingService)
	profileHandler := handlers.NewProfileHandler(profileService, medicalService)
	logsHandler := handlers.NewLogsHandler(logsService, goalsService)
	dashboardHandler := handlers.NewDashboardHandler(metricsService)
	chatHandler := handlers.NewChatHandler(chatService)
	reportHandler := handlers.NewReportHandler(reportService)
	wearableHandler := handlers.NewWearableHandler(wearableService)
	sharingHandler := handlers.NewSharingHandler(sharingRepo)
	notifyHandler := handlers.NewNotifyHandler(hub, cfg.JWTSecret)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	// The QR code lands on these from another device, so no bearer token.
	api.Get("/report/pdf/:userID", reportHandler.GetPDF)
	api.Get("/report/qr/:userID", reportHandler.GetQR)

	protected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	protected.Delete("/users/account", authHandler.DeleteAccount)

	onboarding := protected.Group("/onboarding")
	onboarding.Get("", onboardingHandler.GetDraft)
	onboarding.Put("/steps/:step", onboardingHandler.SaveStep)
	onboarding.Post("/submit", onboardingHandler.Submit)

	profile := protected.Group("/profile")
	profile.Get("", profileHandler.GetProfile)
	profile.Put("", profileHandler.UpdateProfile)
	profile.Post("/avatar", profileHandler.UploadAvatar)
	profile.Put("/calorie-goal", profileHandler.SetCalorieGoal)
	profile.Get("/medical-id", profileHandler.GetMedicalID)
	profile.Put("/medical-id/lock-visibility", profileHandler.SetLockVisibility)

	logs := protected.Group("/logs")
	logs.Get("/activity", logsHandler.ListActivity)
	logs.Put("/activity/:date", logsHandler.UpsertActivity)
	logs.Get("/heart-rate", logsHandler.ListHeartRate)
	logs.Put("/heart-rate/:date", logsHandler.UpsertHeartRate)

	goals := protected.Group("/goals")
	goals.Get("/:date?", logsHandler.GetGoals)
	goals.Put("/:date", logsHandler.UpdateGoals)

	protected.Get("/dashboard", dashboardHandler.GetDashboard)

	chat := protected.Group("/chat")
	chat.Get("/messages", chatHandler.GetMessages)
	chat.Post("/messages", chatHandler.SendMessage)
	chat.Delete("/messages", chatHandler.ClearMessages)

	wearables := protected.Group("/wearables")
	wearables.Get("/connect-url", wearableHandler.GetConnectURL)
	wearables.Post("/connect", wearableHandler.Connect)
	wearables.Post("/sync", wearableHandler.TriggerSync)
	wearables.Delete("/:provider", wearableHandler.Disconnect)

	protected.Get("/leaderboard", sharingHandler.GetLeaderboard)
	protected.Post("/invites", sharingHandler.CreateInvite)

	api.Use("/v1/ws", notifyHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(notifyHandler.HandleWebSocket))
}
