package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solarbot/config"
	"solarbot/cron"
	"solarbot/database"
	leadRepo "solarbot/database/repository/lead"
	"solarbot/handlers"
	"solarbot/middleware"
	"solarbot/routes"
	"solarbot/services/booking"
	"solarbot/services/calendar"
	ai "solarbot/services/intelligence"
	"solarbot/services/lead"
	"solarbot/services/solar"
	"solarbot/services/tasks"
	"solarbot/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	loc, err := config.BusinessLocation()
	if err != nil {
		logger.Warn("main: unknown business timezone, using UTC", zap.Error(err))
	}

	if err := database.InitDB(); err != nil {
		logger.Warn("main: MongoDB unavailable, lead persistence disabled", zap.Error(err))
	}
	chatRedis := utils.GetChatContextClient()
	cacheRedis := utils.GetCacheClient()

	// Calendar.
	var freeBusy booking.FreeBusyService
	var events booking.EventService
	gcal, err := newCalendar(ctx, logger)
	if err != nil {
		logger.Error("main: calendar unavailable, scheduling requests will fail", zap.Error(err))
		unavailable := calendar.Unavailable{Err: err}
		freeBusy, events = unavailable, unavailable
	} else {
		freeBusy, events = gcal, gcal
	}

	orchestrator := booking.NewBookingOrchestrator(booking.DefaultPolicy(loc), freeBusy, events, config.AppConfig.CalendarID, logger)
	orchestrator.MaxResults = config.AppConfig.SlotSearchMaxResults
	orchestrator.MaxProbes = config.AppConfig.SlotSearchMaxProbes
	parser := booking.NewAppointmentRequestParser(loc)

	// Lead capture: booked appointments are queued and stored asynchronously.
	queue := asynq.NewClient(cron.RedisOpt())
	defer queue.Close()
	orchestrator.AddListener(tasks.NewLeadCaptureListener(queue, logger))
	leadWorker := cron.InitLeadWorker(newLeadService(logger))

	// Solar.
	estimator := solar.NewEstimator(
		solar.NewGeocodeClient(config.AppConfig.GoogleAPIKey),
		solar.NewPVGISClient(config.AppConfig.PVGISURL),
		cacheRedis,
		config.AppConfig.SolarCacheTTL,
		logger,
	)

	// Assistants.
	gemini, err := ai.NewGeminiClient(ctx, config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiSolarModel, config.AppConfig.GeminiCalendarModel)
	if err != nil {
		logger.Fatal("main: failed to initialize assistants", zap.Error(err))
	}
	defer gemini.Close()

	tools := ai.NewToolDispatcher(orchestrator, parser, estimator, loc, logger)
	store := ai.NewRedisContextStore(chatRedis, config.AppConfig.ChatContextTTL)
	chatService := ai.NewChatService(gemini, tools, store, config.AppConfig.ThreadTokenTTL, loc, logger)

	utils.StartHealthMonitor(ctx, []*redis.Client{chatRedis, cacheRedis}, database.MongoClient, gcal != nil)

	chatHandler := handlers.NewChatHandler(chatService, logger)
	calendarHandler := handlers.NewCalendarHandler(orchestrator, parser, loc, logger)
	solarHandler := handlers.NewSolarHandler(estimator, logger)

	handlerBundle := &handlers.HandlerBundle{
		IndexHandler:         chatHandler.Index,
		StartHandler:         chatHandler.StartConversation,
		ChatHandler:          chatHandler.Chat,
		EndThreadHandler:     chatHandler.EndConversation,
		ThreadAuthMiddleware: middleware.ThreadAuthMiddleware(),

		AvailabilityHandler:      calendarHandler.Availability,
		CreateAppointmentHandler: calendarHandler.CreateAppointment,
		SuggestHandler:           calendarHandler.Suggest,

		SolarEstimateHandler: solarHandler.Estimate,
		HealthHandler:        handlers.Health,
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin, logger))
	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	leadWorker.Shutdown()
	if err := database.Disconnect(shutdownCtx); err != nil {
		logger.Warn("main: MongoDB disconnect failed", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

func newCalendar(ctx context.Context, logger *zap.Logger) (*calendar.GoogleCalendar, error) {
	cfg := config.AppConfig
	opts := calendar.CredentialOptions{
		Source:            cfg.CredentialSource,
		CredentialsBase64: cfg.GoogleCredentials,
		CredentialsFile:   cfg.GoogleCredentialsFile,
		EmailHint:         cfg.ServiceAccountEmailHint,
		Impersonate:       cfg.CalendarImpersonate,
		ClientID:          cfg.GoogleClientID,
		ClientSecret:      cfg.GoogleClientSecret,
		RefreshToken:      cfg.GoogleRefreshToken,
		TokenFile:         cfg.TokenFile,
		Logger:            logger,
	}
	if cfg.TokenEncryptionKey != "" {
		cipher, err := utils.NewTokenCipher(cfg.TokenEncryptionKey)
		if err != nil {
			return nil, err
		}
		opts.Cipher = cipher
	}

	provider, err := calendar.NewCredentialProvider(opts)
	if err != nil {
		return nil, err
	}
	logger.Info("main: calendar credentials", zap.String("provider", provider.Name()))
	return calendar.NewGoogleCalendar(ctx, provider, cfg.CalendarSendUpdates, logger)
}

func newLeadService(logger *zap.Logger) *lead.Service {
	svc := lead.NewService(nil, nil, logger)
	if database.MongoClient != nil {
		repo, err := leadRepo.NewMongoLeadRepo()
		if err != nil {
			logger.Warn("main: lead repository unavailable", zap.Error(err))
		} else {
			svc.Repo = repo
		}
	}
	airtable := lead.NewAirtableClient(config.AppConfig.AirtableAPIKey, config.AppConfig.AirtableBaseID, config.AppConfig.AirtableTable)
	if airtable.Configured() {
		svc.CRM = airtable
	}
	return svc
}
