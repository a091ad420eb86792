package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/contentdesk/configs"
	"github.com/maheshrc27/contentdesk/internal/airtable"
	"github.com/maheshrc27/contentdesk/internal/api"
	"github.com/maheshrc27/contentdesk/internal/api/handlers"
	"github.com/maheshrc27/contentdesk/internal/api/middleware"
	job "github.com/maheshrc27/contentdesk/internal/jobs"
	"github.com/maheshrc27/contentdesk/internal/logger"
	"github.com/maheshrc27/contentdesk/internal/queue"
	"github.com/maheshrc27/contentdesk/internal/repository"
	"github.com/maheshrc27/contentdesk/internal/service"
	"github.com/maheshrc27/contentdesk/internal/webhook"
	"github.com/maheshrc27/contentdesk/internal/workspace"
	"github.com/robfig/cron"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the task worker and the refresh job",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "listen port (overrides PORT)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}
	log := logger.GetLogger()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		return err
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.WithError(err).Fatal("Database is unreachable")
	}

	ctx := context.Background()
	store, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	registry := workspace.NewRegistry(store, cfg.Jobs.SaveAllLimit)

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	userRepo := repository.NewUserRepository(db)
	triggerRepo := repository.NewTriggerHistoryRepository(db)
	anomalyRepo := repository.NewAnomalyRepository(db)

	r2Service, err := service.NewR2Service(ctx, cfg.R2)
	if err != nil {
		return err
	}

	httpClient := &http.Client{Timeout: 60 * time.Second}
	trigger := webhook.NewClient(httpClient, cfg.Workflows.RetryBackoff)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	postService := service.NewPostService(registry, queue.NewScheduler(client), cfg.Jobs.VerifyDelay)
	guidelineService := service.NewGuidelineService(registry)
	promptService := service.NewPromptService(registry)
	folderService := service.NewFolderService(store)
	workflowService := service.NewWorkflowService(cfg.Workflows, trigger, registry, triggerRepo)
	mediaService := service.NewMediaService(registry, r2Service)
	sourceService := service.NewSourceService(httpClient)
	historyService := service.NewHistoryService(triggerRepo, anomalyRepo)
	analyticsService := service.NewAnalyticsService(registry)
	verifier := service.NewStatusVerifier(store, registry, anomalyRepo)

	app := fiber.New(fiber.Config{
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    service.MaxImageBytes + 1<<20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			logger.GetLogger().WithError(err).WithField("path", c.Path()).Error("Unhandled error")
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:request_id} ${status} ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	api.Register(app, api.Handlers{
		Auth:      handlers.NewAuthHandler(*cfg, authService),
		User:      handlers.NewUserHandler(userService),
		Post:      handlers.NewPostHandler(postService, mediaService),
		Guideline: handlers.NewGuidelineHandler(guidelineService),
		Prompt:    handlers.NewPromptHandler(promptService, folderService),
		Workflow:  handlers.NewWorkflowHandler(workflowService, sourceService),
		History:   handlers.NewHistoryHandler(historyService, analyticsService),
	}, middleware.NewAuthMiddleware(*cfg).AuthMiddleware())

	// cron jobs
	refreshJob := job.NewWorkspaceRefreshJob(registry, cfg.Jobs.WorkspaceTTL, cfg.Jobs.Concurrency)

	c := cron.New()
	if err := c.AddFunc(cfg.Jobs.RefreshSpec, refreshJob.Run); err != nil {
		return err
	}
	c.Start()
	defer c.Stop()

	// queue
	worker := queue.NewQueue(verifier)
	server := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: cfg.Jobs.Concurrency,
		Logger:      logger.Logger(),
	})

	go func() {
		log.Info("Starting the Asynq server...")
		if err := server.Run(worker.Mux()); err != nil {
			log.WithError(err).Fatal("Could not start Asynq server")
		}
	}()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()
	log.WithField("port", cfg.Port).Info("Server is running")

	gracefulShutdown(app, server)
	return nil
}

func newStore(ctx context.Context, cfg *config.Config) (*airtable.Client, error) {
	schema, err := airtable.LoadSchema(cfg.Airtable.SchemaFile)
	if err != nil {
		return nil, err
	}
	schema.SetRemoteTables(cfg.Airtable.Tables)

	return airtable.NewClient(ctx, airtable.Config{
		BaseURL: cfg.Airtable.BaseURL,
		BaseID:  cfg.Airtable.BaseID,
		Token:   cfg.Airtable.Token,
	}, schema), nil
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to close database")
		return
	}
	logger.GetLogger().Info("Database connection closed")
}

func gracefulShutdown(app *fiber.App, server *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log := logger.GetLogger()
	log.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
		log.WithError(err).Error("Failed to shut down server")
	}
	server.Shutdown()

	log.Info("Server shutdown complete.")
}
