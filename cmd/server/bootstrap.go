package main

import (
	"context"
	"errors"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clubhq/clubhub/backend/internal/config"
	"github.com/clubhq/clubhub/backend/internal/handlers"
	"github.com/clubhq/clubhub/backend/internal/models"
	"github.com/clubhq/clubhub/backend/internal/services"
	"github.com/clubhq/clubhub/backend/internal/store"
	"github.com/clubhq/clubhub/backend/internal/utils"
	"github.com/clubhq/clubhub/backend/pkg/logger"
)

// appServices holds all initialized stores, services, and handlers.
type appServices struct {
	mongoClient *mongo.Client

	taskQueue services.TaskQueue
	worker    *services.Worker
	scheduler *services.Scheduler
	media     *services.MediaService

	authHandler         *handlers.AuthHandler
	projectHandler      *handlers.ProjectHandler
	notificationHandler *handlers.NotificationHandler
	userHandler         *handlers.UserHandler
	eventHandler        *handlers.EventHandler
	newsHandler         *handlers.NewsHandler
	workshopHandler     *handlers.WorkshopHandler
	galleryHandler      *handlers.GalleryHandler
	postHandler         *handlers.PostHandler
	communityHandler    *handlers.CommunityHandler
	boardHandler        *handlers.BoardHandler
	mediaHandler        *handlers.MediaHandler
}

// bootstrap wires the whole dependency graph: document store, task
// queue, services, schedulers, handlers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := store.Connect(ctx, &cfg.Mongo)
	if err != nil {
		logger.Fatalf("Failed to connect to document store: %v", err)
	}
	db := client.Database(cfg.Mongo.Database)

	// Stores
	projectStore := store.NewProjectStore(db)
	userStore := store.NewUserStore(db)
	notificationStore := store.NewNotificationStore(db)
	contributionStore := store.NewContributionStore(db)
	eventStore := store.NewCollection[models.Event](db, "events")
	newsStore := store.NewCollection[models.News](db, "news")
	workshopStore := store.NewCollection[models.Workshop](db, "workshops")
	memoryStore := store.NewCollection[models.Memory](db, "memories")
	communityStore := store.NewCollection[models.CommunityEvent](db, "community_events")
	boardStore := store.NewCollection[models.BoardMember](db, "board_members")
	postStore := store.NewPostStore(db)

	if err := userStore.EnsureIndexes(ctx); err != nil {
		logger.Fatalf("Failed to ensure indexes: %v", err)
	}

	// Task queue: Redis-backed when enabled, inline delivery otherwise.
	var taskQueue services.TaskQueue
	var notificationService *services.NotificationService
	var worker *services.Worker
	if cfg.Redis.Enabled {
		taskQueue = services.NewAsyncQueue(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		notificationService = services.NewNotificationService(notificationStore, taskQueue)
		worker = services.NewWorker(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, notificationService)
		if err := worker.Start(); err != nil {
			logger.Fatalf("Failed to start notification worker: %v", err)
		}
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("async notification queue enabled")
	} else {
		syncQueue := services.NewSyncQueue()
		notificationService = services.NewNotificationService(notificationStore, syncQueue)
		syncQueue.SetProcessor(notificationService.Deliver)
		taskQueue = syncQueue
	}

	// Services
	authService := services.NewAuthService(userStore, cfg.JWT.ExpireHour)
	userService := services.NewUserService(userStore, contributionStore)
	projectService := services.NewProjectService(projectStore, userStore, contributionStore, notificationService)

	var mediaService *services.MediaService
	if cfg.Media.Enabled {
		mediaService, err = services.NewMediaService(ctx, &cfg.Media)
		if err != nil {
			logger.Fatalf("Failed to initialize media store: %v", err)
		}
	} else {
		logger.Warn().Msg("media store disabled, uploads will be rejected")
	}

	scheduler := services.NewScheduler(projectStore, notificationService)
	if err := scheduler.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}

	ensureAdmin(ctx, userStore)

	return &appServices{
		mongoClient: client,
		taskQueue:   taskQueue,
		worker:      worker,
		scheduler:   scheduler,
		media:       mediaService,

		authHandler:         handlers.NewAuthHandler(authService, userService, cfg.JWT),
		projectHandler:      handlers.NewProjectHandler(projectService),
		notificationHandler: handlers.NewNotificationHandler(notificationService),
		userHandler:         handlers.NewUserHandler(userService),
		eventHandler:        handlers.NewEventHandler(eventStore),
		newsHandler:         handlers.NewNewsHandler(newsStore),
		workshopHandler:     handlers.NewWorkshopHandler(workshopStore),
		galleryHandler:      handlers.NewGalleryHandler(memoryStore, userStore, mediaService),
		postHandler:         handlers.NewPostHandler(postStore),
		communityHandler:    handlers.NewCommunityHandler(communityStore),
		boardHandler:        handlers.NewBoardHandler(boardStore, userService),
		mediaHandler:        handlers.NewMediaHandler(mediaService),
	}
}

// ensureAdmin seeds the initial admin account when it does not exist.
// Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD; skipped when unset.
func ensureAdmin(ctx context.Context, users *store.UserStore) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	if _, err := users.GetByEmail(ctx, email); err == nil {
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		logger.Warn().Err(err).Msg("admin lookup failed")
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to hash admin password")
		return
	}

	_, err = users.Insert(ctx, &models.User{
		Name:      "Admin",
		Email:     email,
		Password:  hash,
		Role:      "president",
		IsAdmin:   true,
		Rank:      utils.RankForPoints(0),
		Workshops: []string{},
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		logger.Warn().Err(err).Msg("failed to create admin user")
		return
	}
	logger.Info().Str("email", email).Msg("admin account created")
}

// shutdown gracefully stops all background services.
func (s *appServices) shutdown() {
	s.scheduler.Stop()
	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
	if s.media != nil {
		s.media.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.mongoClient.Disconnect(ctx); err != nil {
		logger.Warn().Err(err).Msg("document store disconnect failed")
	}
	logger.Info().Msg("All services stopped")
}
