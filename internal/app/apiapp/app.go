package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/olegbarkov/amora/internal/config"
	"github.com/olegbarkov/amora/internal/infra/httpclient"
	s3infra "github.com/olegbarkov/amora/internal/infra/s3"
	"github.com/olegbarkov/amora/internal/jobs/cleanup"
	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
	redrepo "github.com/olegbarkov/amora/internal/repo/redis"
	authsvc "github.com/olegbarkov/amora/internal/services/auth"
	eventssvc "github.com/olegbarkov/amora/internal/services/events"
	feedsvc "github.com/olegbarkov/amora/internal/services/feed"
	intersvc "github.com/olegbarkov/amora/internal/services/interactions"
	matchessvc "github.com/olegbarkov/amora/internal/services/matches"
	mediasvc "github.com/olegbarkov/amora/internal/services/media"
	messagessvc "github.com/olegbarkov/amora/internal/services/messages"
	notifsvc "github.com/olegbarkov/amora/internal/services/notifications"
	profilesvc "github.com/olegbarkov/amora/internal/services/profiles"
	ratesvc "github.com/olegbarkov/amora/internal/services/rate"
	userssvc "github.com/olegbarkov/amora/internal/services/users"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler
	cleanupJob *cleanup.Job
	stopJobs   context.CancelFunc
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient, err := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, fmt.Errorf("redis init: %w", err)
	}

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)
	userRepo := pgrepo.NewUserRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	privacyRepo := pgrepo.NewPrivacyRepo(pool)
	interactionRepo := pgrepo.NewInteractionRepo(pool)
	matchRepo := pgrepo.NewMatchRepo(pool)
	blockRepo := pgrepo.NewBlockRepo(pool)
	messageRepo := pgrepo.NewMessageRepo(pool)
	notificationRepo := pgrepo.NewNotificationRepo(pool)
	eventRepo := pgrepo.NewEventRepo(pool)
	mediaRepo := pgrepo.NewMediaRepo(pool)
	feedRepo := pgrepo.NewFeedRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, sessionRepo, userRepo, cfg.Auth.RefreshTTL)

	webhookSink := notifsvc.NewWebhookSink(httpclient.New(cfg.Notify.WebhookTimeout), cfg.Notify.WebhookURL)
	notificationService := notifsvc.NewService(notificationRepo, webhookSink, log)
	notificationService.AttachNames(profileRepo)

	rateLimiter := ratesvc.NewLimiter(rateRepo, cfg.Limits.LikesPerMinute, cfg.Limits.LikesPer10Seconds)

	profileService := profilesvc.NewService(profileRepo, privacyRepo, userRepo)
	feedService := feedsvc.NewService(feedRepo, feedsvc.Config{
		DefaultPageSize: cfg.Feed.DefaultPageSize,
		MaxPageSize:     cfg.Feed.MaxPageSize,
	})
	interactionService := intersvc.NewService(intersvc.Dependencies{
		Pool:          pool,
		Interactions:  interactionRepo,
		Matches:       matchRepo,
		Users:         userRepo,
		Notifications: notificationRepo,
		Notifier:      notificationService,
		RateLimiter:   rateLimiter,
		Logger:        log,
	})
	matchService := matchessvc.NewService(matchessvc.Dependencies{
		Pool:     pool,
		Matches:  matchRepo,
		Messages: messageRepo,
		Blocks:   blockRepo,
		Users:    userRepo,
	})
	messageService := messagessvc.NewService(messagessvc.Dependencies{
		Pool:     pool,
		Messages: messageRepo,
		Matches:  matchRepo,
		Notifier: notificationService,
		Logger:   log,
	})
	eventService := eventssvc.NewService(eventRepo, notificationService, log)
	userService := userssvc.NewService(userRepo, sessionRepo, notificationService)
	mediaStorage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket)
	mediaService := mediasvc.NewService(mediaRepo, mediaStorage, log)

	cleanupJob := cleanup.New(notificationRepo, cfg.Cleanup.NotificationRetention, cfg.Cleanup.Interval, log)

	RegisterRoutes(r, Dependencies{
		AuthService:         authService,
		ProfileService:      profileService,
		FeedService:         feedService,
		InteractionService:  interactionService,
		MatchService:        matchService,
		MessageService:      messageService,
		NotificationService: notificationService,
		EventService:        eventService,
		UserService:         userService,
		MediaService:        mediaService,
		Logger:              log,
		Config:              cfg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
		cleanupJob: cleanupJob,
	}, nil
}

func (a *App) Run() error {
	jobCtx, cancel := context.WithCancel(context.Background())
	a.stopJobs = cancel
	go a.cleanupJob.Start(jobCtx)

	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if a.stopJobs != nil {
		a.stopJobs()
	}
	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
