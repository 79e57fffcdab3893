package appServer

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/devevents-app/devevents/config"
	repository "github.com/devevents-app/devevents/internal/database/postgres"
	rediscache "github.com/devevents-app/devevents/internal/database/redis"
	"github.com/devevents-app/devevents/internal/mailer"
	"github.com/devevents-app/devevents/internal/service"
	"github.com/devevents-app/devevents/internal/transport"
	"github.com/devevents-app/devevents/internal/worker"
	"github.com/devevents-app/devevents/pkg/media"
	"github.com/devevents-app/devevents/pkg/postgres"
	"github.com/devevents-app/devevents/pkg/queue"
	"github.com/devevents-app/devevents/pkg/redis"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// NewServer wires the whole application together and blocks until a
// termination signal arrives.
func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	eventRepo := repository.NewEventRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Redis backs both the event cache and the notification queue. Either
	// can be missing; the app degrades rather than refuses to start.
	var redisClient *goredis.Client
	var eventCache *rediscache.EventCache
	var notifyQueue queue.Queue

	if cfg.Redis.Enabled {
		redisClient, err = redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logrus.Errorf("Failed to connect to redis: %v. Continuing without cache and queue...", err)
		} else {
			defer redisClient.Close()
			eventCache = rediscache.NewEventCache(redisClient, cfg.App.CacheTTL)

			queueCfg := &queue.RedisQueueConfig{
				MainQueue:  cfg.Queue.MainQueue,
				DelayedSet: cfg.Queue.DelayedSet,
				DLQ:        cfg.Queue.DLQ,
				MaxRetries: cfg.Queue.MaxRetries,
				BaseDelay:  cfg.Queue.BaseDelay,
			}
			retryManager := queue.NewRetryManager(cfg.Queue.MaxRetries, cfg.Queue.BaseDelay)
			dlqHandler := queue.NewDefaultDLQHandler(redisClient, cfg.Queue.DLQ)

			notifyQueue, err = queue.NewRedisQueue(redisClient, queueCfg, retryManager, dlqHandler)
			if err != nil {
				logrus.Errorf("Failed to initialize redis queue: %v. Continuing without queue...", err)
				notifyQueue = nil
			} else {
				logrus.Info("Redis queue initialized")
			}
		}
	}

	bookingMailer := mailer.NewSMTPMailer(&cfg.Email, cfg.App.BaseURL)

	var uploader media.Uploader
	if cfg.Media.UploadURL != "" {
		uploader = media.NewHTTPUploader(&cfg.Media)
	} else {
		logrus.Warn("Media upload URL not configured, image uploads disabled")
	}

	eventService := service.NewEventService(eventRepo, bookingRepo, eventCache, service.EventServiceOptions{
		PageSize:     cfg.App.PageSize,
		SimilarLimit: cfg.App.SimilarLimit,
	})
	bookingService := service.NewBookingService(bookingRepo, eventRepo, notifyQueue, bookingMailer)
	analyticsService := service.NewAnalyticsService(eventRepo, analyticsRepo, cfg.App.PopularEvents, cfg.App.TrendDaysMax, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if notifyQueue != nil {
		notificationWorker := worker.NewNotificationWorker(notifyQueue, eventRepo, bookingMailer)
		go func() {
			if err := notificationWorker.Run(ctx); err != nil && err != context.Canceled {
				logrus.Errorf("Notification worker stopped: %v", err)
			}
		}()
	}

	eventHandler := transport.NewEventHandler(eventService, uploader)
	bookingHandler := transport.NewBookingHandler(bookingService)
	analyticsHandler := transport.NewAnalyticsHandler(analyticsService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(eventHandler, bookingHandler, analyticsHandler)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
	if notifyQueue != nil {
		if err := notifyQueue.Close(); err != nil {
			logrus.Errorf("error occured on queue shutting down: %s", err.Error())
		}
	}
}
