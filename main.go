package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"tavolo-order-service/internal/cache"
	"tavolo-order-service/internal/config"
	httpapi "tavolo-order-service/internal/http"
	"tavolo-order-service/internal/http/handlers"
	"tavolo-order-service/internal/logger"
	"tavolo-order-service/internal/queue"
	"tavolo-order-service/internal/session"
	"tavolo-order-service/internal/storage"
	"tavolo-order-service/internal/store"
	"tavolo-order-service/internal/store/jsonfile"
	"tavolo-order-service/internal/store/postgres"
	"tavolo-order-service/internal/ws"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			log.Fatal("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-secret"
		log.Warn("JWT_SECRET is empty; using an insecure development secret")
	}

	ctx := context.Background()

	var dataStore store.Store
	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("database connection failed", zap.Error(err))
		}
		defer pool.Close()
		dataStore = postgres.New(pool)
		log.Info("store ready", zap.String("backend", "postgres"))
	} else {
		fileStore, err := jsonfile.New(cfg.DataDir)
		if err != nil {
			log.Fatal("data dir init failed", zap.Error(err))
		}
		dataStore = fileStore
		log.Info("store ready", zap.String("backend", "jsonfile"), zap.String("dir", cfg.DataDir))
	}

	var reportCache cache.ReportCache
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisReportCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			if cfg.Env == "production" {
				log.Fatal("redis connection failed", zap.Error(err))
			}
			log.Warn("redis connection failed; falling back to in-process cache", zap.Error(err))
			reportCache = cache.NewMemoryReportCache()
		} else {
			defer redisCache.Close()
			reportCache = redisCache
			log.Info("report cache ready", zap.String("backend", "redis"))
		}
	} else {
		reportCache = cache.NewMemoryReportCache()
		log.Info("report cache ready", zap.String("backend", "memory"))
	}

	sessions := session.NewStore(cfg.SessionTTL, nil)

	var queueClient *queue.Client
	if cfg.RabbitMQURL != "" {
		qc, err := queue.New(cfg.RabbitMQURL)
		if err != nil {
			if cfg.Env == "production" {
				log.Fatal("rabbitmq connection failed", zap.Error(err))
			}
			log.Warn("rabbitmq connection failed; continuing without events", zap.Error(err))
			qc = nil
		}
		if qc != nil {
			if err := queue.EnsureInvalidationTopology(qc); err != nil {
				if cfg.Env == "production" {
					log.Fatal("rabbitmq topology failed", zap.Error(err))
				}
				log.Warn("rabbitmq topology failed; continuing without events", zap.Error(err))
				_ = qc.Close()
				qc = nil
			}
		}

		queueClient = qc
		if qc != nil {
			defer qc.Close()
		}

		if queueClient != nil {
			if cfg.RabbitMQWorkerMode == "daemon" {
				log.Info("invalidation worker enabled", zap.String("queue", queue.InvalidateQueue))
				go func() {
					err := queueClient.ConsumeWithRetry(queue.InvalidateQueue, func(ctx context.Context, body []byte) error {
						return queue.ProcessRecordEvent(ctx, reportCache, "dashboard_report", body)
					}, 5, 5*time.Second)
					if err != nil {
						log.Error("invalidation consumer stopped", zap.Error(err))
					}
				}()
			} else {
				log.Info("invalidation worker disabled", zap.String("mode", cfg.RabbitMQWorkerMode))
			}
		}
	} else {
		log.Info("event fan-out disabled (RABBITMQ_URL is empty)")
	}

	var media *storage.ObjectStore
	if cfg.ObjectStoreEndpoint != "" {
		media, err = storage.NewObjectStore(ctx, storage.Config{
			Endpoint:        cfg.ObjectStoreEndpoint,
			Region:          cfg.ObjectStoreRegion,
			AccessKeyID:     cfg.ObjectStoreAccessKeyID,
			SecretAccessKey: cfg.ObjectStoreSecretAccessKey,
			Bucket:          cfg.ObjectStoreBucket,
			PublicBaseURL:   cfg.ObjectStorePublicBaseURL,
		})
		if err != nil {
			if cfg.Env == "production" {
				log.Fatal("object store init failed", zap.Error(err))
			}
			log.Warn("object store init failed; product image uploads disabled", zap.Error(err))
			media = nil
		} else {
			log.Info("object store ready", zap.String("bucket", cfg.ObjectStoreBucket))
		}
	} else {
		log.Info("product image uploads disabled (OBJECT_STORE_ENDPOINT is empty)")
	}

	h := &handlers.Handler{
		Store:    dataStore,
		Sessions: sessions,
		Cache:    reportCache,
		Logger:   log,
		Config:   cfg,
		Events:   queue.NewPublisher(queueClient),
		Media:    media,
	}

	wsServer := ws.New(h, sessions, log, cfg)
	apiServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(h, log, wsServer),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("order api ready", zap.String("base", "/api"))
		log.Info("dashboard ws ready", zap.String("base", "/ws"))
		log.Info("order service listening", zap.String("addr", cfg.HTTPAddr))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxShutdown); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
}
