// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/devtavares97/baiane-lp/internal/auth"
	commonaws "github.com/devtavares97/baiane-lp/internal/common/aws"
	"github.com/devtavares97/baiane-lp/internal/common/config"
	"github.com/devtavares97/baiane-lp/internal/common/database"
	"github.com/devtavares97/baiane-lp/internal/common/logger"
	"github.com/devtavares97/baiane-lp/internal/common/observability"
	"github.com/devtavares97/baiane-lp/internal/gallery"
	"github.com/devtavares97/baiane-lp/internal/growthscan"
	"github.com/devtavares97/baiane-lp/internal/leads"
	"github.com/devtavares97/baiane-lp/internal/links"
	"github.com/devtavares97/baiane-lp/internal/notify"
	"github.com/devtavares97/baiane-lp/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting baiane-lp server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch (optional; the site runs without search) ---
	searchIndex := leads.NewSearchIndex(nil, cfg.Database.Elasticsearch.LeadIndex, log)
	if cfg.Database.Elasticsearch.Enabled() {
		esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err == nil {
			err = esClient.Ping()
		}
		if err != nil {
			zapLog.Warn("elasticsearch unavailable, lead search disabled", zap.Error(err))
		} else {
			searchIndex = leads.NewSearchIndex(esClient.GetClient(), cfg.Database.Elasticsearch.LeadIndex, log)
			zapLog.Info("Elasticsearch connected successfully")
		}
	}

	// --- Init AWS clients (optional per channel) ---
	var notifier *notify.Notifier
	{
		var sesClient notify.SESService
		var snsClient notify.SNSService
		if cfg.Notifications.Email.Enabled {
			c, err := commonaws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
			if err != nil {
				zapLog.Warn("SES client init failed, email notifications disabled", zap.Error(err))
			} else {
				sesClient = c
			}
		}
		if cfg.Notifications.SMS.Enabled {
			c, err := commonaws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
			if err != nil {
				zapLog.Warn("SNS client init failed, SMS notifications disabled", zap.Error(err))
			} else {
				snsClient = c
			}
		}
		notifier = notify.NewNotifier(cfg.Notifications, cfg.GrowthScan.HotLeadThreshold, sesClient, snsClient, log)
	}

	var storage gallery.ObjectStorage
	if cfg.Storage.Bucket != "" {
		s3Client, err := commonaws.NewS3Client(ctx, cfg.Storage.Region)
		if err != nil {
			zapLog.Fatal("S3 client init failed", zap.Error(err))
		}
		storage = gallery.NewS3Storage(s3Client, cfg.Storage)
		zapLog.Info("Gallery storage ready", zap.String("bucket", cfg.Storage.Bucket))
	}

	// --- Wire services ---
	scan := growthscan.NewService(
		cfg.GrowthScan,
		growthscan.NewLeadStore(pg.GetDB(), log),
		growthscan.NewSessionStore(redisClient.GetClient(), config.GetDuration(cfg.GrowthScan.SessionTTL)),
		notifier,
		searchIndex,
		log,
	)

	router := server.NewRouter(
		scan,
		gallery.NewManager(pg.GetDB(), storage, redisClient.GetClient(), log),
		links.NewStore(pg.GetDB(), redisClient.GetClient(), log),
		leads.NewStore(pg.GetDB(), log),
		searchIndex,
		auth.NewManager(cfg.Admin, redisClient.GetClient(), log),
		log,
	)

	mux := http.NewServeMux()
	router.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router.WrapMetrics(mux),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http shutdown failed", zap.Error(err))
	}

	zapLog.Info("Server stopped")
}
