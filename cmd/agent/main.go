package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"disaster-relief/beacon/internal/config"
	"disaster-relief/beacon/internal/db"
	"disaster-relief/beacon/internal/db/repositories"
	"disaster-relief/beacon/internal/gateway"
	"disaster-relief/beacon/internal/jobs"
	"disaster-relief/beacon/internal/logging"
	"disaster-relief/beacon/internal/security"
	"disaster-relief/beacon/internal/services"
)

// The field agent runs on a device with intermittent connectivity. It owns
// the local durable queue, watches the network, drains on reconnect, and
// keeps the signed-in user's merged history current via the change feed.
func main() {
	userID := flag.String("user", "", "user id of the signed-in reporter")
	drainOnce := flag.Bool("drain", false, "run one drain pass and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logging.Close()

	queueDB, err := db.InitQueueDB(cfg.QueuePath)
	if err != nil {
		logging.Fatal("Failed to open local queue", "error", err.Error())
	}

	dsn := cfg.PostgresDSN()
	if err := db.InitPostgres(dsn); err != nil {
		logging.Fatal("Failed to connect to Postgres (sqlx)", "error", err.Error())
	}
	ormDB, err := db.InitPostgresORM(dsn)
	if err != nil {
		logging.Fatal("Failed to connect to Postgres (GORM)", "error", err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	photos, err := gateway.NewPhotoStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	if err != nil {
		logging.Fatal("Failed to connect to photo store", "error", err.Error())
	}

	feed, err := gateway.NewChangeFeed(cfg.AMQPURL, cfg.ChangeFeedExchange)
	if err != nil {
		logging.Fatal("Failed to connect to change feed", "error", err.Error())
	}
	defer feed.Close()

	cipher, err := security.NewFieldCipher(cfg.FieldSecret)
	if err != nil {
		logging.Fatal("Failed to initialize field cipher", "error", err.Error())
	}

	queueRepo := repositories.NewPendingReportRepo(queueDB)
	gw := gateway.NewRemoteGateway(
		repositories.NewReportGormRepo(ormDB),
		repositories.NewReportRepo(db.DB),
		photos, feed)

	connectivity := services.NewConnectivityService(
		fmt.Sprintf("%s:%s", cfg.PGHost, cfg.PGPort), 10*time.Second)

	syncSvc := services.NewSyncService(queueRepo, gw, connectivity)

	if *drainOnce {
		result, err := syncSvc.DrainQueue(ctx)
		if err != nil {
			logging.Fatal("Drain failed", "error", err.Error())
		}
		logging.Info("Drain complete",
			"attempted", result.Attempted, "synced", result.Synced, "failed", result.Failed)
		return
	}

	historySvc := services.NewHistoryService(queueRepo, gw, cipher)

	// The session view and its change-feed subscription live exactly as
	// long as the signed-in identity.
	var view *services.SessionView
	var onDrained func(ctx context.Context)
	if *userID != "" {
		view = historySvc.NewSessionView(*userID)
		if err := view.Refresh(ctx); err != nil {
			logging.Warn("Initial history load failed", "error", err.Error())
		}

		events, teardown, err := gw.SubscribeChanges(ctx)
		if err != nil {
			logging.Fatal("Failed to subscribe to change feed", "error", err.Error())
		}
		defer teardown()

		go func() {
			for ev := range events {
				if view.Apply(ev) {
					logging.Debug("History updated from change feed",
						"type", string(ev.Type), "report_id", ev.Report.ID)
				}
			}
		}()

		onDrained = func(ctx context.Context) {
			if err := view.Refresh(ctx); err != nil {
				logging.Warn("History refresh after drain failed", "error", err.Error())
			}
		}
	}

	jobs.InitializeJobs(ctx, syncSvc, connectivity, nil, onDrained)

	logging.Info("Field agent running", "queue_path", cfg.QueuePath, "user_id", *userID)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logging.Info("Field agent shutting down")
}
