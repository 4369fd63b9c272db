package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"disaster-relief/beacon/internal/api"
	"disaster-relief/beacon/internal/common"
	"disaster-relief/beacon/internal/config"
	"disaster-relief/beacon/internal/db"
	"disaster-relief/beacon/internal/db/repositories"
	"disaster-relief/beacon/internal/gateway"
	"disaster-relief/beacon/internal/jobs"
	"disaster-relief/beacon/internal/logging"
	"disaster-relief/beacon/internal/metrics"
	gormModels "disaster-relief/beacon/internal/models/gorm"
	"disaster-relief/beacon/internal/routes"
	"disaster-relief/beacon/internal/security"
	"disaster-relief/beacon/internal/services"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Beacon server starting up", "environment", cfg.AppEnv)

	// Remote report store: sqlx for reads, GORM for writes.
	dsn := cfg.PostgresDSN()
	if err := db.InitPostgres(dsn); err != nil {
		logging.Fatal("Failed to connect to Postgres (sqlx)", "error", err.Error())
	}
	ormDB, err := db.InitPostgresORM(dsn)
	if err != nil {
		logging.Fatal("Failed to connect to Postgres (GORM)", "error", err.Error())
	}
	if err := ormDB.AutoMigrate(&gormModels.ReportRow{}); err != nil {
		logging.Fatal("Failed to migrate reports schema", "error", err.Error())
	}
	logging.Info("Connected to Postgres")

	// Local durable queue: keeps submissions when the backend is down.
	queueDB, err := db.InitQueueDB(cfg.QueuePath)
	if err != nil {
		logging.Fatal("Failed to open local queue", "error", err.Error())
	}
	logging.Info("Local queue ready", "path", cfg.QueuePath)

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
	reportReads := repositories.NewReportRepo(db.DB)
	reportWrites := repositories.NewReportGormRepo(ormDB)

	gw := gateway.NewRemoteGateway(reportWrites, reportReads, photos, feed)

	connectivity := services.NewConnectivityService(
		fmt.Sprintf("%s:%s", cfg.PGHost, cfg.PGPort), 15*time.Second)

	metricsReg := metrics.NewMetricsRegistry()

	deps := &api.Dependencies{
		Metrics: metricsReg,
		Cache:   common.NewCacheService(60, 120),
		Cipher:  cipher,
		Gateway: gw,
		Reports: reportReads,
		Sync:    services.NewSyncService(queueRepo, gw, connectivity),
		History: services.NewHistoryService(queueRepo, gw, cipher),
		Cluster: services.NewClusterService(),
		Export:  services.NewExportService(cipher),
	}

	jobs.InitializeJobs(ctx, deps.Sync, connectivity, metricsReg, nil)

	upSince := time.Now()
	router := routes.RegisterRoutes(deps, cfg.JWTSecret, db.DB, queueDB, upSince)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)

	logging.Info("Server starting", "addr", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
		logging.Fatal("Server stopped", "error", err.Error())
	}
}
