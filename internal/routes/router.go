package routes

import (
	"net/http"
	"time"

	"disaster-relief/beacon/internal/api"
	"disaster-relief/beacon/internal/logging"
	"disaster-relief/beacon/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// RegisterRoutes builds the chi router for the API server.
func RegisterRoutes(deps *api.Dependencies, jwtSecret string, readDB *sqlx.DB, queueDB *gorm.DB, upSince time.Time) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthCheck", api.HealthCheckHandler(readDB, queueDB, upSince))

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.MetricsMiddleware(deps.Metrics))
		v1.Use(middleware.AuthMiddleware(jwtSecret))

		v1.Post("/reports", api.SubmitReportHandler(deps))
		v1.Get("/reports/mine", api.MyReportsHandler(deps))
		v1.Get("/queue/pending", api.PendingCountHandler(deps))
		v1.Post("/sync", api.TriggerSyncHandler(deps))

		v1.Group(func(admin chi.Router) {
			admin.Use(middleware.IsAdminMiddleware())

			admin.Get("/admin/reports", api.AdminReportsHandler(deps))
			admin.Put("/admin/reports/{id}/status", api.UpdateStatusHandler(deps))
			admin.Get("/admin/reports/export", api.ExportCSVHandler(deps))
			admin.Get("/admin/clusters", api.ClustersHandler(deps))
			admin.Get("/admin/map", api.MapReportsHandler(deps))
		})
	})

	logging.Info("Router initialized")
	return r
}
