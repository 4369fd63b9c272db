package api

import (
	"encoding/json"
	"net/http"
	"time"

	"disaster-relief/beacon/internal/models/entities"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// HealthCheckHandler handles GET /healthCheck: backend store and local
// queue reachability.
func HealthCheckHandler(db *sqlx.DB, queueDB *gorm.DB, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := make(map[string]entities.ServiceStatus)

		pgStatus := "ok"
		pgDetails := "Postgres connected"
		if err := db.Ping(); err != nil {
			pgStatus = "down"
			pgDetails = err.Error()
		}
		services["postgres"] = entities.ServiceStatus{Status: pgStatus, Details: pgDetails}

		qStatus := "ok"
		qDetails := "Queue store available"
		if sqlDB, err := queueDB.DB(); err != nil {
			qStatus = "down"
			qDetails = err.Error()
		} else if err := sqlDB.Ping(); err != nil {
			qStatus = "down"
			qDetails = err.Error()
		}
		services["queue"] = entities.ServiceStatus{Status: qStatus, Details: qDetails}

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		resp := entities.HealthCheckResponse{
			Services: services,
			Status:   overallStatus,
			Uptime:   time.Since(upSince).Round(time.Second).String(),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
