package api

import (
	"disaster-relief/beacon/internal/common"
	"disaster-relief/beacon/internal/db/repositories"
	"disaster-relief/beacon/internal/gateway"
	"disaster-relief/beacon/internal/metrics"
	"disaster-relief/beacon/internal/security"
	"disaster-relief/beacon/internal/services"
)

// Dependencies wires every handler input together so route registration
// stays flat.
type Dependencies struct {
	Metrics *metrics.MetricsRegistry
	Cache   *common.CacheService
	Cipher  *security.FieldCipher

	Gateway gateway.ReportGateway
	Reports *repositories.ReportRepo

	Sync    *services.SyncService
	History *services.HistoryService
	Cluster *services.ClusterService
	Export  *services.ExportService
}
