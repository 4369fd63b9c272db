package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"disaster-relief/beacon/internal/constants"
	"disaster-relief/beacon/internal/logging"
	"disaster-relief/beacon/internal/models/dtos"
	"disaster-relief/beacon/internal/models/entities"

	"github.com/go-chi/chi/v5"
	gormlib "gorm.io/gorm"
)

// AdminReportsHandler handles GET /api/v1/admin/reports. Ignored reports are
// excluded; ?severity=N narrows to one level.
func AdminReportsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		severity := 0
		if s := r.URL.Query().Get("severity"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil || v < 1 || v > 5 {
				respondWithError(w, http.StatusBadRequest, "severity must be between 1 and 5")
				return
			}
			severity = v
		}

		reports, err := deps.Reports.ListVisible(r.Context(), severity)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to fetch reports")
			return
		}

		for i := range reports {
			decryptContactFields(deps, &reports[i])
		}

		respondWithSuccess(w, http.StatusOK, &reports)
	}
}

// UpdateStatusHandler handles PUT /api/v1/admin/reports/{id}/status. Status
// edits are never queued: a gateway failure surfaces directly.
func UpdateStatusHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req dtos.UpdateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request payload")
			return
		}

		status := constants.ReportStatus(req.Status)
		if !constants.ValidRemoteStatus(status) {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("invalid status %q", req.Status))
			return
		}

		err := deps.Gateway.UpdateStatus(r.Context(), id, status)
		if err != nil {
			switch {
			case errors.Is(err, gormlib.ErrRecordNotFound):
				respondWithError(w, http.StatusNotFound, "report not found")
			case strings.Contains(err.Error(), "cannot transition"):
				respondWithError(w, http.StatusConflict, err.Error())
			default:
				respondWithError(w, http.StatusBadGateway, "status update failed: "+err.Error())
			}
			return
		}

		// Invalidate derived sets; the active report set just changed.
		deps.Cache.Delete(clusterCacheKey)

		msg := "status updated"
		respondWithSuccess(w, http.StatusOK, &msg)
	}
}

const clusterCacheKey = "admin:clusters"

// ClustersHandler handles GET /api/v1/admin/clusters: proximity clusters
// over currently Submitted reports.
func ClustersHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		val, err := deps.Cache.GetOrSet(clusterCacheKey, 30*time.Second, func() (any, error) {
			active, err := deps.Reports.ListActive(r.Context())
			if err != nil {
				return nil, err
			}
			return deps.Cluster.Detect(active), nil
		})
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to detect clusters")
			return
		}

		clusters := val.([]entities.Cluster)
		deps.Metrics.ActiveClusters.Set(float64(len(clusters)))

		resp := dtos.ClustersResponse{Clusters: clusters}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// MapReportsHandler handles GET /api/v1/admin/map: the Submitted reports
// backing the incident map overlay. Rendering is the client's concern.
func MapReportsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		active, err := deps.Reports.ListActive(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to fetch map reports")
			return
		}

		for i := range active {
			decryptContactFields(deps, &active[i])
		}

		respondWithSuccess(w, http.StatusOK, &active)
	}
}

// ExportCSVHandler handles GET /api/v1/admin/reports/export.
func ExportCSVHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reports, err := deps.Reports.ListVisible(r.Context(), 0)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to fetch reports")
			return
		}

		filename := fmt.Sprintf("disaster_reports_%s.csv", time.Now().Format("2006-01-02"))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

		if err := deps.Export.WriteCSV(w, reports); err != nil {
			// Headers already went out; all we can do is log.
			logging.Error("CSV export failed mid-stream", "error", err.Error())
		}
	}
}

func decryptContactFields(deps *Dependencies, r *entities.Report) {
	if r.ContactName != nil {
		plain := deps.Cipher.DecryptOrSentinel(*r.ContactName, constants.CorruptedFieldSentinel)
		r.ContactName = &plain
	}
	if r.PhoneNumber != nil {
		plain := deps.Cipher.DecryptOrSentinel(*r.PhoneNumber, constants.CorruptedFieldSentinel)
		r.PhoneNumber = &plain
	}
}
