package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"disaster-relief/beacon/internal/auth"
	"disaster-relief/beacon/internal/constants"
	"disaster-relief/beacon/internal/models/dtos"
	"disaster-relief/beacon/internal/models/entities"
	"disaster-relief/beacon/internal/services"

	"github.com/google/uuid"
)

// SubmitReportHandler handles POST /api/v1/reports. Connectivity and
// gateway failures never fail the request; they degrade the outcome to a
// locally-queued one.
func SubmitReportHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "missing identity")
			return
		}

		var req dtos.SubmitReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request payload")
			return
		}

		if req.Comments == "" || req.DisasterType == "" {
			respondWithError(w, http.StatusBadRequest, "disasterType and comments are required")
			return
		}
		if req.Severity < 1 || req.Severity > 5 {
			respondWithError(w, http.StatusBadRequest, "severity must be between 1 and 5")
			return
		}

		payload := entities.ReportPayload{
			ClientRef:    uuid.NewString(),
			UserID:       claims.UserID,
			DisasterType: constants.DisasterType(req.DisasterType),
			Severity:     req.Severity,
			Comments:     req.Comments,
			Latitude:     req.Latitude,
			Longitude:    req.Longitude,
			Timestamp:    time.Now().UTC(),
			ImageBlob:    req.ImageData,
			ImageMime:    req.ImageMime,
		}

		var err error
		if payload.ContactName, err = encryptOptional(deps, req.ContactName); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to protect contact fields")
			return
		}
		if payload.PhoneNumber, err = encryptOptional(deps, req.PhoneNumber); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to protect contact fields")
			return
		}

		result, err := deps.Sync.SubmitReport(r.Context(), payload)
		if err != nil {
			// Only local queue I/O can land here; nothing was stored.
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		deps.Metrics.ReportsSubmittedTotal.WithLabelValues(string(result.Outcome)).Inc()

		pending, _ := deps.Sync.PendingCount(r.Context())
		deps.Metrics.QueuePending.Set(float64(pending))

		resp := dtos.SubmitReportResponse{
			Outcome:      string(result.Outcome),
			Message:      outcomeMessage(result.Outcome),
			ReportID:     result.ReportID,
			PendingCount: pending,
		}
		respondWithSuccess(w, http.StatusCreated, &resp)
	}
}

// MyReportsHandler handles GET /api/v1/reports/mine: the merged local+remote
// history for the caller.
func MyReportsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "missing identity")
			return
		}

		entries, err := deps.History.Build(r.Context(), claims.UserID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to build history")
			return
		}

		resp := dtos.HistoryResponse{Entries: entries}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// PendingCountHandler handles GET /api/v1/queue/pending.
func PendingCountHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pending, err := deps.Sync.PendingCount(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to read queue")
			return
		}

		resp := dtos.PendingCountResponse{Pending: pending}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// TriggerSyncHandler handles POST /api/v1/sync: the manual drain trigger.
func TriggerSyncHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := deps.Sync.DrainQueue(r.Context())
		if err != nil {
			if errors.Is(err, services.ErrOffline) {
				respondWithError(w, http.StatusConflict, "backend unreachable, queue left intact")
				return
			}
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		pending, _ := deps.Sync.PendingCount(r.Context())
		deps.Metrics.QueuePending.Set(float64(pending))

		resp := dtos.DrainSummary{
			Attempted: result.Attempted,
			Synced:    result.Synced,
			Failed:    result.Failed,
			Pending:   pending,
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

func encryptOptional(deps *Dependencies, value string) (*string, error) {
	if value == "" {
		return nil, nil
	}
	enc, err := deps.Cipher.Encrypt(value)
	if err != nil {
		return nil, err
	}
	return &enc, nil
}

func outcomeMessage(outcome constants.SubmitOutcome) string {
	switch outcome {
	case constants.OutcomeSubmitted:
		return constants.MsgSubmitted
	case constants.OutcomeQueuedRetry:
		return constants.MsgQueuedRetry
	case constants.OutcomeQueuedOffline:
		return constants.MsgQueuedOffline
	}
	return ""
}
