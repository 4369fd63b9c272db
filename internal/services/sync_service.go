package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"disaster-relief/beacon/internal/constants"
	"disaster-relief/beacon/internal/db/repositories"
	"disaster-relief/beacon/internal/gateway"
	"disaster-relief/beacon/internal/logging"
	"disaster-relief/beacon/internal/models/entities"
	gormModels "disaster-relief/beacon/internal/models/gorm"

	"golang.org/x/sync/singleflight"
)

// ErrOffline is returned by DrainQueue when the device has no network path.
var ErrOffline = errors.New("device is offline")

// DrainResult summarizes one pass over the local queue.
type DrainResult struct {
	Attempted int
	Synced    int
	Failed    int
}

// SubmitResult tells the caller what happened to a submission.
type SubmitResult struct {
	Outcome  constants.SubmitOutcome
	ReportID string
	LocalKey uint
}

// SyncService reconciles the local durable queue against the remote gateway.
// Delivery is at-least-once: a lost acknowledgment after a successful insert
// produces a duplicate remote report on the next drain, never a lost one.
type SyncService struct {
	queue   *repositories.PendingReportRepo
	gw      gateway.ReportGateway
	checker ConnectivityChecker

	// drains collapses concurrent DrainQueue calls into one pass so two
	// triggers never read the same entry before either deletes it.
	drains singleflight.Group
}

func NewSyncService(queue *repositories.PendingReportRepo, gw gateway.ReportGateway, checker ConnectivityChecker) *SyncService {
	return &SyncService{queue: queue, gw: gw, checker: checker}
}

// SubmitReport attempts an immediate upload when online, and falls back to
// the local queue on any failure or when offline. Only a queue I/O failure
// is an error; a gateway failure degrades to a queued outcome.
func (s *SyncService) SubmitReport(ctx context.Context, payload entities.ReportPayload) (*SubmitResult, error) {
	if !s.checker.Online() {
		key, err := s.enqueue(ctx, payload)
		if err != nil {
			return nil, fmt.Errorf("failed to queue report: %w", err)
		}
		return &SubmitResult{Outcome: constants.OutcomeQueuedOffline, LocalKey: key}, nil
	}

	id, err := s.upload(ctx, payload)
	if err != nil {
		logging.Warn("Upload failed, queueing report locally",
			"user_id", payload.UserID, "error", err.Error())
		key, qerr := s.enqueue(ctx, payload)
		if qerr != nil {
			return nil, fmt.Errorf("upload failed and report could not be queued: %w", qerr)
		}
		return &SubmitResult{Outcome: constants.OutcomeQueuedRetry, LocalKey: key}, nil
	}

	return &SubmitResult{Outcome: constants.OutcomeSubmitted, ReportID: id}, nil
}

// DrainQueue uploads every queued entry in insertion order. A failing entry
// stays queued and never blocks the rest of the pass. Returns ErrOffline
// without touching the queue when there is no network path.
func (s *SyncService) DrainQueue(ctx context.Context) (*DrainResult, error) {
	res, err, _ := s.drains.Do("drain", func() (interface{}, error) {
		return s.drainOnce(ctx)
	})
	if err != nil {
		return nil, err
	}
	return res.(*DrainResult), nil
}

func (s *SyncService) drainOnce(ctx context.Context) (*DrainResult, error) {
	if !s.checker.Online() {
		return nil, ErrOffline
	}

	entries, err := s.queue.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue: %w", err)
	}

	result := &DrainResult{Attempted: len(entries)}
	start := time.Now()

	for _, entry := range entries {
		payload := entryToPayload(entry)

		if _, err := s.upload(ctx, payload); err != nil {
			logging.Warn("Queued report upload failed, will retry next drain",
				"local_key", entry.ID, "error", err.Error())
			result.Failed++
			continue
		}

		if err := s.queue.Remove(ctx, entry.ID); err != nil {
			// The row was delivered; a failed remove means the entry will
			// be re-uploaded next pass (at-least-once).
			logging.Error("Failed to remove synced entry from queue",
				"local_key", entry.ID, "error", err.Error())
			result.Failed++
			continue
		}
		result.Synced++
	}

	logging.Info("Drain pass complete",
		"attempted", result.Attempted,
		"synced", result.Synced,
		"failed", result.Failed,
		"duration", time.Since(start).Truncate(time.Millisecond).String(),
	)

	return result, nil
}

// PendingCount returns the number of reports still waiting locally.
func (s *SyncService) PendingCount(ctx context.Context) (int64, error) {
	return s.queue.Count(ctx)
}

// upload performs the per-report sequence: photo first, then the row
// referencing the photo's public URL. A row failure after a photo success
// leaves the photo orphaned; that is the accepted cost of at-least-once.
func (s *SyncService) upload(ctx context.Context, payload entities.ReportPayload) (string, error) {
	var imageURL *string

	if len(payload.ImageBlob) > 0 {
		ref, err := s.gw.UploadBinary(ctx, payload.ClientRef, payload.ImageBlob, payload.ImageMime)
		if err != nil {
			return "", fmt.Errorf("photo upload failed: %w", err)
		}
		url := s.gw.ResolvePublicRef(ref)
		imageURL = &url
	}

	id, err := s.gw.CreateReport(ctx, payload, imageURL)
	if err != nil {
		return "", fmt.Errorf("report insert failed: %w", err)
	}

	return id, nil
}

func (s *SyncService) enqueue(ctx context.Context, payload entities.ReportPayload) (uint, error) {
	entry := &gormModels.PendingReport{
		ClientRef:    payload.ClientRef,
		UserID:       payload.UserID,
		DisasterType: string(payload.DisasterType),
		Severity:     payload.Severity,
		Comments:     payload.Comments,
		Latitude:     payload.Latitude,
		Longitude:    payload.Longitude,
		ContactName:  payload.ContactName,
		PhoneNumber:  payload.PhoneNumber,
		ImageBlob:    payload.ImageBlob,
		ImageMime:    payload.ImageMime,
		Timestamp:    payload.Timestamp,
	}
	return s.queue.Enqueue(ctx, entry)
}

func entryToPayload(entry gormModels.PendingReport) entities.ReportPayload {
	return entities.ReportPayload{
		ClientRef:    entry.ClientRef,
		UserID:       entry.UserID,
		DisasterType: constants.DisasterType(entry.DisasterType),
		Severity:     entry.Severity,
		Comments:     entry.Comments,
		Latitude:     entry.Latitude,
		Longitude:    entry.Longitude,
		ContactName:  entry.ContactName,
		PhoneNumber:  entry.PhoneNumber,
		ImageBlob:    entry.ImageBlob,
		ImageMime:    entry.ImageMime,
		Timestamp:    entry.Timestamp,
	}
}
