package gateway

import (
	"context"
	"fmt"
	"time"

	"disaster-relief/beacon/internal/constants"
	"disaster-relief/beacon/internal/db/repositories"
	"disaster-relief/beacon/internal/logging"
	"disaster-relief/beacon/internal/models/entities"
	gormModels "disaster-relief/beacon/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// RemoteGateway is the concrete backend: report rows in Postgres, photo
// evidence in MinIO, change events over RabbitMQ.
type RemoteGateway struct {
	writes *repositories.ReportGormRepo
	reads  *repositories.ReportRepo
	photos *PhotoStore
	feed   *ChangeFeed
}

var _ ReportGateway = (*RemoteGateway)(nil)

func NewRemoteGateway(
	writes *repositories.ReportGormRepo,
	reads *repositories.ReportRepo,
	photos *PhotoStore,
	feed *ChangeFeed,
) *RemoteGateway {
	return &RemoteGateway{
		writes: writes,
		reads:  reads,
		photos: photos,
		feed:   feed,
	}
}

// CreateReport inserts the row with status Submitted and broadcasts the
// INSERT event.
func (g *RemoteGateway) CreateReport(ctx context.Context, payload entities.ReportPayload, imageURL *string) (string, error) {
	row := &gormModels.ReportRow{
		UserID:       payload.UserID,
		DisasterType: string(payload.DisasterType),
		Severity:     payload.Severity,
		Comments:     payload.Comments,
		Latitude:     payload.Latitude,
		Longitude:    payload.Longitude,
		ContactName:  payload.ContactName,
		PhoneNumber:  payload.PhoneNumber,
		ImageURL:     imageURL,
		Status:       string(constants.StatusSubmitted),
		Timestamp:    payload.Timestamp,
	}

	id, err := g.writes.Insert(ctx, row)
	if err != nil {
		return "", fmt.Errorf("failed to insert report: %w", err)
	}

	ev := ChangeEvent{Type: EventInsert, Report: rowToEntity(row)}
	if err := g.feed.Publish(ctx, ev); err != nil {
		logging.Warn("Report stored but change event not published",
			"report_id", id, "error", err.Error())
	}

	return id, nil
}

// UploadBinary stores photo evidence and returns its object reference.
func (g *RemoteGateway) UploadBinary(ctx context.Context, objectName string, blob []byte, contentType string) (string, error) {
	return g.photos.Upload(ctx, objectName, blob, contentType)
}

// ResolvePublicRef turns an object reference into a public URL.
func (g *RemoteGateway) ResolvePublicRef(ref string) string {
	return g.photos.PublicURL(ref)
}

// QueryReportsByUser returns a user's reports, newest first.
func (g *RemoteGateway) QueryReportsByUser(ctx context.Context, userID string) ([]entities.Report, error) {
	return g.reads.ListByUser(ctx, userID)
}

// UpdateStatus mutates a report's status and broadcasts the UPDATE event.
// Rejects transitions out of terminal states.
func (g *RemoteGateway) UpdateStatus(ctx context.Context, id string, status constants.ReportStatus) error {
	if !constants.ValidRemoteStatus(status) {
		return fmt.Errorf("invalid status %q", status)
	}

	current, err := g.reads.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load report: %w", err)
	}
	if current == nil {
		return gormlib.ErrRecordNotFound
	}
	if !current.Status.CanTransition(status) {
		return fmt.Errorf("cannot transition report from %q to %q", current.Status, status)
	}

	if err := g.writes.UpdateStatus(ctx, id, string(status)); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	updated := *current
	updated.Status = status

	ev := ChangeEvent{Type: EventUpdate, Report: updated}
	if err := g.feed.Publish(ctx, ev); err != nil {
		logging.Warn("Status updated but change event not published",
			"report_id", id, "error", err.Error())
	}

	return nil
}

// SubscribeChanges opens the push channel for report events.
func (g *RemoteGateway) SubscribeChanges(ctx context.Context) (<-chan ChangeEvent, func(), error) {
	return g.feed.Subscribe(ctx)
}

func rowToEntity(row *gormModels.ReportRow) entities.Report {
	return entities.Report{
		ID:           row.ID,
		UserID:       row.UserID,
		DisasterType: constants.DisasterType(row.DisasterType),
		Severity:     row.Severity,
		Comments:     row.Comments,
		Latitude:     row.Latitude,
		Longitude:    row.Longitude,
		Timestamp:    row.Timestamp.UTC().Truncate(time.Microsecond),
		ContactName:  row.ContactName,
		PhoneNumber:  row.PhoneNumber,
		ImageURL:     row.ImageURL,
		Status:       constants.ReportStatus(row.Status),
	}
}
