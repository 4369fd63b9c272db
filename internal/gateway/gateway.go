package gateway

import (
	"context"

	"disaster-relief/beacon/internal/constants"
	"disaster-relief/beacon/internal/models/entities"
)

type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
)

// ChangeEvent is one push notification from the report change feed.
type ChangeEvent struct {
	Type   EventType       `json:"type"`
	Report entities.Report `json:"report"`
}

// ReportGateway is the remote backend as consumed by the sync engine and the
// view merger. The concrete implementation lives in this package; tests
// substitute a mock.
type ReportGateway interface {
	// CreateReport inserts a report row (status Submitted) and returns the
	// server-assigned id. imageURL, when set, references an already-uploaded
	// photo.
	CreateReport(ctx context.Context, payload entities.ReportPayload, imageURL *string) (string, error)

	// UploadBinary stores a photo blob and returns its object reference.
	UploadBinary(ctx context.Context, objectName string, blob []byte, contentType string) (string, error)

	// ResolvePublicRef turns an object reference into a public URL.
	ResolvePublicRef(ref string) string

	// QueryReportsByUser returns a user's reports, newest first.
	QueryReportsByUser(ctx context.Context, userID string) ([]entities.Report, error)

	// UpdateStatus mutates a report's status. Never queued for offline
	// retry; a connectivity failure surfaces directly to the caller.
	UpdateStatus(ctx context.Context, id string, status constants.ReportStatus) error

	// SubscribeChanges opens the push channel. The returned teardown func
	// releases the subscription and must be called when the session ends.
	SubscribeChanges(ctx context.Context) (<-chan ChangeEvent, func(), error)
}
