package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"disaster-relief/beacon/internal/constants"
	"disaster-relief/beacon/internal/db"
	"disaster-relief/beacon/internal/db/repositories"
	"disaster-relief/beacon/internal/gateway"
	"disaster-relief/beacon/internal/models/entities"
)

// mockGateway substitutes the remote backend. Unset funcs get a permissive
// default so each test only wires the behavior it cares about.
type mockGateway struct {
	createFn func(ctx context.Context, payload entities.ReportPayload, imageURL *string) (string, error)
	uploadFn func(ctx context.Context, objectName string, blob []byte, contentType string) (string, error)
	queryFn  func(ctx context.Context, userID string) ([]entities.Report, error)
	updateFn func(ctx context.Context, id string, status constants.ReportStatus) error
}

func (m *mockGateway) CreateReport(ctx context.Context, payload entities.ReportPayload, imageURL *string) (string, error) {
	if m.createFn != nil {
		return m.createFn(ctx, payload, imageURL)
	}
	return "remote-id", nil
}

func (m *mockGateway) UploadBinary(ctx context.Context, objectName string, blob []byte, contentType string) (string, error) {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, objectName, blob, contentType)
	}
	return objectName, nil
}

func (m *mockGateway) ResolvePublicRef(ref string) string {
	return "https://photos.test/" + ref
}

func (m *mockGateway) QueryReportsByUser(ctx context.Context, userID string) ([]entities.Report, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockGateway) UpdateStatus(ctx context.Context, id string, status constants.ReportStatus) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, status)
	}
	return nil
}

func (m *mockGateway) SubscribeChanges(ctx context.Context) (<-chan gateway.ChangeEvent, func(), error) {
	ch := make(chan gateway.ChangeEvent)
	return ch, func() { close(ch) }, nil
}

type mockChecker struct {
	online bool
}

func (m *mockChecker) Online() bool { return m.online }

func newTestQueueRepo(t *testing.T) *repositories.PendingReportRepo {
	t.Helper()

	queueDB, err := db.InitQueueDB(":memory:")
	if err != nil {
		t.Fatalf("failed to open test queue: %v", err)
	}
	return repositories.NewPendingReportRepo(queueDB)
}

func testPayload(comments string) entities.ReportPayload {
	return entities.ReportPayload{
		ClientRef:    "ref-" + comments,
		UserID:       "user-1",
		DisasterType: constants.DisasterFlood,
		Severity:     4,
		Comments:     comments,
		Latitude:     -6.2,
		Longitude:    106.8,
		Timestamp:    time.Now().UTC(),
	}
}

func TestSubmitReportOfflineQueuesLocally(t *testing.T) {
	queue := newTestQueueRepo(t)
	gw := &mockGateway{
		createFn: func(ctx context.Context, payload entities.ReportPayload, imageURL *string) (string, error) {
			t.Fatal("gateway must not be called while offline")
			return "", nil
		},
	}
	svc := NewSyncService(queue, gw, &mockChecker{online: false})

	result, err := svc.SubmitReport(context.Background(), testPayload("flooded street"))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Outcome != constants.OutcomeQueuedOffline {
		t.Errorf("expected %s, got %s", constants.OutcomeQueuedOffline, result.Outcome)
	}
	if result.LocalKey == 0 {
		t.Error("expected a local key for the queued entry")
	}

	count, _ := queue.Count(context.Background())
	if count != 1 {
		t.Errorf("expected 1 queued entry, got %d", count)
	}
}

func TestSubmitReportOnlineUploadsDirectly(t *testing.T) {
	queue := newTestQueueRepo(t)
	gw := &mockGateway{
		createFn: func(ctx context.Context, payload entities.ReportPayload, imageURL *string) (string, error) {
			return "report-42", nil
		},
	}
	svc := NewSyncService(queue, gw, &mockChecker{online: true})

	result, err := svc.SubmitReport(context.Background(), testPayload("tree down"))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Outcome != constants.OutcomeSubmitted {
		t.Errorf("expected %s, got %s", constants.OutcomeSubmitted, result.Outcome)
	}
	if result.ReportID != "report-42" {
		t.Errorf("expected server id report-42, got %q", result.ReportID)
	}

	count, _ := queue.Count(context.Background())
	if count != 0 {
		t.Errorf("direct upload must not leave a queue entry, got %d", count)
	}
}

func TestSubmitReportUploadFailureFallsBackToQueue(t *testing.T) {
	queue := newTestQueueRepo(t)
	gw := &mockGateway{
		createFn: func(ctx context.Context, payload entities.ReportPayload, imageURL *string) (string, error) {
			return "", errors.New("backend rejected insert")
		},
	}
	svc := NewSyncService(queue, gw, &mockChecker{online: true})

	result, err := svc.SubmitReport(context.Background(), testPayload("landslide"))
	if err != nil {
		t.Fatalf("a gateway failure must degrade to queued, not error: %v", err)
	}
	if result.Outcome != constants.OutcomeQueuedRetry {
		t.Errorf("expected %s, got %s", constants.OutcomeQueuedRetry, result.Outcome)
	}

	count, _ := queue.Count(context.Background())
	if count != 1 {
		t.Errorf("expected 1 queued entry, got %d", count)
	}
}

func TestDrainQueueOfflineReturnsErrOffline(t *testing.T) {
	queue := newTestQueueRepo(t)
	svc := NewSyncService(queue, &mockGateway{}, &mockChecker{online: false})

	_, err := svc.DrainQueue(context.Background())
	if !errors.Is(err, ErrOffline) {
		t.Fatalf("expected ErrOffline, got %v", err)
	}
}

func TestDrainQueueUploadsAllInOrder(t *testing.T) {
	queue := newTestQueueRepo(t)
	checker := &mockChecker{online: false}

	var uploaded []string
	gw := &mockGateway{
		createFn: func(ctx context.Context, payload entities.ReportPayload, imageURL *string) (string, error) {
			uploaded = append(uploaded, payload.Comments)
			return "id-" + payload.Comments, nil
		},
	}
	svc := NewSyncService(queue, gw, checker)

	ctx := context.Background()
	for _, c := range []string{"first", "second", "third"} {
		if _, err := svc.SubmitReport(ctx, testPayload(c)); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	checker.online = true
	result, err := svc.DrainQueue(ctx)
	if err != nil {
		t.Fatalf("drain failed: %v", err)
	}
	if result.Attempted != 3 || result.Synced != 3 || result.Failed != 0 {
		t.Errorf("expected 3/3/0, got %d/%d/%d", result.Attempted, result.Synced, result.Failed)
	}

	for i, want := range []string{"first", "second", "third"} {
		if uploaded[i] != want {
			t.Errorf("upload %d: expected %q, got %q", i, want, uploaded[i])
		}
	}

	count, _ := queue.Count(ctx)
	if count != 0 {
		t.Errorf("expected empty queue after full drain, got %d", count)
	}
}

func TestDrainQueueFailingEntryStaysForNextPass(t *testing.T) {
	queue := newTestQueueRepo(t)
	checker := &mockChecker{online: false}

	rejectBad := true
	gw := &mockGateway{
		createFn: func(ctx context.Context, payload entities.ReportPayload, imageURL *string) (string, error) {
			if rejectBad && strings.Contains(payload.Comments, "bad") {
				return "", errors.New("transient insert failure")
			}
			return "id-" + payload.Comments, nil
		},
	}
	svc := NewSyncService(queue, gw, checker)

	ctx := context.Background()
	for _, c := range []string{"good-1", "bad-2", "good-3"} {
		if _, err := svc.SubmitReport(ctx, testPayload(c)); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	checker.online = true
	result, err := svc.DrainQueue(ctx)
	if err != nil {
		t.Fatalf("drain failed: %v", err)
	}
	if result.Attempted != 3 || result.Synced != 2 || result.Failed != 1 {
		t.Errorf("expected 3/2/1, got %d/%d/%d", result.Attempted, result.Synced, result.Failed)
	}

	remaining, _ := queue.ListAll(ctx)
	if len(remaining) != 1 || remaining[0].Comments != "bad-2" {
		t.Fatalf("expected only the failing entry to remain, got %+v", remaining)
	}

	// Once the backend accepts it, the next pass clears the queue.
	rejectBad = false
	result, err = svc.DrainQueue(ctx)
	if err != nil {
		t.Fatalf("second drain failed: %v", err)
	}
	if result.Synced != 1 {
		t.Errorf("expected the retried entry to sync, got %d", result.Synced)
	}

	count, _ := queue.Count(ctx)
	if count != 0 {
		t.Errorf("expected empty queue, got %d", count)
	}
}

func TestDrainQueuePhotoUploadFailureKeepsRowQueued(t *testing.T) {
	queue := newTestQueueRepo(t)
	checker := &mockChecker{online: false}

	created := 0
	gw := &mockGateway{
		uploadFn: func(ctx context.Context, objectName string, blob []byte, contentType string) (string, error) {
			return "", errors.New("bucket unavailable")
		},
		createFn: func(ctx context.Context, payload entities.ReportPayload, imageURL *string) (string, error) {
			created++
			return "id", nil
		},
	}
	svc := NewSyncService(queue, gw, checker)

	ctx := context.Background()
	payload := testPayload("with photo")
	payload.ImageBlob = []byte{0xFF, 0xD8, 0xFF}
	payload.ImageMime = "image/jpeg"
	if _, err := svc.SubmitReport(ctx, payload); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	checker.online = true
	result, err := svc.DrainQueue(ctx)
	if err != nil {
		t.Fatalf("drain failed: %v", err)
	}
	if result.Failed != 1 {
		t.Errorf("expected 1 failed entry, got %d", result.Failed)
	}
	if created != 0 {
		t.Error("report row must not be inserted when its photo upload fails")
	}

	count, _ := queue.Count(ctx)
	if count != 1 {
		t.Errorf("expected the entry to stay queued, got %d", count)
	}
}

func TestDrainQueuePassesPhotoURLToReportRow(t *testing.T) {
	queue := newTestQueueRepo(t)

	var gotURL *string
	gw := &mockGateway{
		createFn: func(ctx context.Context, payload entities.ReportPayload, imageURL *string) (string, error) {
			gotURL = imageURL
			return "id", nil
		},
	}
	svc := NewSyncService(queue, gw, &mockChecker{online: true})

	payload := testPayload("with photo")
	payload.ImageBlob = []byte{0x01}
	payload.ImageMime = "image/png"

	result, err := svc.SubmitReport(context.Background(), payload)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Outcome != constants.OutcomeSubmitted {
		t.Fatalf("expected direct submit, got %s", result.Outcome)
	}
	if gotURL == nil || *gotURL != "https://photos.test/ref-with photo" {
		t.Errorf("expected resolved photo URL on the row, got %v", gotURL)
	}
}
