package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"disaster-relief/beacon/internal/constants"
	"disaster-relief/beacon/internal/db/repositories"
	"disaster-relief/beacon/internal/gateway"
	"disaster-relief/beacon/internal/models/entities"
	gormModels "disaster-relief/beacon/internal/models/gorm"
	"disaster-relief/beacon/internal/security"
)

// HistoryService builds the merged submission history a user sees: queued
// payloads (synthetic Pending Upload status) interleaved with confirmed
// remote reports, newest first.
type HistoryService struct {
	queue  *repositories.PendingReportRepo
	gw     gateway.ReportGateway
	cipher *security.FieldCipher
}

func NewHistoryService(queue *repositories.PendingReportRepo, gw gateway.ReportGateway, cipher *security.FieldCipher) *HistoryService {
	return &HistoryService{queue: queue, gw: gw, cipher: cipher}
}

// Build performs a full merge for one user: local pending rows for that user
// plus their remote reports, sorted by timestamp descending. Sorting is
// stable so ties keep their relative order.
func (s *HistoryService) Build(ctx context.Context, userID string) ([]entities.HistoryEntry, error) {
	pending, err := s.queue.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read local queue: %w", err)
	}

	remote, err := s.gw.QueryReportsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch remote reports: %w", err)
	}

	entries := make([]entities.HistoryEntry, 0, len(pending)+len(remote))
	for _, p := range pending {
		entries = append(entries, entities.HistoryEntry{
			Source:   entities.SourceLocal,
			LocalKey: p.ID,
			Report:   s.pendingToReport(p),
		})
	}
	for _, r := range remote {
		entries = append(entries, entities.HistoryEntry{
			Source: entities.SourceRemote,
			Report: s.decryptContacts(r),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Report.Timestamp.After(entries[j].Report.Timestamp)
	})

	return entries, nil
}

// pendingToReport normalizes a queue row into the display shape.
func (s *HistoryService) pendingToReport(p gormModels.PendingReport) entities.Report {
	r := entities.Report{
		UserID:       p.UserID,
		DisasterType: constants.DisasterType(p.DisasterType),
		Severity:     p.Severity,
		Comments:     p.Comments,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		Timestamp:    p.Timestamp,
		Status:       constants.StatusPending,
	}
	r.ContactName = s.decryptField(p.ContactName)
	r.PhoneNumber = s.decryptField(p.PhoneNumber)
	return r
}

func (s *HistoryService) decryptContacts(r entities.Report) entities.Report {
	r.ContactName = s.decryptField(r.ContactName)
	r.PhoneNumber = s.decryptField(r.PhoneNumber)
	return r
}

func (s *HistoryService) decryptField(field *string) *string {
	if field == nil || s.cipher == nil {
		return field
	}
	plain := s.cipher.DecryptOrSentinel(*field, constants.CorruptedFieldSentinel)
	return &plain
}

// SessionView is the live, incrementally-updated history for one signed-in
// user. It owns its entry slice; mutations happen only through Refresh and
// Apply.
type SessionView struct {
	svc    *HistoryService
	userID string

	mu      sync.RWMutex
	entries []entities.HistoryEntry
}

// NewSessionView creates an empty view for userID; call Refresh to populate.
func (s *HistoryService) NewSessionView(userID string) *SessionView {
	return &SessionView{svc: s, userID: userID}
}

// Refresh replaces the view with a full rebuild. Used at session start,
// after a local enqueue, and after a drain pass.
func (v *SessionView) Refresh(ctx context.Context) error {
	entries, err := v.svc.Build(ctx, v.userID)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.entries = entries
	v.mu.Unlock()
	return nil
}

// Apply folds one push notification into the view without a refetch.
// INSERTs for unknown ids are placed ahead of the existing remote entries;
// UPDATEs replace the matching entry in place, preserving position. Events
// for other users and duplicate INSERTs are ignored. Returns whether the
// view changed.
func (v *SessionView) Apply(ev gateway.ChangeEvent) bool {
	if ev.Report.UserID != v.userID {
		return false
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	switch ev.Type {
	case gateway.EventInsert:
		for _, e := range v.entries {
			if e.Source == entities.SourceRemote && e.Report.ID == ev.Report.ID {
				return false
			}
		}
		entry := entities.HistoryEntry{
			Source: entities.SourceRemote,
			Report: v.svc.decryptContacts(ev.Report),
		}
		idx := len(v.entries)
		for i, e := range v.entries {
			if e.Source == entities.SourceRemote {
				idx = i
				break
			}
		}
		v.entries = append(v.entries[:idx], append([]entities.HistoryEntry{entry}, v.entries[idx:]...)...)
		return true

	case gateway.EventUpdate:
		for i, e := range v.entries {
			if e.Source == entities.SourceRemote && e.Report.ID == ev.Report.ID {
				v.entries[i].Report = v.svc.decryptContacts(ev.Report)
				return true
			}
		}
		return false
	}

	return false
}

// Entries returns a copy of the current view.
func (v *SessionView) Entries() []entities.HistoryEntry {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]entities.HistoryEntry, len(v.entries))
	copy(out, v.entries)
	return out
}
