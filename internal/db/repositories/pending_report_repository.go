package repositories

import (
	"context"

	"disaster-relief/beacon/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// PendingReportRepo is the local durable queue. All operations are local
// disk I/O; entries are immutable once enqueued and are only ever removed.
type PendingReportRepo struct {
	db *gormlib.DB
}

// NewPendingReportRepo creates a new pending report queue repository
func NewPendingReportRepo(db *gormlib.DB) *PendingReportRepo {
	return &PendingReportRepo{db: db}
}

// Enqueue persists a payload and returns its local key.
func (r *PendingReportRepo) Enqueue(ctx context.Context, entry *gorm.PendingReport) (uint, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return 0, err
	}
	return entry.ID, nil
}

// ListAll returns every queued entry in insertion order. Drains rely on this
// ordering.
func (r *PendingReportRepo) ListAll(ctx context.Context) ([]gorm.PendingReport, error) {
	var entries []gorm.PendingReport

	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// ListByUser returns queued entries for one user, in insertion order. The
// queue itself is device-scoped; this filter exists so one user's history
// never shows another user's pending rows on a shared device.
func (r *PendingReportRepo) ListByUser(ctx context.Context, userID string) ([]gorm.PendingReport, error) {
	var entries []gorm.PendingReport

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Remove deletes an entry by local key. Removing a key that is already gone
// is a no-op, so a lost acknowledgment never wedges the drain.
func (r *PendingReportRepo) Remove(ctx context.Context, localKey uint) error {
	return r.db.WithContext(ctx).
		Delete(&gorm.PendingReport{}, localKey).Error
}

// Count returns the number of entries waiting in the queue.
func (r *PendingReportRepo) Count(ctx context.Context) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&gorm.PendingReport{}).
		Count(&count).Error

	return count, err
}
