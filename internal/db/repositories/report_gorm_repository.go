package repositories

import (
	"context"
	"time"

	"disaster-relief/beacon/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// ReportGormRepo handles writes to the reports table.
type ReportGormRepo struct {
	db *gormlib.DB
}

func NewReportGormRepo(db *gormlib.DB) *ReportGormRepo {
	return &ReportGormRepo{db: db}
}

// Insert creates a report row and returns the server-assigned id.
func (r *ReportGormRepo) Insert(ctx context.Context, row *gorm.ReportRow) (string, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return "", err
	}
	return row.ID, nil
}

// UpdateStatus sets a report's status. Returns gorm.ErrRecordNotFound when
// the id does not exist.
func (r *ReportGormRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	res := r.db.WithContext(ctx).
		Model(&gorm.ReportRow{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gormlib.ErrRecordNotFound
	}
	return nil
}
