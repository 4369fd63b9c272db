package repositories

import (
	"context"
	"database/sql"
	"errors"

	"disaster-relief/beacon/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// ReportRepo serves the read side of the reports table (user history, admin
// listing, map data, export). Writes go through ReportGormRepo.
type ReportRepo struct {
	db *sqlx.DB
}

func NewReportRepo(db *sqlx.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

// ListByUser returns a user's reports, newest first.
func (r *ReportRepo) ListByUser(ctx context.Context, userID string) ([]entities.Report, error) {
	var reports []entities.Report

	err := r.db.SelectContext(ctx, &reports, `
		SELECT id, user_id, disaster_type, severity, comments,
		       latitude, longitude, timestamp,
		       contact_name, phone_number, image_url, status
		FROM reports
		WHERE user_id = $1
		ORDER BY timestamp DESC`, userID)
	if err != nil {
		return nil, err
	}

	return reports, nil
}

// ListVisible returns every report an admin should see (everything except
// Ignored), newest first, optionally narrowed to one severity level.
func (r *ReportRepo) ListVisible(ctx context.Context, severity int) ([]entities.Report, error) {
	var reports []entities.Report

	query := `
		SELECT id, user_id, disaster_type, severity, comments,
		       latitude, longitude, timestamp,
		       contact_name, phone_number, image_url, status
		FROM reports
		WHERE status != 'Ignored'`
	args := []interface{}{}

	if severity > 0 {
		query += ` AND severity = $1`
		args = append(args, severity)
	}
	query += ` ORDER BY timestamp DESC`

	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, err
	}

	return reports, nil
}

// ListActive returns reports still in Submitted state, in timestamp order.
// This is the input set for cluster detection and the map overlay.
func (r *ReportRepo) ListActive(ctx context.Context) ([]entities.Report, error) {
	var reports []entities.Report

	err := r.db.SelectContext(ctx, &reports, `
		SELECT id, user_id, disaster_type, severity, comments,
		       latitude, longitude, timestamp,
		       contact_name, phone_number, image_url, status
		FROM reports
		WHERE status = 'Submitted'
		ORDER BY timestamp DESC`)
	if err != nil {
		return nil, err
	}

	return reports, nil
}

// FindByID returns one report, or nil if it does not exist.
func (r *ReportRepo) FindByID(ctx context.Context, id string) (*entities.Report, error) {
	var report entities.Report

	err := r.db.GetContext(ctx, &report, `
		SELECT id, user_id, disaster_type, severity, comments,
		       latitude, longitude, timestamp,
		       contact_name, phone_number, image_url, status
		FROM reports
		WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &report, nil
}
