package gorm

import "time"

// PendingReport is one row of the local durable queue: a report captured
// while the backend was unreachable. Rows are immutable once written and are
// deleted only after the backend has durably accepted the upload.
type PendingReport struct {
	ID           uint   `gorm:"column:id;primaryKey;autoIncrement"`
	ClientRef    string `gorm:"column:client_ref;type:varchar(36);not null"`
	UserID       string `gorm:"column:user_id;type:varchar(64);not null;index"`
	DisasterType string `gorm:"column:disaster_type;type:varchar(50);not null"`
	Severity     int    `gorm:"column:severity;not null"`
	Comments     string `gorm:"column:comments;type:text;not null"`
	Latitude     float64 `gorm:"column:latitude;not null"`
	Longitude    float64 `gorm:"column:longitude;not null"`

	// Contact fields are stored encrypted, exactly as they will be sent.
	ContactName *string `gorm:"column:contact_name;type:text"`
	PhoneNumber *string `gorm:"column:phone_number;type:text"`

	ImageBlob []byte `gorm:"column:image_blob"`
	ImageMime string `gorm:"column:image_mime;type:varchar(100)"`

	// Timestamp is the client-assigned creation instant of the report, not
	// of the queue row.
	Timestamp time.Time `gorm:"column:timestamp;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName specifies the table name for GORM
func (PendingReport) TableName() string {
	return "pending_reports"
}
