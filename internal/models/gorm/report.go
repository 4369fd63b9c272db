package gorm

import "time"

// ReportRow is the remote reports table as written through GORM. Reads for
// the admin surface go through the sqlx repository instead.
type ReportRow struct {
	ID           string  `gorm:"column:id;primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID       string  `gorm:"column:user_id;type:varchar(64);not null;index"`
	DisasterType string  `gorm:"column:disaster_type;type:varchar(50);not null"`
	Severity     int     `gorm:"column:severity;not null"`
	Comments     string  `gorm:"column:comments;type:text;not null"`
	Latitude     float64 `gorm:"column:latitude;not null"`
	Longitude    float64 `gorm:"column:longitude;not null"`

	ContactName *string `gorm:"column:contact_name;type:text"`
	PhoneNumber *string `gorm:"column:phone_number;type:text"`
	ImageURL    *string `gorm:"column:image_url;type:text"`

	Status    string    `gorm:"column:status;type:varchar(20);not null"`
	Timestamp time.Time `gorm:"column:timestamp;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

// TableName specifies the table name for GORM
func (ReportRow) TableName() string {
	return "reports"
}
