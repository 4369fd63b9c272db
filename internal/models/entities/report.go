package entities

import (
	"time"

	"disaster-relief/beacon/internal/constants"
)

// Report is a server-confirmed incident report as read back from the store.
type Report struct {
	ID           string                 `db:"id" json:"id"`
	UserID       string                 `db:"user_id" json:"userId"`
	DisasterType constants.DisasterType `db:"disaster_type" json:"disasterType"`
	Severity     int                    `db:"severity" json:"severity"`
	Comments     string                 `db:"comments" json:"comments"`
	Latitude     float64                `db:"latitude" json:"latitude"`
	Longitude    float64                `db:"longitude" json:"longitude"`
	Timestamp    time.Time              `db:"timestamp" json:"timestamp"`
	ContactName  *string                `db:"contact_name" json:"contactName,omitempty"`
	PhoneNumber  *string                `db:"phone_number" json:"phoneNumber,omitempty"`
	ImageURL     *string                `db:"image_url" json:"imageUrl,omitempty"`
	Status       constants.ReportStatus `db:"status" json:"status"`
}

// ReportPayload is a report as captured on the device, before the backend
// has assigned an id. Contact fields arrive already encrypted; ClientRef is
// a client-generated identifier reused as the photo object name.
type ReportPayload struct {
	ClientRef    string
	UserID       string
	DisasterType constants.DisasterType
	Severity     int
	Comments     string
	Latitude     float64
	Longitude    float64
	Timestamp    time.Time
	ContactName  *string
	PhoneNumber  *string
	ImageBlob    []byte
	ImageMime    string
}

// EntrySource tags which side of the merge a history entry came from.
type EntrySource string

const (
	SourceLocal  EntrySource = "local"
	SourceRemote EntrySource = "remote"
)

// HistoryEntry is one row of the merged submission history: either a queued
// payload still waiting for upload or a confirmed remote report, normalized
// into the Report shape for display.
type HistoryEntry struct {
	Source   EntrySource `json:"source"`
	LocalKey uint        `json:"localKey,omitempty"`
	Report   Report      `json:"report"`
}
