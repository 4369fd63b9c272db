package constants

type (
	ReportStatus  string
	DisasterType  string
	SubmitOutcome string
)

const (
	// Remote statuses. PendingUpload is synthetic and exists only on rows
	// still sitting in the local queue; it is never written to the backend.
	StatusSubmitted   ReportStatus = "Submitted"
	StatusActionTaken ReportStatus = "Action Taken"
	StatusIgnored     ReportStatus = "Ignored"
	StatusPending     ReportStatus = "Pending Upload"
)

// Well-known disaster types. The column is an open string, these are the
// values the submission form offers.
const (
	DisasterFlood         DisasterType = "Flood"
	DisasterFire          DisasterType = "Fire"
	DisasterEarthquake    DisasterType = "Earthquake"
	DisasterLandslide     DisasterType = "Landslide"
	DisasterRoadBlock     DisasterType = "Road Block"
	DisasterPowerLineDown DisasterType = "Power Line Down"
)

const (
	OutcomeSubmitted     SubmitOutcome = "SUBMITTED"
	OutcomeQueuedRetry   SubmitOutcome = "QUEUED_RETRY"
	OutcomeQueuedOffline SubmitOutcome = "QUEUED_OFFLINE"
)

// User-facing status line per submit outcome.
const (
	MsgSubmitted     = "Submitted Successfully!"
	MsgQueuedRetry   = "Upload failed. Saved locally."
	MsgQueuedOffline = "Offline. Saved to Pending."
)

// Placeholder shown when an encrypted contact field cannot be decrypted.
const CorruptedFieldSentinel = "[data corrupted]"

// IsTerminal reports whether no further status transition is allowed.
func (s ReportStatus) IsTerminal() bool {
	return s == StatusActionTaken || s == StatusIgnored
}

// CanTransition reports whether an admin may move a report from s to next.
// Only Submitted reports can be actioned or ignored; the local->Submitted
// transition is performed by the sync engine, not through this check.
func (s ReportStatus) CanTransition(next ReportStatus) bool {
	if s != StatusSubmitted {
		return false
	}
	return next == StatusActionTaken || next == StatusIgnored
}

// ValidRemoteStatus reports whether s may be stored on the backend.
func ValidRemoteStatus(s ReportStatus) bool {
	switch s {
	case StatusSubmitted, StatusActionTaken, StatusIgnored:
		return true
	}
	return false
}
