package dtos

import "disaster-relief/beacon/internal/models/entities"

// SubmitReportResponse tells the submitter what actually happened: delivered
// to the backend, or parked in the local queue.
type SubmitReportResponse struct {
	Outcome      string `json:"outcome"`
	Message      string `json:"message"`
	ReportID     string `json:"reportId,omitempty"`
	PendingCount int64  `json:"pendingCount"`
}

// DrainSummary reports the result of one pass over the local queue.
type DrainSummary struct {
	Attempted int   `json:"attempted"`
	Synced    int   `json:"synced"`
	Failed    int   `json:"failed"`
	Pending   int64 `json:"pending"`
}

type HistoryResponse struct {
	Entries []entities.HistoryEntry `json:"entries"`
}

type PendingCountResponse struct {
	Pending int64 `json:"pending"`
}

type ClustersResponse struct {
	Clusters []entities.Cluster `json:"clusters"`
}
