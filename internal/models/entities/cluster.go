package entities

// Cluster is a derived grouping of active reports lying within the detection
// radius of a shared seed report. Never persisted; recomputed whenever the
// active set changes.
type Cluster struct {
	// Representative is the first member encountered in scan order.
	Representative Report   `json:"representative"`
	Count          int      `json:"count"`
	Members        []Report `json:"members"`
}
