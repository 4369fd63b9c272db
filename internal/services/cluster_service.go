package services

import (
	"math"

	"disaster-relief/beacon/internal/models/entities"
)

const (
	// EarthRadiusMeters is the mean spherical earth radius.
	EarthRadiusMeters = 6371000.0

	// DefaultClusterRadiusMeters is the fixed single-link threshold for
	// duplicate-incident detection.
	DefaultClusterRadiusMeters = 500.0
)

// Haversine returns the great-circle surface distance in meters between two
// points given in decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// ClusterService partitions active reports into proximity clusters for
// administrator alerting.
type ClusterService struct {
	radiusMeters float64
}

func NewClusterService() *ClusterService {
	return &ClusterService{radiusMeters: DefaultClusterRadiusMeters}
}

// Detect runs a single pass of fixed-radius single-link clustering over the
// input, in scan order. Each unvisited report seeds a cluster and pulls in
// every later unvisited report within the radius of the seed.
//
// Deliberately not transitive: a report joining a cluster does not extend
// the cluster's reach beyond the seed's radius. This is a single-pass
// approximation, not connected-component clustering, and its membership
// semantics are load-bearing for the admin alert.
//
// Only clusters with at least two members are returned; the representative
// is the seed.
func (s *ClusterService) Detect(reports []entities.Report) []entities.Cluster {
	var clusters []entities.Cluster
	visited := make([]bool, len(reports))

	for i := range reports {
		if visited[i] {
			continue
		}
		visited[i] = true

		members := []entities.Report{reports[i]}
		for j := i + 1; j < len(reports); j++ {
			if visited[j] {
				continue
			}
			d := Haversine(
				reports[i].Latitude, reports[i].Longitude,
				reports[j].Latitude, reports[j].Longitude,
			)
			if d <= s.radiusMeters {
				members = append(members, reports[j])
				visited[j] = true
			}
		}

		if len(members) >= 2 {
			clusters = append(clusters, entities.Cluster{
				Representative: members[0],
				Count:          len(members),
				Members:        members,
			})
		}
	}

	return clusters
}
