package dto

// OccupancyResponse describes the car park at one moment. OccupancyRate is a
// percentage of TotalSpots and is 0 when no spots are configured.
type OccupancyResponse struct {
	ActiveNow      int     `json:"activeNow"`
	ScheduledToday int     `json:"scheduledToday"`
	TotalSpots     int     `json:"totalSpots"`
	OccupancyRate  float64 `json:"occupancyRate"`
	GeneratedAt    string  `json:"generatedAt"`
}

type SnapshotResponse struct {
	URL       string            `json:"url"`
	Occupancy OccupancyResponse `json:"occupancy"`
}
