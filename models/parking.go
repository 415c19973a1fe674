package models

// ParkingZone is one physical zone of the garage as tracked by the simulator.
type ParkingZone struct {
	ID            string `json:"id"`
	Level         string `json:"level"`
	TotalSpots    int    `json:"totalSpots"`
	OccupiedSpots int    `json:"occupiedSpots"`
	Type          string `json:"type"` // Standard, EV Charging or Disabled
}

// ParkingZoneStatus is a ParkingZone plus the derived fields returned to clients.
type ParkingZoneStatus struct {
	ParkingZone
	AvailableSpots int `json:"availableSpots"`
	OccupancyRate  int `json:"occupancyRate"` // rounded percent
}
