package handlers

import (
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/mvavassori/digital-mall/models"
	"github.com/mvavassori/digital-mall/utils"
)

// ParkingSimulator stands in for the garage's occupancy sensors. Each poll
// random-walks every zone by -1, 0 or +1 cars, clamped to [0, totalSpots].
// State is owned here and handed to the handler explicitly; there is no
// package-level mutable data.
type ParkingSimulator struct {
	mu    sync.Mutex
	zones []models.ParkingZone
	rng   *rand.Rand
}

func NewParkingSimulator() *ParkingSimulator {
	return &ParkingSimulator{
		zones: []models.ParkingZone{
			{ID: "1", Level: "B1", TotalSpots: 150, OccupiedSpots: 45, Type: "Standard"},
			{ID: "2", Level: "B1-EV", TotalSpots: 20, OccupiedSpots: 18, Type: "EV Charging"},
			{ID: "3", Level: "B2", TotalSpots: 200, OccupiedSpots: 120, Type: "Standard"},
			{ID: "4", Level: "B2-Acc", TotalSpots: 15, OccupiedSpots: 2, Type: "Disabled"},
		},
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Poll advances the simulation one step and reports the zones with their
// derived availability figures.
func (s *ParkingSimulator) Poll() []models.ParkingZoneStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]models.ParkingZoneStatus, 0, len(s.zones))
	for i := range s.zones {
		zone := &s.zones[i]

		change := s.rng.Intn(3) - 1 // -1, 0 or 1
		occupied := zone.OccupiedSpots + change
		if occupied < 0 {
			occupied = 0
		}
		if occupied > zone.TotalSpots {
			occupied = zone.TotalSpots
		}
		zone.OccupiedSpots = occupied

		statuses = append(statuses, models.ParkingZoneStatus{
			ParkingZone:    *zone,
			AvailableSpots: zone.TotalSpots - occupied,
			OccupancyRate:  int(math.Round(float64(occupied) / float64(zone.TotalSpots) * 100)),
		})
	}

	return statuses
}

type parkingResponse struct {
	Success   bool                       `json:"success"`
	UpdatedAt time.Time                  `json:"updatedAt"`
	Data      []models.ParkingZoneStatus `json:"data"`
}

func GetParkingStatus(sim *ParkingSimulator) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		utils.WriteJSON(w, http.StatusOK, parkingResponse{
			Success:   true,
			UpdatedAt: time.Now().UTC(),
			Data:      sim.Poll(),
		})
	}
}
