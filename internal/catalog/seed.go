package catalog

import "parkada/internal/models"

// seedSpots returns the demo parking locations around DLSU and Taft Avenue.
func seedSpots() []models.ParkingSpot {
	locations := []struct {
		id   string
		name string
		lat  float64
		lng  float64
	}{
		{"PARK001", "DLSU Parking Building", 14.5640, 120.9935},
		{"PARK002", "Robinson's Place Manila", 14.5599, 120.9978},
		{"PARK003", "Taft Avenue Commercial", 14.5665, 120.9925},
		{"PARK004", "Vito Cruz Station Area", 14.5634, 120.9943},
		{"PARK005", "Pedro Gil Street Parking", 14.5680, 120.9918},
		{"PARK006", "Malate Church Area", 14.5618, 120.9955},
		{"PARK007", "St. Scholastica Parking", 14.5695, 120.9910},
		{"PARK008", "Taft-Pablo Ocampo Corner", 14.5655, 120.9920},
		{"PARK009", "EGI Taft Tower", 14.5620, 120.9940},
		{"PARK010", "Harrison Plaza Overflow", 14.5605, 120.9965},
		{"PARK011", "CSB Parking Area", 14.5685, 120.9915},
		{"PARK012", "Adriatico Street Parking", 14.5630, 120.9960},
		{"PARK013", "Agno Street Commercial", 14.5610, 120.9945},
		{"PARK014", "Taft Avenue MRT Parking", 14.5640, 120.9950},
		{"PARK015", "Remedios Circle Area", 14.5595, 120.9985},
		{"PARK016", "United Nations Avenue", 14.5675, 120.9905},
		{"PARK017", "Quirino Avenue Junction", 14.5590, 120.9950},
		{"PARK018", "Pres. Quirino Ave Parking", 14.5585, 120.9960},
	}

	spots := make([]models.ParkingSpot, 0, len(locations))
	for _, loc := range locations {
		spots = append(spots, models.ParkingSpot{
			ID:         loc.id,
			Name:       loc.name,
			Lat:        loc.lat,
			Lng:        loc.lng,
			Rate:       "₱70",
			HourlyRate: 70,
			Available:  20,
			Total:      60,
		})
	}
	return spots
}
