package models

// ParkingSpot describes a parking location offered through the catalog.
// Rate keeps the display form ("₱70"); HourlyRate is the parsed numeric
// amount the billing engine works with.
type ParkingSpot struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Rate       string  `json:"rate"`
	HourlyRate float64 `json:"hourlyRate"`
	Address    string  `json:"address,omitempty"`
	Available  int     `json:"available"`
	Total      int     `json:"total"`
	OwnerID    string  `json:"ownerId,omitempty"`
}
