package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"parkada/internal/models"
)

var (
	// ErrSpotNotFound indicates an unknown spot id.
	ErrSpotNotFound = errors.New("catalog: spot not found")
	// ErrInvalidRate indicates a rate string with no parsable amount.
	ErrInvalidRate = errors.New("catalog: invalid rate")
)

// ParseRate extracts the numeric hourly amount from a display rate such as
// "₱70". Any leading non-numeric currency prefix is stripped; a remainder
// that does not parse as a number is an explicit error instead of poisoning
// downstream cost math.
func ParseRate(rate string) (float64, error) {
	trimmed := strings.TrimSpace(rate)
	start := strings.IndexFunc(trimmed, func(r rune) bool {
		return unicode.IsDigit(r) || r == '.' || r == '-'
	})
	if start < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRate, rate)
	}

	amount, err := strconv.ParseFloat(trimmed[start:], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRate, rate)
	}
	if amount < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRate, rate)
	}
	return amount, nil
}

// Catalog is the in-memory spot directory: the seeded demo spots around
// Taft Avenue plus any rentor-registered listings.
type Catalog struct {
	mu    sync.RWMutex
	spots []*models.ParkingSpot
	byID  map[string]*models.ParkingSpot
}

// New returns a catalog seeded with the demo spots.
func New() *Catalog {
	c := &Catalog{byID: make(map[string]*models.ParkingSpot)}
	for _, spot := range seedSpots() {
		s := spot
		c.spots = append(c.spots, &s)
		c.byID[s.ID] = &s
	}
	return c
}

// Get returns one spot by id.
func (c *Catalog) Get(id string) (*models.ParkingSpot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	spot, ok := c.byID[id]
	if !ok {
		return nil, ErrSpotNotFound
	}
	copied := *spot
	return &copied, nil
}

// List returns all spots in registration order.
func (c *Catalog) List() []models.ParkingSpot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.ParkingSpot, 0, len(c.spots))
	for _, spot := range c.spots {
		out = append(out, *spot)
	}
	return out
}

// SpotsByOwner returns the spots registered by one rentor.
func (c *Catalog) SpotsByOwner(ownerID string) []models.ParkingSpot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []models.ParkingSpot
	for _, spot := range c.spots {
		if spot.OwnerID == ownerID {
			out = append(out, *spot)
		}
	}
	return out
}

// AddSpot registers a rentor listing. The display rate is validated and
// parsed here so the session engine only ever sees a numeric hourly rate.
func (c *Catalog) AddSpot(spot models.ParkingSpot) (*models.ParkingSpot, error) {
	if strings.TrimSpace(spot.ID) == "" {
		return nil, errors.New("catalog: spot id required")
	}
	if strings.TrimSpace(spot.Name) == "" {
		return nil, errors.New("catalog: spot name required")
	}

	rate, err := ParseRate(spot.Rate)
	if err != nil {
		return nil, err
	}
	spot.HourlyRate = rate

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byID[spot.ID]; ok {
		return nil, fmt.Errorf("catalog: spot %s already registered", spot.ID)
	}
	stored := spot
	c.spots = append(c.spots, &stored)
	c.byID[stored.ID] = &stored

	copied := stored
	return &copied, nil
}
