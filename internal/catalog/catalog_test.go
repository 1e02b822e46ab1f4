package catalog

import (
	"errors"
	"testing"

	"parkada/internal/models"
)

func TestParseRate(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"₱70", 70, false},
		{"₱85.50", 85.5, false},
		{"$12.25", 12.25, false},
		{" ₱70 ", 70, false},
		{"70", 70, false},
		{"free", 0, true},
		{"", 0, true},
		{"₱", 0, true},
		{"₱-5", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseRate(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidRate) {
				t.Fatalf("ParseRate(%q) err = %v, want ErrInvalidRate", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseRate(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseRate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCatalogSeed(t *testing.T) {
	c := New()

	spots := c.List()
	if len(spots) != 18 {
		t.Fatalf("seeded spots = %d, want 18", len(spots))
	}

	spot, err := c.Get("PARK001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if spot.Name != "DLSU Parking Building" {
		t.Fatalf("spot name = %q", spot.Name)
	}
	if spot.HourlyRate != 70 {
		t.Fatalf("hourly rate = %v, want 70", spot.HourlyRate)
	}

	if _, err := c.Get("NOPE"); !errors.Is(err, ErrSpotNotFound) {
		t.Fatalf("err = %v, want ErrSpotNotFound", err)
	}
}

func TestAddSpotParsesRate(t *testing.T) {
	c := New()

	spot, err := c.AddSpot(models.ParkingSpot{
		ID:      "RENT001",
		Name:    "Leon Guinto Residence",
		Lat:     14.5650,
		Lng:     120.9940,
		Rate:    "₱75",
		Address: "Leon Guinto St, Malate",
		OwnerID: "user1",
	})
	if err != nil {
		t.Fatalf("add spot: %v", err)
	}
	if spot.HourlyRate != 75 {
		t.Fatalf("hourly rate = %v, want 75", spot.HourlyRate)
	}

	owned := c.SpotsByOwner("user1")
	if len(owned) != 1 || owned[0].ID != "RENT001" {
		t.Fatalf("spots by owner = %+v", owned)
	}
}

func TestAddSpotRejectsBadRate(t *testing.T) {
	c := New()

	_, err := c.AddSpot(models.ParkingSpot{ID: "RENT002", Name: "Bad Rate Lot", Rate: "cheap"})
	if !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("err = %v, want ErrInvalidRate", err)
	}
}

func TestAddSpotRejectsDuplicateID(t *testing.T) {
	c := New()

	if _, err := c.AddSpot(models.ParkingSpot{ID: "PARK001", Name: "Clash", Rate: "₱10"}); err == nil {
		t.Fatal("expected duplicate id error")
	}
}
