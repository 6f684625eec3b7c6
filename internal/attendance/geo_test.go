package attendance

import (
	"math"
	"testing"
)

func TestDistanceMetersZero(t *testing.T) {
	p := Point{Latitude: 13.7563, Longitude: 100.5018}
	if d := DistanceMeters(p, p); d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestDistanceMetersOneDegreeLatitude(t *testing.T) {
	a := Point{Latitude: 0, Longitude: 0}
	b := Point{Latitude: 1, Longitude: 0}
	d := DistanceMeters(a, b)
	// One degree of latitude is about 111.2 km on a 6371 km sphere.
	if math.Abs(d-111195) > 100 {
		t.Fatalf("expected ~111195m, got %f", d)
	}
}

func TestDistanceMetersSmallOffset(t *testing.T) {
	office := Point{Latitude: 13.7563, Longitude: 100.5018}
	nearby := Point{Latitude: 13.7568, Longitude: 100.5018}
	d := DistanceMeters(office, nearby)
	if d < 40 || d > 70 {
		t.Fatalf("expected ~55m, got %f", d)
	}

	far := Point{Latitude: 13.7663, Longitude: 100.5018}
	if d := DistanceMeters(office, far); d < 1000 {
		t.Fatalf("expected >1km, got %f", d)
	}
}
