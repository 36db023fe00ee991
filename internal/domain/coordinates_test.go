package domain

import "testing"

func TestCoordsToListIsLonLat(t *testing.T) {
	got := Coordinates{Lat: -23.5505, Lon: -46.6333}.CoordsToList()
	if len(got) != 2 || got[0] != -46.6333 || got[1] != -23.5505 {
		t.Fatalf("CoordsToList() = %v, want [-46.6333 -23.5505]", got)
	}
}
