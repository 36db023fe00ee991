package domain

import (
	"errors"
	"math"
	"testing"
)

func TestLocationSelectorStartsAtDefault(t *testing.T) {
	sel := NewLocationSelector(DefaultCoordinates)

	if sel.Current != DefaultCoordinates {
		t.Fatalf("current = %v, want %v", sel.Current, DefaultCoordinates)
	}
	if sel.Source != SourceDefault {
		t.Fatalf("source = %q, want %q", sel.Source, SourceDefault)
	}
	if sel.Clicked() {
		t.Fatal("fresh selector should not report a click")
	}
}

func TestLocationSelectorLastWriteWins(t *testing.T) {
	sel := NewLocationSelector(DefaultCoordinates)

	click, err := NewClickEvent(-22.969208, -43.179623, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sel.Apply(click) {
		t.Fatal("click should be applied")
	}

	manual, err := NewManualEvent(10.5, 20.25, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sel.Apply(manual) {
		t.Fatal("manual edit should be applied")
	}

	if sel.Current != (Coordinates{Lat: 10.5, Lon: 20.25}) {
		t.Fatalf("current = %v, want manual edit", sel.Current)
	}
	if sel.Source != SourceManual {
		t.Fatalf("source = %q, want %q", sel.Source, SourceManual)
	}
	if sel.Seq != 2 {
		t.Fatalf("seq = %d, want 2", sel.Seq)
	}
}

func TestLocationSelectorDropsStaleEvents(t *testing.T) {
	sel := NewLocationSelector(DefaultCoordinates)

	newer, _ := NewManualEvent(1, 1, 2000)
	older, _ := NewClickEvent(2, 2, 1000)

	if !sel.Apply(newer) {
		t.Fatal("newer event should be applied")
	}
	if sel.Apply(older) {
		t.Fatal("older event should be ignored")
	}
	if sel.Current != (Coordinates{Lat: 1, Lon: 1}) {
		t.Fatalf("current = %v, want {1 1}", sel.Current)
	}

	same, _ := NewClickEvent(3, 3, 2000)
	if sel.Apply(same) {
		t.Fatal("event with equal seq should be ignored")
	}

	// Unsequenced events always land after whatever is stored.
	unseq, _ := NewClickEvent(4, 4, 0)
	if !sel.Apply(unseq) {
		t.Fatal("unsequenced event should be applied")
	}
	if sel.Seq != 2001 {
		t.Fatalf("seq = %d, want 2001", sel.Seq)
	}
}

func TestPreviewCenterMatchesLastManualEdit(t *testing.T) {
	edits := []Coordinates{
		{Lat: -23.5, Lon: -46.6},
		{Lat: 0, Lon: 0},
		{Lat: 89.999999999, Lon: -179.123456789012},
		{Lat: 123.456, Lon: 999.1}, // out of range, still accepted
		{Lat: -0.000001, Lon: 0.1 + 0.2},
	}

	sel := NewLocationSelector(DefaultCoordinates)
	for _, c := range edits {
		ev, err := NewManualEvent(c.Lat, c.Lon, 0)
		if err != nil {
			t.Fatalf("manual %v: unexpected error: %v", c, err)
		}
		sel.Apply(ev)

		view := sel.Preview(0)
		if view.Center != c {
			t.Fatalf("preview center = %v, want %v", view.Center, c)
		}
		if view.Zoom != DefaultZoom {
			t.Fatalf("zoom = %d, want %d", view.Zoom, DefaultZoom)
		}
	}
}

func TestNewClickEventRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		lat, lon float64
	}{
		{91, 0},
		{-90.0001, 0},
		{0, 180.5},
		{0, -181},
		{math.NaN(), 0},
		{0, math.Inf(1)},
	}
	for _, tt := range tests {
		if _, err := NewClickEvent(tt.lat, tt.lon, 0); !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("NewClickEvent(%v, %v) err = %v, want ErrInvalidCoordinate", tt.lat, tt.lon, err)
		}
	}
}

func TestNewManualEventRejectsNonFinite(t *testing.T) {
	if _, err := NewManualEvent(math.NaN(), 1, 0); !errors.Is(err, ErrInvalidCoordinate) {
		t.Fatalf("err = %v, want ErrInvalidCoordinate", err)
	}
	if _, err := NewManualEvent(200, 400, 0); err != nil {
		t.Fatalf("out-of-range manual edit should be accepted, got %v", err)
	}
}
