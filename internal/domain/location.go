package domain

import "fmt"

// InputSource identifies which producer last set a LocationSelector.
type InputSource string

const (
	SourceDefault InputSource = "default"
	SourceClick   InputSource = "click"
	SourceManual  InputSource = "manual"
)

// DefaultZoom is the zoom level of the preview and interactive maps.
const DefaultZoom = 13

// A single coordinate update coming from the map widget or the numeric fields.
// Seq orders events from one client; zero means "now" at the server.
type LocationEvent struct {
	Source InputSource
	Coords Coordinates
	Seq    int64
}

// LocationSelector holds the current best-known coordinate of one session.
// The value is always defined: it starts at a default and is overwritten by
// whichever event occurred last.
type LocationSelector struct {
	Current Coordinates
	Source  InputSource
	Seq     int64
}

// Map center and zoom for the preview widget.
type MapView struct {
	Center Coordinates
	Zoom   int
}

func NewLocationSelector(def Coordinates) LocationSelector {
	return LocationSelector{Current: def, Source: SourceDefault}
}

// Apply updates the selector with last-writer-wins semantics and reports
// whether the event was taken. Events with a sequence not newer than the
// current one are stale and dropped.
func (l *LocationSelector) Apply(ev LocationEvent) bool {
	seq := ev.Seq
	if seq == 0 {
		seq = l.Seq + 1
	}
	if seq <= l.Seq {
		return false
	}

	l.Current = ev.Coords
	l.Source = ev.Source
	l.Seq = seq
	return true
}

// Clicked reports whether the current value came from the map widget.
func (l LocationSelector) Clicked() bool { return l.Source == SourceClick }

// Preview returns the preview map centered exactly on the current value.
func (l LocationSelector) Preview(zoom int) MapView {
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	return MapView{Center: l.Current, Zoom: zoom}
}

// NewClickEvent builds an event from a map click. Clicks are best-effort:
// anything outside the globe is rejected instead of being stored.
func NewClickEvent(lat, lon float64, seq int64) (LocationEvent, error) {
	c := Coordinates{Lat: lat, Lon: lon}
	if err := c.Validate(); err != nil {
		return LocationEvent{}, fmt.Errorf("map click: %w", err)
	}
	return LocationEvent{Source: SourceClick, Coords: c, Seq: seq}, nil
}

// NewManualEvent builds an event from the numeric fields. No range check is
// applied, but the values must be real numbers to be persisted later.
func NewManualEvent(lat, lon float64, seq int64) (LocationEvent, error) {
	c := Coordinates{Lat: lat, Lon: lon}
	if !c.Finite() {
		return LocationEvent{}, fmt.Errorf("manual edit: %w: lat=%v lon=%v", ErrInvalidCoordinate, lat, lon)
	}
	return LocationEvent{Source: SourceManual, Coords: c, Seq: seq}, nil
}
