package services

import (
	"context"
	"geo-form-service/internal/adapters/sessions"
	"geo-form-service/internal/domain"
	"testing"
	"time"
)

func TestApplyLocationLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := sessions.NewMemorySessionStore(time.Hour)

	sess, err := CurrentLocation(ctx, store, "s1", domain.DefaultCoordinates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.Location.Current != domain.DefaultCoordinates {
		t.Fatalf("current = %v, want default", sess.Location.Current)
	}

	manual, _ := domain.NewManualEvent(1.5, 2.5, 200)
	click, _ := domain.NewClickEvent(-10, -20, 100)

	if _, applied, err := ApplyLocation(ctx, store, "s1", domain.DefaultCoordinates, manual); err != nil || !applied {
		t.Fatalf("manual applied=%v err=%v", applied, err)
	}
	// The click happened before the edit and arrives late.
	sess, applied, err := ApplyLocation(ctx, store, "s1", domain.DefaultCoordinates, click)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied {
		t.Fatal("late click should be ignored")
	}
	if got := sess.Location.Preview(0).Center; got != (domain.Coordinates{Lat: 1.5, Lon: 2.5}) {
		t.Fatalf("preview center = %v, want manual edit", got)
	}
}
