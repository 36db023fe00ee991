package handlers

import (
	"errors"
	"fmt"
	"geo-form-service/internal/api/dto"
	"geo-form-service/internal/domain"
	"geo-form-service/internal/ports"
	"geo-form-service/internal/services"
	"net/http"
)

// LocationHandler exposes the per-session location selector.
type LocationHandler struct {
	Store   ports.SessionStore
	Default domain.Coordinates
	Zoom    int
}

func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := services.CurrentLocation(r.Context(), h.Store, SessionID(r.Context()), h.Default)
	if err != nil {
		serverError(w, r, "current location", err)
		return
	}

	writeJSON(w, r, http.StatusOK, h.response(sess, true))
}

// Click records a map click. Clicks are best-effort: out-of-range or stale
// events are refused and the current value is returned unchanged.
func (h *LocationHandler) Click(w http.ResponseWriter, r *http.Request) {
	var req dto.ClickRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ev, err := domain.NewClickEvent(*req.Lat, *req.Lon, req.Seq)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.apply(w, r, ev)
}

// Manual records an edit of the numeric fields.
func (h *LocationHandler) Manual(w http.ResponseWriter, r *http.Request) {
	var req dto.ManualLocationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ev, err := domain.NewManualEvent(*req.Lat, *req.Lon, req.Seq)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.apply(w, r, ev)
}

func (h *LocationHandler) apply(w http.ResponseWriter, r *http.Request, ev domain.LocationEvent) {
	sess, applied, err := services.ApplyLocation(r.Context(), h.Store, SessionID(r.Context()), h.Default, ev)
	if err != nil {
		serverError(w, r, "apply location", err)
		return
	}

	writeJSON(w, r, http.StatusOK, h.response(sess, applied))
}

func (h *LocationHandler) response(sess domain.Session, applied bool) dto.LocationResponse {
	loc := sess.Location
	view := loc.Preview(h.Zoom)
	return dto.LocationResponse{
		Lat:     loc.Current.Lat,
		Lon:     loc.Current.Lon,
		Source:  string(loc.Source),
		Seq:     loc.Seq,
		Applied: applied,
		Message: statusMessage(loc),
		Preview: dto.MapViewResponse{
			Lat:  view.Center.Lat,
			Lon:  view.Center.Lon,
			Zoom: view.Zoom,
		},
	}
}

// statusMessage is the banner shown above the map.
func statusMessage(loc domain.LocationSelector) string {
	if loc.Clicked() {
		return fmt.Sprintf("Local selecionado: %s", loc.Current)
	}
	return MsgNoClick
}

// validationStatus maps user input errors to 422 and everything else to 500.
func validationStatus(err error) int {
	if errors.Is(err, domain.ErrNameRequired) || errors.Is(err, domain.ErrInvalidCoordinate) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
