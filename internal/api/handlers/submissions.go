package handlers

import (
	"encoding/json"
	"errors"
	"geo-form-service/internal/api/dto"
	"geo-form-service/internal/domain"
	"geo-form-service/internal/ports"
	"geo-form-service/internal/services"
	"net/http"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
)

// SubmissionHandler exposes the submission recorder and the table viewer.
type SubmissionHandler struct {
	Store   ports.SessionStore
	Repo    ports.SubmissionRepository
	Default domain.Coordinates
}

func (h *SubmissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmissionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	in := services.RecordSubmissionRequest{
		SessionID: SessionID(r.Context()),
		Name:      req.Name,
		Answer:    req.Answer,
		Seq:       req.Seq,
		Default:   h.Default,
	}
	if req.Lat != nil && req.Lon != nil {
		in.Coords = &domain.Coordinates{Lat: *req.Lat, Lon: *req.Lon}
	}

	sub, _, err := services.RecordSubmission(r.Context(), in, h.Store, h.Repo)
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		writeError(w, r, http.StatusUnprocessableEntity, MsgNameRequired)
		return
	case err != nil && validationStatus(err) == http.StatusUnprocessableEntity:
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		serverError(w, r, "record submission", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.CreateSubmissionResponse{
		Message:    MsgSubmitted,
		Submission: toSubmissionResponse(sub),
	})
}

func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	view, err := services.ViewTable(r.Context(), h.Repo)
	if err != nil {
		serverError(w, r, "view table", err)
		return
	}

	res := dto.TableResponse{
		Exists: view.Exists,
		Rows:   make([]dto.SubmissionResponse, 0, len(view.Rows)),
	}
	if !view.Exists {
		res.Message = services.NoDataMessage
	}
	for _, s := range view.Rows {
		res.Rows = append(res.Rows, toSubmissionResponse(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// GeoJSON returns every submission as a point feature. An absent table is an
// empty collection.
func (h *SubmissionHandler) GeoJSON(w http.ResponseWriter, r *http.Request) {
	view, err := services.ViewTable(r.Context(), h.Repo)
	if err != nil {
		serverError(w, r, "view table", err)
		return
	}

	fc := submissionsToFeatures(view.Rows)
	b, err := json.Marshal(fc)
	if err != nil {
		serverError(w, r, "encode geojson", err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(b); err != nil {
		zap.L().Warn("write geojson", zap.Error(err))
	}
}

func submissionsToFeatures(rows []domain.Submission) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range rows {
		if !s.Coords.Finite() {
			continue
		}
		ll := s.Coords.CoordsToList()
		f := geojson.NewFeature(orb.Point{ll[0], ll[1]})
		f.Properties["data"] = s.Timestamp()
		f.Properties["nome"] = s.Name
		f.Properties["resposta"] = s.Answer
		f.Properties["popup"] = popupHTML(s)
		fc.Append(f)
	}
	return fc
}
