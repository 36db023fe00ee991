package handlers

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"geo-form-service/internal/domain"
	"geo-form-service/internal/platform/obs"
	"geo-form-service/internal/ports"
	"geo-form-service/internal/services"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// PageTitle is the heading of the form page.
const PageTitle = "📍 Coleta de Localização e Respostas"

//go:embed templates/page.html
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// FormHandler serves the single-page form for browsers without relying on
// script: every action is also a plain form post.
type FormHandler struct {
	Store   ports.SessionStore
	Repo    ports.SubmissionRepository
	Default domain.Coordinates
	Zoom    int
	TileURL string
}

type rowView struct {
	CreatedAt string
	Name      string
	Answer    string
	Lat       string
	Lon       string
}

type pageData struct {
	Title     string
	Lat       float64
	Lon       float64
	LatText   string
	LonText   string
	Zoom      int
	TileURL   string
	Status    string
	Preview   domain.MapView
	Flash     string
	FlashKind string
	Balloons  bool
	Name      string
	Answer    string
	ShowTable bool
	Table     services.TableView
	Rows      []rowView
	NoData    string
}

// Page renders the form. ?ver_dados=1 also shows the collected table.
func (h *FormHandler) Page(w http.ResponseWriter, r *http.Request) {
	sess, err := services.CurrentLocation(r.Context(), h.Store, SessionID(r.Context()), h.Default)
	if err != nil {
		h.pageError(w, r, "current location", err)
		return
	}

	h.render(w, r, http.StatusOK, sess, pageData{})
}

// SetLocation applies the numeric fields as a manual edit and redirects back.
func (h *FormHandler) SetLocation(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	id := SessionID(ctx)

	ev, err := manualEventFromForm(r)
	if err != nil {
		sess, lerr := services.CurrentLocation(ctx, h.Store, id, h.Default)
		if lerr != nil {
			h.pageError(w, r, "current location", lerr)
			return
		}
		h.render(w, r, http.StatusUnprocessableEntity, sess, pageData{
			Flash:     MsgInvalidCoord,
			FlashKind: "error",
			LatText:   r.PostFormValue("latitude"),
			LonText:   r.PostFormValue("longitude"),
		})
		return
	}

	if _, _, err := services.ApplyLocation(ctx, h.Store, id, h.Default, ev); err != nil {
		h.pageError(w, r, "apply location", err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Submit records the form. The page is rendered again with the outcome.
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	id := SessionID(ctx)
	name := r.PostFormValue("nome")
	answer := r.PostFormValue("resposta")

	sess, err := services.CurrentLocation(ctx, h.Store, id, h.Default)
	if err != nil {
		h.pageError(w, r, "current location", err)
		return
	}

	req := services.RecordSubmissionRequest{
		SessionID: id,
		Name:      name,
		Answer:    answer,
		Default:   h.Default,
	}

	// The fields are rendered at six decimals. Only a changed value counts as
	// an edit, so an exact clicked value is not rounded on submit.
	if fieldsEdited(r, sess.Location.Current) {
		ev, err := manualEventFromForm(r)
		if err != nil {
			h.render(w, r, http.StatusUnprocessableEntity, sess, pageData{
				Flash:     MsgInvalidCoord,
				FlashKind: "error",
				Name:      name,
				Answer:    answer,
			})
			return
		}
		req.Coords = &ev.Coords
		req.Seq = ev.Seq
	}

	_, sess, err = services.RecordSubmission(ctx, req, h.Store, h.Repo)
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		if sess.ID == "" {
			sess, _ = services.CurrentLocation(ctx, h.Store, id, h.Default)
		}
		h.render(w, r, http.StatusUnprocessableEntity, sess, pageData{
			Flash:     MsgNameRequired,
			FlashKind: "error",
			Name:      name,
			Answer:    answer,
		})
		return
	case err != nil:
		h.pageError(w, r, "record submission", err)
		return
	}

	h.render(w, r, http.StatusOK, sess, pageData{
		Flash:     MsgSubmitted,
		FlashKind: "success",
		Balloons:  true,
	})
}

func (h *FormHandler) render(w http.ResponseWriter, r *http.Request, status int, sess domain.Session, data pageData) {
	loc := sess.Location
	data.Title = PageTitle
	data.Lat = loc.Current.Lat
	data.Lon = loc.Current.Lon
	data.Zoom = loc.Preview(h.Zoom).Zoom
	data.TileURL = h.TileURL
	data.Status = statusMessage(loc)
	data.Preview = loc.Preview(h.Zoom)
	data.NoData = services.NoDataMessage
	if data.LatText == "" {
		data.LatText = formatField(loc.Current.Lat)
	}
	if data.LonText == "" {
		data.LonText = formatField(loc.Current.Lon)
	}

	data.ShowTable = r.URL.Query().Get("ver_dados") == "1"
	if data.ShowTable {
		view, err := services.ViewTable(r.Context(), h.Repo)
		if err != nil {
			h.pageError(w, r, "view table", err)
			return
		}
		data.Table = view
		data.Rows = make([]rowView, 0, len(view.Rows))
		for _, s := range view.Rows {
			data.Rows = append(data.Rows, rowView{
				CreatedAt: s.Timestamp(),
				Name:      s.Name,
				Answer:    s.Answer,
				Lat:       strconv.FormatFloat(s.Coords.Lat, 'f', -1, 64),
				Lon:       strconv.FormatFloat(s.Coords.Lon, 'f', -1, 64),
			})
		}
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		h.pageError(w, r, "render page", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		zap.L().Warn("write page", zap.Error(err))
	}
}

func (h *FormHandler) pageError(w http.ResponseWriter, r *http.Request, op string, err error) {
	zap.L().Error(op+" failed",
		zap.String("req_id", obs.RequestID(r.Context())),
		zap.Error(err),
	)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func formatField(v float64) string {
	return fmt.Sprintf("%.6f", v)
}

// parseField reads a decimal number, accepting a comma as the separator.
func parseField(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidCoordinate, s)
	}
	return v, nil
}

func fieldsEdited(r *http.Request, cur domain.Coordinates) bool {
	lat := strings.TrimSpace(r.PostFormValue("latitude"))
	lon := strings.TrimSpace(r.PostFormValue("longitude"))
	if lat == "" && lon == "" {
		return false
	}
	return lat != formatField(cur.Lat) || lon != formatField(cur.Lon)
}

func manualEventFromForm(r *http.Request) (domain.LocationEvent, error) {
	lat, err := parseField(r.PostFormValue("latitude"))
	if err != nil {
		return domain.LocationEvent{}, err
	}
	lon, err := parseField(r.PostFormValue("longitude"))
	if err != nil {
		return domain.LocationEvent{}, err
	}

	seq, _ := strconv.ParseInt(r.PostFormValue("seq"), 10, 64)
	if seq < 0 {
		seq = 0
	}

	return domain.NewManualEvent(lat, lon, seq)
}
