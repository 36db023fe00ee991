package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"geo-form-service/internal/api/dto"
	"geo-form-service/internal/domain"
	"geo-form-service/internal/platform/obs"
	"html"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const maxBodyBytes = 64 * 1024

// User-facing messages.
const (
	MsgSubmitted    = "Dados enviados com sucesso!"
	MsgNameRequired = "Por favor, preencha o nome."
	MsgNoClick      = "Clique no mapa para definir o pino."
	MsgInvalidCoord = "Coordenadas inválidas."
)

var (
	validate *validator.Validate
	trans    ut.Translator
	popups   = bluemonday.UGCPolicy()
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// serverError logs err and answers with a generic 500.
func serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	zap.L().Error(op+" failed",
		zap.String("req_id", obs.RequestID(r.Context())),
		zap.Error(err),
	)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

// decodeJSON reads a single JSON object into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	if err := validate.Struct(dst); err != nil {
		msgs := []string{}
		for _, e := range translateError(err) {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("validation error: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func translateError(err error) (errs []error) {
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}

// popupHTML renders a submission as the HTML body of a map popup. User text
// is escaped, so it shows exactly as typed; the policy bounds the markup the
// browser will interpret.
func popupHTML(s domain.Submission) string {
	answer := strings.ReplaceAll(html.EscapeString(s.Answer), "\n", "<br>")
	return popups.Sanitize("<strong>" + html.EscapeString(s.Name) + "</strong><br>" + answer)
}

func toSubmissionResponse(s domain.Submission) dto.SubmissionResponse {
	return dto.SubmissionResponse{
		CreatedAt: s.Timestamp(),
		Name:      s.Name,
		Answer:    s.Answer,
		Lat:       s.Coords.Lat,
		Lon:       s.Coords.Lon,
	}
}
