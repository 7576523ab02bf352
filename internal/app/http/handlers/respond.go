package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/go-playground/validator/v10"

	"iq-home/estimate/internal/domain/estimate"
	"iq-home/estimate/internal/domain/estimate/session"
)

var validate = validator.New()

// AppError is an error with the code and status it is reported with.
type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst); err != nil {
		return &AppError{Code: "bad_request", Message: "invalid request body", Status: http.StatusBadRequest, Err: err}
	}
	if n, ok := dst.(interface{ Normalize() }); ok {
		n.Normalize()
	}
	if err := validate.Struct(dst); err != nil {
		var inv *validator.InvalidValidationError
		if errors.As(err, &inv) {
			return nil
		}
		return err
	}
	return nil
}

func toAppError(err error) *AppError {
	var app *AppError
	if errors.As(err, &app) {
		return app
	}
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return &AppError{Code: "validation_failed", Message: verrs.Error(), Status: http.StatusUnprocessableEntity, Err: err}
	case errors.Is(err, session.ErrNotFound):
		return &AppError{Code: "session_not_found", Message: err.Error(), Status: http.StatusNotFound, Err: err}
	case errors.Is(err, estimate.ErrItemIndex), errors.Is(err, estimate.ErrTaxIndex):
		return &AppError{Code: "row_not_found", Message: err.Error(), Status: http.StatusNotFound, Err: err}
	case errors.Is(err, estimate.ErrInvalidNumber),
		errors.Is(err, estimate.ErrInvalidKind),
		errors.Is(err, estimate.ErrInvalidCurrency),
		errors.Is(err, estimate.ErrUnknownField):
		return &AppError{Code: "invalid_input", Message: err.Error(), Status: http.StatusUnprocessableEntity, Err: err}
	}
	return &AppError{Code: "internal", Message: "internal error", Status: http.StatusInternalServerError, Err: err}
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	app := toAppError(err)
	if app.Status >= http.StatusInternalServerError {
		h.Log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, app.Status, map[string]errorBody{
		"error": {Code: app.Code, Message: app.Message},
	})
}

func writePDF(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
