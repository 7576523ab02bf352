package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"iq-home/estimate/internal/domain/estimate"
	"iq-home/estimate/internal/domain/estimate/session"
	"iq-home/estimate/internal/obs"
)

// fieldValue accepts a JSON string or number.
type fieldValue string

func (v *fieldValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = fieldValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("value must be a string or number")
	}
	*v = fieldValue(n.String())
	return nil
}

type itemFieldRequest struct {
	Field string     `json:"field" validate:"required,oneof=category description quantity unit_price"`
	Value fieldValue `json:"value"`
}

type taxFieldRequest struct {
	Field string     `json:"field" validate:"required,oneof=label kind value"`
	Value fieldValue `json:"value"`
}

type discountRequest struct {
	Kind  estimate.Kind   `json:"kind" validate:"required,oneof=percent flat"`
	Value decimal.Decimal `json:"value"`
}

type addTaxRequest struct {
	Label *string         `json:"label"`
	Kind  estimate.Kind   `json:"kind" validate:"omitempty,oneof=percent flat"`
	Value decimal.Decimal `json:"value"`
}

type indexResponse struct {
	Index int `json:"index"`
	session.View
}

func (h *Handlers) record(op string, err error) {
	if h.Metrics != nil {
		h.Metrics.SessionOps.WithLabelValues(op, obs.Result(err)).Inc()
	}
}

func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	v := h.Sessions.Create()
	h.record("create", nil)
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	v, err := h.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	err := h.Sessions.Delete(chi.URLParam(r, "id"))
	h.record("delete", err)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// update runs fn on the session named in the URL and writes the new view.
func (h *Handlers) update(w http.ResponseWriter, r *http.Request, op string, status int, fn func(*estimate.Document) (int, error)) {
	idx := -1
	v, err := h.Sessions.Update(chi.URLParam(r, "id"), func(d *estimate.Document) error {
		var err error
		idx, err = fn(d)
		return err
	})
	h.record(op, err)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if idx >= 0 {
		writeJSON(w, status, indexResponse{Index: idx, View: v})
		return
	}
	writeJSON(w, status, v)
}

func (h *Handlers) UpdateHeader(w http.ResponseWriter, r *http.Request) {
	var req estimate.Header
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.update(w, r, "header", http.StatusOK, func(d *estimate.Document) (int, error) {
		return -1, d.ApplyHeader(req)
	})
}

func (h *Handlers) AddItem(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, "add_item", http.StatusCreated, func(d *estimate.Document) (int, error) {
		return d.AddItem(), nil
	})
}

func (h *Handlers) UpdateItem(w http.ResponseWriter, r *http.Request) {
	idx, err := rowIndex(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req itemFieldRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.update(w, r, "update_item", http.StatusOK, func(d *estimate.Document) (int, error) {
		return -1, d.SetItemField(h.Catalog, idx, req.Field, string(req.Value))
	})
}

func (h *Handlers) SetDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.update(w, r, "discount", http.StatusOK, func(d *estimate.Document) (int, error) {
		return -1, d.SetDiscount(req.Kind, req.Value)
	})
}

func (h *Handlers) AddTax(w http.ResponseWriter, r *http.Request) {
	req := addTaxRequest{}
	if err := decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.fail(w, r, err)
		return
	}
	label := "New"
	if req.Label != nil {
		label = *req.Label
	}
	kind := req.Kind
	if kind == "" {
		kind = estimate.KindPercent
	}
	h.update(w, r, "add_tax", http.StatusCreated, func(d *estimate.Document) (int, error) {
		return d.AddTax(label, kind, req.Value)
	})
}

func (h *Handlers) UpdateTax(w http.ResponseWriter, r *http.Request) {
	idx, err := rowIndex(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req taxFieldRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.update(w, r, "update_tax", http.StatusOK, func(d *estimate.Document) (int, error) {
		return -1, d.SetTaxField(idx, req.Field, string(req.Value))
	})
}

func (h *Handlers) ExportSession(w http.ResponseWriter, r *http.Request) {
	v, err := h.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.export(w, r, "session", v.Document, v.Totals)
}

func rowIndex(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &AppError{Code: "bad_request", Message: fmt.Sprintf("row index %q is not a number", raw), Status: http.StatusBadRequest, Err: err}
	}
	return idx, nil
}
