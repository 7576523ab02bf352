package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"iq-home/estimate/internal/app/config"
	apphttp "iq-home/estimate/internal/app/http"
	"iq-home/estimate/internal/app/http/handlers"
	"iq-home/estimate/internal/domain/estimate"
	"iq-home/estimate/internal/domain/estimate/pdf"
	pdfgen "iq-home/estimate/internal/domain/estimate/pdf/gofpdf"
	"iq-home/estimate/internal/domain/estimate/session"
	"iq-home/estimate/internal/obs"
)

type failingGenerator struct{}

func (failingGenerator) Generate(estimate.Document, estimate.Totals) ([]byte, error) {
	return nil, errors.New("renderer crashed")
}

type fixture struct {
	srv     http.Handler
	metrics *obs.Metrics
	reg     *prometheus.Registry
}

func newFixture(t *testing.T, cfg config.Config, gen pdf.Generator) fixture {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := obs.NewMetrics("test", reg)
	store := session.NewStore(time.Hour)
	store.OnChange = func(n int) { m.LiveSessions.Set(float64(n)) }
	if gen == nil {
		gen = pdfgen.New("", zerolog.Nop())
	}
	h := handlers.New(handlers.Deps{
		Generator: gen,
		Sessions:  store,
		Metrics:   m,
		Log:       zerolog.Nop(),
	})
	return fixture{srv: apphttp.NewRouter(cfg, h, reg), metrics: m, reg: reg}
}

func (f fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	f.srv.ServeHTTP(rr, req)
	return rr
}

type viewResponse struct {
	ID       string `json:"id"`
	Index    *int   `json:"index"`
	Document struct {
		CustomerName string `json:"customer_name"`
		Currency     string `json:"currency"`
		Items        []struct {
			Category    string `json:"category"`
			Description string `json:"description"`
			Quantity    string `json:"quantity"`
			UnitPrice   string `json:"unit_price"`
		} `json:"items"`
	} `json:"document"`
	Totals struct {
		Subtotal       string `json:"subtotal"`
		DiscountAmount string `json:"discount_amount"`
		TaxableBase    string `json:"taxable_base"`
		Taxes          []struct {
			Label  string `json:"label"`
			Amount string `json:"amount"`
		} `json:"taxes"`
		GrandTotal string `json:"grand_total"`
		InWords    string `json:"in_words"`
	} `json:"totals"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t, config.Config{}, nil)
	rr := f.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "ok", rr.Body.String())

	f.do(t, http.MethodPost, "/v1/sessions", "")
	rr = f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "test_live_sessions 1")
}

func TestListTemplates(t *testing.T) {
	f := newFixture(t, config.Config{}, nil)
	rr := f.do(t, http.MethodGet, "/v1/templates", "")
	require.Equal(t, http.StatusOK, rr.Code)

	body := decodeBody[struct {
		Categories []string `json:"categories"`
		CustomHint string   `json:"custom_hint"`
		Currencies []string `json:"currencies"`
	}](t, rr)
	require.Len(t, body.Categories, 6)
	require.Equal(t, estimate.CustomItem, body.Categories[5])
	require.Equal(t, "Add Details here", body.CustomHint)
	require.Equal(t, []string{"₹", "$", "€"}, body.Currencies)
}

func TestDeriveEstimate(t *testing.T) {
	f := newFixture(t, config.Config{}, nil)
	rr := f.do(t, http.MethodPost, "/v1/estimates/derive", `{
		"items": [{"category": "Tech Pack", "description": "Detailed production tech pack", "quantity": 1, "unit_price": 2000}],
		"discount": {"kind": "%", "value": 10},
		"taxes": [{"label": "GST", "kind": "percent", "value": 18}]
	}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	v := decodeBody[viewResponse](t, rr)
	require.Equal(t, "₹", v.Document.Currency)
	require.Equal(t, "2000", v.Totals.Subtotal)
	require.Equal(t, "200", v.Totals.DiscountAmount)
	require.Equal(t, "1800", v.Totals.TaxableBase)
	require.Equal(t, "324", v.Totals.Taxes[0].Amount)
	require.Equal(t, "2124", v.Totals.GrandTotal)
	require.Equal(t, "₹2,124", v.Totals.InWords)
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Derivations))
}

func TestDeriveEstimateRejectsBadInput(t *testing.T) {
	f := newFixture(t, config.Config{}, nil)

	rr := f.do(t, http.MethodPost, "/v1/estimates/derive", `{"currency": "£"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Equal(t, "validation_failed", decodeBody[errorResponse](t, rr).Error.Code)

	rr = f.do(t, http.MethodPost, "/v1/estimates/derive", `{"items": [{"quantity": "lots"}]}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(t, http.MethodPost, "/v1/estimates/derive", `{"discount": {"kind": "ratio"}}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestExportEstimate(t *testing.T) {
	f := newFixture(t, config.Config{}, nil)
	rr := f.do(t, http.MethodPost, "/v1/estimates/export", `{
		"customer_name": "Asha",
		"currency": "$",
		"terms_url": "https://example.com/terms",
		"items": [{"category": "Tech Pack", "quantity": 2, "unit_price": 2000}]
	}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	require.Equal(t, `attachment; filename=Estimate-Asha.pdf`, rr.Header().Get("Content-Disposition"))

	n, err := pdf.PageCount(rr.Body.Bytes())
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Exports.WithLabelValues("document", "ok")))
}

func TestExportFailureIsReported(t *testing.T) {
	f := newFixture(t, config.Config{}, failingGenerator{})
	rr := f.do(t, http.MethodPost, "/v1/estimates/export", `{}`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "export_failed", decodeBody[errorResponse](t, rr).Error.Code)
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Exports.WithLabelValues("document", "error")))
}

func TestSessionFlow(t *testing.T) {
	f := newFixture(t, config.Config{}, nil)

	rr := f.do(t, http.MethodPost, "/v1/sessions", "")
	require.Equal(t, http.StatusCreated, rr.Code)
	id := decodeBody[viewResponse](t, rr).ID
	base := "/v1/sessions/" + id

	rr = f.do(t, http.MethodPatch, base, `{"customer_name": "Asha", "currency": "€"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Equal(t, "€", decodeBody[viewResponse](t, rr).Document.Currency)

	rr = f.do(t, http.MethodPost, base+"/items", "")
	require.Equal(t, http.StatusCreated, rr.Code)
	v := decodeBody[viewResponse](t, rr)
	require.NotNil(t, v.Index)
	require.Equal(t, 0, *v.Index)
	require.Equal(t, "1", v.Document.Items[0].Quantity)

	rr = f.do(t, http.MethodPatch, base+"/items/0", `{"field": "quantity", "value": 4}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = f.do(t, http.MethodPatch, base+"/items/0", `{"field": "category", "value": "Tech Pack"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	v = decodeBody[viewResponse](t, rr)
	require.Equal(t, "Detailed production tech pack", v.Document.Items[0].Description)
	require.Equal(t, "1", v.Document.Items[0].Quantity)
	require.Equal(t, "2000", v.Totals.Subtotal)

	rr = f.do(t, http.MethodPut, base+"/discount", `{"kind": "percent", "value": 10}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Equal(t, "1800", decodeBody[viewResponse](t, rr).Totals.TaxableBase)

	rr = f.do(t, http.MethodPost, base+"/taxes", "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	v = decodeBody[viewResponse](t, rr)
	require.Equal(t, "New", v.Totals.Taxes[0].Label)
	require.Equal(t, "0", v.Totals.Taxes[0].Amount)
	require.Equal(t, "0", v.Totals.Taxes[0].Amount)

	rr = f.do(t, http.MethodPatch, base+"/taxes/0", `{"field": "label", "value": "GST"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = f.do(t, http.MethodPatch, base+"/taxes/0", `{"field": "value", "value": "18"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	v = decodeBody[viewResponse](t, rr)
	require.Equal(t, "GST", v.Totals.Taxes[0].Label)
	require.Equal(t, "324", v.Totals.Taxes[0].Amount)
	require.Equal(t, "2124", v.Totals.GrandTotal)

	rr = f.do(t, http.MethodGet, base+"/export", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF-")))
	require.Equal(t, `attachment; filename=Estimate-Asha.pdf`, rr.Header().Get("Content-Disposition"))

	rr = f.do(t, http.MethodDelete, base, "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	rr = f.do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, 0.0, testutil.ToFloat64(f.metrics.LiveSessions))
}

func TestSessionEditErrors(t *testing.T) {
	f := newFixture(t, config.Config{}, nil)
	id := decodeBody[viewResponse](t, f.do(t, http.MethodPost, "/v1/sessions", "")).ID
	base := "/v1/sessions/" + id
	f.do(t, http.MethodPost, base+"/items", "")
	f.do(t, http.MethodPatch, base+"/items/0", `{"field": "unit_price", "value": "150"}`)

	rr := f.do(t, http.MethodPatch, base+"/items/0", `{"field": "unit_price", "value": "abc"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Equal(t, "invalid_input", decodeBody[errorResponse](t, rr).Error.Code)

	v := decodeBody[viewResponse](t, f.do(t, http.MethodGet, base, ""))
	require.Equal(t, "150", v.Document.Items[0].UnitPrice)

	rr = f.do(t, http.MethodPatch, base+"/items/7", `{"field": "description", "value": "x"}`)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "row_not_found", decodeBody[errorResponse](t, rr).Error.Code)

	rr = f.do(t, http.MethodPatch, base+"/items/first", `{"field": "description", "value": "x"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(t, http.MethodPatch, base+"/items/0", `{"field": "line_total", "value": "1"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Equal(t, "validation_failed", decodeBody[errorResponse](t, rr).Error.Code)

	rr = f.do(t, http.MethodPatch, base, `{"currency": "£"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = f.do(t, http.MethodPut, base+"/discount", `{"value": 5}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = f.do(t, http.MethodGet, "/v1/sessions/nope", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "session_not_found", decodeBody[errorResponse](t, rr).Error.Code)
}

func TestInternalToken(t *testing.T) {
	f := newFixture(t, config.Config{InternalToken: "s3cret"}, nil)
	rr := f.do(t, http.MethodGet, "/v1/templates", "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/templates", nil)
	req.Header.Set("X-Internal-Token", "s3cret")
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/health", "").Code)
}

func TestAddTaxWithChunkedEmptyBodyUsesDefaults(t *testing.T) {
	f := newFixture(t, config.Config{}, nil)
	id := decodeBody[viewResponse](t, f.do(t, http.MethodPost, "/v1/sessions", "")).ID

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+id+"/taxes", io.NopCloser(strings.NewReader("")))
	req.ContentLength = -1
	rr := httptest.NewRecorder()
	f.srv.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	v := decodeBody[viewResponse](t, rr)
	require.Len(t, v.Totals.Taxes, 1)
	require.Equal(t, "New", v.Totals.Taxes[0].Label)
	require.Equal(t, "0", v.Totals.Taxes[0].Amount)

	rr = f.do(t, http.MethodPost, "/v1/sessions/"+id+"/taxes", `{"label": "GST", "kind": "%", "value": 18}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.Equal(t, "GST", decodeBody[viewResponse](t, rr).Totals.Taxes[1].Label)

	rr = f.do(t, http.MethodPost, "/v1/sessions/"+id+"/taxes", `{"label": `)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
