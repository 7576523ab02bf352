package handlers

import (
	"net/http"

	"iq-home/estimate/internal/domain/estimate"
	"iq-home/estimate/internal/domain/estimate/pdf"
	"iq-home/estimate/internal/obs"
)

type deriveResponse struct {
	Document estimate.Document `json:"document"`
	Totals   estimate.Totals   `json:"totals"`
}

// DeriveEstimate returns the totals of a posted document.
func (h *Handlers) DeriveEstimate(w http.ResponseWriter, r *http.Request) {
	var doc estimate.Document
	if err := decode(r, &doc); err != nil {
		h.fail(w, r, err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.Derivations.Inc()
	}
	writeJSON(w, http.StatusOK, deriveResponse{Document: doc.Snapshot(), Totals: doc.Derive()})
}

// ExportEstimate renders a posted document as a PDF attachment.
func (h *Handlers) ExportEstimate(w http.ResponseWriter, r *http.Request) {
	var doc estimate.Document
	if err := decode(r, &doc); err != nil {
		h.fail(w, r, err)
		return
	}
	h.export(w, r, "document", doc.Snapshot(), doc.Derive())
}

func (h *Handlers) export(w http.ResponseWriter, r *http.Request, source string, doc estimate.Document, totals estimate.Totals) {
	data, err := h.Generator.Generate(doc, totals)
	if h.Metrics != nil {
		h.Metrics.Exports.WithLabelValues(source, obs.Result(err)).Inc()
	}
	if err != nil {
		h.fail(w, r, &AppError{Code: "export_failed", Message: "pdf generation failed", Status: http.StatusInternalServerError, Err: err})
		return
	}
	name := pdf.FileName(doc.CustomerName)
	h.Log.Info().Str("file", name).Int("bytes", len(data)).Int("items", len(doc.Items)).Msg("estimate exported")
	writePDF(w, name, data)
}
