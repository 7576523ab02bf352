package handlers

import (
	"net/http"

	"iq-home/estimate/internal/domain/estimate"
)

type templatesResponse struct {
	Templates  []estimate.Template `json:"templates"`
	Categories []string            `json:"categories"`
	CustomHint string              `json:"custom_hint"`
	Currencies []estimate.Currency `json:"currencies"`
}

func (h *Handlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, templatesResponse{
		Templates:  h.Catalog.Templates(),
		Categories: h.Catalog.Names(),
		CustomHint: estimate.CustomItemHint,
		Currencies: estimate.Currencies,
	})
}
