package pdf

import (
	"bytes"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"iq-home/estimate/internal/domain/estimate"
)

type Generator interface {
	Generate(doc estimate.Document, totals estimate.Totals) ([]byte, error)
}

const unnamed = "unnamed"

func init() {
	api.DisableConfigDir()
}

// FileName names the exported artifact after the customer.
func FileName(customer string) string {
	name := strings.TrimSpace(customer)
	if name == "" {
		name = unnamed
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', '\r', '\n':
			return '_'
		}
		return r
	}, name)
	return "Estimate-" + name + ".pdf"
}

// PageCount reads a rendered document back and returns its number of pages.
func PageCount(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.PageCount(bytes.NewReader(data), conf)
}
