package gofpdf

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"

	"iq-home/estimate/internal/domain/estimate"
)

const (
	utf8Family = "DejaVu"
	coreFamily = "Helvetica"

	closingNote = "Looking forward for your business."
	termsTitle  = "Terms & Conditions"
	termsLink   = "Click here to view full Terms & Conditions"
	termsNone   = "No Terms & Conditions URL provided."
)

// Column widths of the item table in mm; they add up to the A4 text width.
var columns = []struct {
	title string
	width float64
	align string
}{
	{"#", 10, "C"},
	{"Item", 42, "L"},
	{"Desc", 58, "L"},
	{"Qty", 20, "R"},
	{"Rate", 30, "R"},
	{"Amount", 30, "R"},
}

type Generator struct {
	fontDir  string
	log      zerolog.Logger
	compress bool
}

// New returns a generator. With an empty fontDir the core Helvetica font is
// used and the rupee glyph is spelled "Rs.".
func New(fontDir string, log zerolog.Logger) *Generator {
	return &Generator{fontDir: fontDir, log: log, compress: true}
}

// SetCompression toggles deflate of page content streams.
func (g *Generator) SetCompression(on bool) { g.compress = on }

type page struct {
	*gofpdf.Fpdf
	family string
	text   func(string) string
}

func (g *Generator) newPage() (*page, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Project Estimate", true)
	pdf.SetCompression(g.compress)
	p := &page{Fpdf: pdf}

	if g.fontDir != "" {
		regular := filepath.Join(g.fontDir, "DejaVuSans.ttf")
		bold := filepath.Join(g.fontDir, "DejaVuSans-Bold.ttf")
		g.log.Debug().Str("regular", regular).Str("bold", bold).Msg("estimate pdf: load fonts")
		pdf.AddUTF8Font(utf8Family, "", regular)
		pdf.AddUTF8Font(utf8Family, "B", bold)
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("load fonts: %w", err)
		}
		p.family = utf8Family
		p.text = func(s string) string { return s }
		return p, nil
	}

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	p.family = coreFamily
	p.text = func(s string) string {
		return tr(strings.ReplaceAll(s, string(estimate.CurrencyINR), "Rs."))
	}
	return p, nil
}

func (p *page) line(style string, size, h float64, s string) {
	p.SetFont(p.family, style, size)
	p.CellFormat(0, h, p.text(s), "", 1, "L", false, 0, "")
}

func (g *Generator) Generate(doc estimate.Document, totals estimate.Totals) ([]byte, error) {
	p, err := g.newPage()
	if err != nil {
		return nil, err
	}

	g.summaryPage(p, doc, totals)
	g.termsPage(p, doc.TermsURL)

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		g.log.Error().Err(err).Msg("estimate pdf: output failed")
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) summaryPage(p *page, doc estimate.Document, totals estimate.Totals) {
	cur := doc.Currency
	p.AddPage()

	p.line("B", 16, 10, "Project Estimate")
	p.Ln(2)
	p.line("", 11, 6, "Shared By: "+doc.SharedBy)
	p.line("", 11, 6, "Date: "+doc.Date)
	p.line("", 11, 6, "Bill To: "+doc.CustomerName)
	p.line("", 11, 6, "Project: "+doc.ProjectName)
	p.line("", 11, 6, "Subject: "+doc.Subject)
	p.Ln(4)

	p.SetFont(p.family, "B", 10)
	p.SetFillColor(235, 235, 235)
	for _, c := range columns {
		p.CellFormat(c.width, 7, p.text(c.title), "1", 0, "C", true, 0, "")
	}
	p.Ln(-1)

	p.SetFont(p.family, "", 10)
	for i, it := range doc.Items {
		cells := []string{
			fmt.Sprintf("%d", i+1),
			trim(it.Category, 24),
			trim(it.Description, 34),
			it.Quantity.String(),
			estimate.Money(cur, it.UnitPrice),
			estimate.Money(cur, it.LineTotal()),
		}
		for j, c := range columns {
			p.CellFormat(c.width, 6, p.text(cells[j]), "1", 0, c.align, false, 0, "")
		}
		p.Ln(-1)
	}

	p.Ln(4)
	p.line("", 11, 6, "Subtotal: "+estimate.Money(cur, totals.Subtotal))
	p.line("", 11, 6, "Discount: -"+estimate.Money(cur, totals.DiscountAmount))
	for _, t := range totals.Taxes {
		p.line("", 11, 6, t.Label+": +"+estimate.Money(cur, t.Amount))
	}
	p.Ln(1)
	p.line("B", 13, 8, "Total: "+estimate.Money(cur, totals.GrandTotal))
	p.line("", 11, 6, "In Words: "+totals.InWords)
	p.Ln(4)
	p.line("", 11, 6, "Notes:")
	p.line("", 11, 6, closingNote)
}

func (g *Generator) termsPage(p *page, url string) {
	p.AddPage()
	p.line("", 14, 10, termsTitle)
	p.SetFont(p.family, "", 12)
	if url == "" {
		p.CellFormat(0, 8, p.text(termsNone), "", 1, "L", false, 0, "")
		return
	}
	p.SetTextColor(0, 0, 255)
	p.CellFormat(0, 8, p.text(termsLink), "", 1, "L", false, 0, url)
	p.SetTextColor(0, 0, 0)
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
