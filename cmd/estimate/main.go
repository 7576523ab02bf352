// Command estimate renders an estimate document described in JSON to a PDF
// without running the HTTP service.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"iq-home/estimate/internal/domain/estimate"
	"iq-home/estimate/internal/domain/estimate/pdf"
	pdfgen "iq-home/estimate/internal/domain/estimate/pdf/gofpdf"
	"iq-home/estimate/internal/obs"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "estimate:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("estimate", flag.ContinueOnError)
	in := fs.String("in", "-", "estimate JSON file, - for stdin")
	out := fs.String("out", ".", "directory the PDF is written to")
	fonts := fs.String("fonts", os.Getenv("FONT_DIR"), "directory with DejaVuSans.ttf and DejaVuSans-Bold.ttf")
	logFormat := fs.String("log-format", "console", "json or console")
	noPDF := fs.Bool("totals-only", false, "print totals and skip rendering")
	if err := fs.Parse(args); err != nil {
		return err
	}
	log := obs.NewLoggerTo(os.Stderr, *logFormat, "info")

	doc, err := readDocument(*in, stdin)
	if err != nil {
		return err
	}
	totals := doc.Derive()

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(totals); err != nil {
		return err
	}
	if *noPDF {
		return nil
	}

	return export(doc.Snapshot(), totals, *out, pdfgen.New(*fonts, log), log)
}

func readDocument(path string, stdin io.Reader) (*estimate.Document, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var doc estimate.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	doc.Normalize()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func export(doc estimate.Document, totals estimate.Totals, dir string, gen pdf.Generator, log zerolog.Logger) error {
	data, err := gen.Generate(doc, totals)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	path := filepath.Join(dir, pdf.FileName(doc.CustomerName))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	pages, err := pdf.PageCount(data)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", path, err)
	}
	log.Info().Str("file", path).Int("pages", pages).Int("bytes", len(data)).Msg("estimate written")
	return nil
}
