package service

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PageExtractor pulls per-page text out of an uploaded file.
type PageExtractor interface {
	ExtractPages(path string) ([]string, error)
}

// PDFExtractor reads PDF files from local storage.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

func (e *PDFExtractor) ExtractPages(path string) ([]string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d of %s: %w", i, path, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
