package loader

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts native text per page using the pdf library.
// A page whose text layer cannot be decoded yields an empty string so
// the loader can fall back to OCR for that page alone.
type PDFExtractor struct{}

func (PDFExtractor) Pages(data []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	n := reader.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}

	return pages, nil
}
