package loader

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"coursecal/internal/domain"
)

const (
	nativeConfidence = 1.0
	ocrConfidence    = 0.6
)

// TextExtractor produces per-page native text from raw document bytes.
type TextExtractor interface {
	Pages(data []byte) ([]string, error)
}

// Recognizer is the optical character recognition capability. It may
// be unavailable, in which case the loader degrades to empty text for
// the affected pages rather than failing the document.
type Recognizer interface {
	RecognizePage(ctx context.Context, doc []byte, page int) (string, error)
}

// Config holds loader tuning knobs.
type Config struct {
	// MinPageChars is the visible-character threshold below which a
	// page's native text is considered insufficient and OCR runs.
	MinPageChars int
	// OCRWorkers bounds concurrent OCR calls.
	OCRWorkers int
}

// Loader turns an uploaded PDF into page-level text, falling back to
// OCR per page when native extraction yields too little.
type Loader struct {
	extractor    TextExtractor
	ocr          Recognizer
	minPageChars int
	ocrWorkers   int
	logger       *slog.Logger
}

// New creates a Loader. ocr may be nil when no OCR capability is
// configured.
func New(extractor TextExtractor, ocr Recognizer, cfg Config, logger *slog.Logger) *Loader {
	if cfg.MinPageChars <= 0 {
		cfg.MinPageChars = 20
	}
	if cfg.OCRWorkers <= 0 {
		cfg.OCRWorkers = 4
	}
	return &Loader{
		extractor:    extractor,
		ocr:          ocr,
		minPageChars: cfg.MinPageChars,
		ocrWorkers:   cfg.OCRWorkers,
		logger:       logger.With("component", "loader"),
	}
}

var pdfMediaTypes = map[string]bool{
	"application/pdf":   true,
	"application/x-pdf": true,
}

// Load extracts text for every page of the document, in page order.
// It fails with domain.ErrUnsupportedFormat if the declared media type
// is not PDF-compatible or the document cannot be opened, and with
// domain.ErrEmptyDocument when zero pages are present. One page's OCR
// failure never blocks the others.
func (l *Loader) Load(ctx context.Context, data []byte, mediaType string) ([]domain.PageText, error) {
	if !pdfMediaTypes[normalizeMediaType(mediaType)] {
		return nil, fmt.Errorf("%w: declared media type %q", domain.ErrUnsupportedFormat, mediaType)
	}

	native, err := l.extractor.Pages(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedFormat, err)
	}
	if len(native) == 0 {
		return nil, domain.ErrEmptyDocument
	}

	pages := make([]domain.PageText, len(native))
	var ocrPages []int
	for i, text := range native {
		pageNum := i + 1
		if visibleChars(text) >= l.minPageChars {
			pages[i] = domain.PageText{
				Page:       pageNum,
				Text:       text,
				Method:     domain.MethodNative,
				Confidence: nativeConfidence,
			}
			continue
		}
		// Insufficient native text; queue for OCR, degrade to empty.
		pages[i] = domain.PageText{
			Page:   pageNum,
			Method: domain.MethodOCR,
		}
		ocrPages = append(ocrPages, i)
	}

	if len(ocrPages) > 0 {
		l.runOCR(ctx, data, pages, ocrPages)
	}

	return pages, nil
}

func (l *Loader) runOCR(ctx context.Context, data []byte, pages []domain.PageText, indices []int) {
	if l.ocr == nil {
		l.logger.Warn("ocr unavailable, pages degraded to empty text", "pages", len(indices))
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.ocrWorkers)

	for _, idx := range indices {
		idx := idx
		g.Go(func() error {
			text, err := l.ocr.RecognizePage(gctx, data, pages[idx].Page)
			if err != nil {
				l.logger.Warn("ocr failed for page", "page", pages[idx].Page, "error", err)
				return nil
			}
			pages[idx].Text = text
			pages[idx].Confidence = ocrConfidence
			return nil
		})
	}

	_ = g.Wait()
}

func normalizeMediaType(mt string) string {
	mt = strings.TrimSpace(strings.ToLower(mt))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}

func visibleChars(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
