package services

import (
	"bytes"
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

type TextExtractor interface {
	// Extract returns the best-effort text content of a PDF. It never fails:
	// a document where neither the embedded text layer nor OCR yields
	// anything comes back as an empty string.
	Extract(ctx context.Context, data []byte) string
}

type textExtractor struct {
	ocr     OCREngine
	storage StorageService
}

func NewTextExtractor(ocr OCREngine, storage StorageService) TextExtractor {
	return &textExtractor{
		ocr:     ocr,
		storage: storage,
	}
}

var (
	multiNewline = regexp.MustCompile(`\n{3,}`)
	multiSpace   = regexp.MustCompile(` {2,}`)
)

func (e *textExtractor) Extract(ctx context.Context, data []byte) string {
	text, found := extractEmbeddedText(data)

	if !found {
		log.Println("📸 No embedded text layer found, trying OCR...")
		text = e.extractWithOCR(ctx, data)
	}

	return NormalizeWhitespace(text)
}

// extractEmbeddedText pulls the text layer page by page. A page that cannot
// be read is skipped; a document that cannot be opened at all reports
// found=false so the caller moves on to OCR.
func extractEmbeddedText(data []byte) (text string, found bool) {
	// The pdf library panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️  PDF text extraction panicked: %v\n", r)
			text, found = "", false
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		log.Printf("⚠️  Failed to open PDF: %v\n", err)
		return "", false
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep going with the rest
			continue
		}

		if strings.TrimSpace(pageText) == "" {
			continue
		}

		if textBuilder.Len() > 0 {
			textBuilder.WriteString("\n")
		}
		textBuilder.WriteString(pageText)
	}

	text = textBuilder.String()
	return text, strings.TrimSpace(text) != ""
}

// extractWithOCR rasterizes the document and runs character recognition on
// each page. Every failure mode degrades to empty text: a missing OCR
// install must not turn a readable upload into a 500.
func (e *textExtractor) extractWithOCR(ctx context.Context, data []byte) string {
	if e.ocr == nil || !e.ocr.Available() {
		log.Println("⚠️  OCR engine not available, skipping fallback")
		return ""
	}

	scratchPath, err := e.storage.SaveBytes(data, ".pdf")
	if err != nil {
		log.Printf("⚠️  Failed to stage PDF for OCR: %v\n", err)
		return ""
	}
	defer e.storage.Remove(scratchPath)

	text, err := e.ocr.Recognize(ctx, scratchPath)
	if err != nil {
		log.Printf("⚠️  OCR failed: %v\n", err)
		return ""
	}

	if text != "" {
		log.Printf("✅ OCR extracted %d characters\n", len(text))
	}

	return text
}

// NormalizeWhitespace collapses runs of 3+ newlines to a blank line and runs
// of 2+ spaces to one, then trims.
func NormalizeWhitespace(text string) string {
	text = multiNewline.ReplaceAllString(text, "\n\n")
	text = multiSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
