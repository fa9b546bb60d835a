package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// OCREngine recognizes text in documents that carry no embedded text layer.
// Availability is probed once at construction; an unavailable engine is a
// soft condition, not an error.
type OCREngine interface {
	Available() bool
	Recognize(ctx context.Context, pdfPath string) (string, error)
}

// tesseractEngine shells out to poppler's pdftoppm for rasterization and to
// the tesseract CLI for recognition.
type tesseractEngine struct {
	scratchDir string
	dpi        int
	rasterBin  string
	ocrBin     string
}

func NewTesseractEngine(scratchDir string, dpi int) OCREngine {
	rasterBin, _ := exec.LookPath("pdftoppm")
	ocrBin, _ := exec.LookPath("tesseract")

	if rasterBin == "" || ocrBin == "" {
		log.Println("⚠️  OCR disabled: pdftoppm and/or tesseract not found in PATH")
	}

	return &tesseractEngine{
		scratchDir: scratchDir,
		dpi:        dpi,
		rasterBin:  rasterBin,
		ocrBin:     ocrBin,
	}
}

func (t *tesseractEngine) Available() bool {
	return t.rasterBin != "" && t.ocrBin != ""
}

func (t *tesseractEngine) Recognize(ctx context.Context, pdfPath string) (string, error) {
	if !t.Available() {
		return "", fmt.Errorf("ocr engine is not available")
	}

	imageDir, err := os.MkdirTemp(t.scratchDir, "ocr-")
	if err != nil {
		return "", fmt.Errorf("failed to create OCR scratch dir: %w", err)
	}
	defer os.RemoveAll(imageDir)

	prefix := filepath.Join(imageDir, "page")
	raster := exec.CommandContext(ctx, t.rasterBin, "-r", strconv.Itoa(t.dpi), "-png", pdfPath, prefix)
	if output, err := raster.CombinedOutput(); err != nil {
		return "", fmt.Errorf("failed to rasterize PDF: %w (%s)", err, strings.TrimSpace(string(output)))
	}

	pages, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to list page images: %w", err)
	}
	sort.Strings(pages)

	var textParts []string
	for i, image := range pages {
		log.Printf("   OCR processing page %d/%d...\n", i+1, len(pages))

		recognize := exec.CommandContext(ctx, t.ocrBin, image, "stdout")
		output, err := recognize.Output()
		if err != nil {
			// A single bad page should not sink the whole document
			log.Printf("⚠️  OCR failed on %s: %v\n", filepath.Base(image), err)
			continue
		}

		if strings.TrimSpace(string(output)) != "" {
			textParts = append(textParts, string(output))
		}
	}

	return strings.Join(textParts, "\n"), nil
}

// noopEngine is used when OCR is disabled by configuration.
type noopEngine struct{}

func NewNoopOCREngine() OCREngine {
	return &noopEngine{}
}

func (n *noopEngine) Available() bool {
	return false
}

func (n *noopEngine) Recognize(_ context.Context, _ string) (string, error) {
	return "", fmt.Errorf("ocr is disabled")
}
