package handlers

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ats-resume-analyzer/internal/models"
	"alfredoptarigan/ats-resume-analyzer/internal/services"
)

type ParseHandler struct {
	extractor   services.TextExtractor
	maxFileSize int64
}

func NewParseHandler(extractor services.TextExtractor, maxFileSize int64) *ParseHandler {
	return &ParseHandler{
		extractor:   extractor,
		maxFileSize: maxFileSize,
	}
}

// HandleParseResume handles POST /parse-resume
func (h *ParseHandler) HandleParseResume(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded. Please upload a PDF resume as 'file'.",
		})
	}

	if strings.ToLower(filepath.Ext(fileHeader.Filename)) != ".pdf" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only PDF files are accepted",
		})
	}

	if fileHeader.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("File size exceeds %dMB limit", h.maxFileSize/(1024*1024)),
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}

	resumeText := h.extractor.Extract(c.UserContext(), data)
	if resumeText == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Your resume is not ATS Parsable. It's image based.",
		})
	}

	return c.JSON(models.ParseResponse{ResumeText: resumeText})
}
