package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"alfredoptarigan/ats-resume-analyzer/internal/models"
)

// ErrNotConfigured is returned when no generative client was set up at
// startup (missing API key). It maps to a configuration error at the HTTP
// surface, distinct from a runtime upstream failure.
var ErrNotConfigured = errors.New("generative client not configured")

// TruncationMarker is appended whenever resume text had to be cut.
const TruncationMarker = "\n[... Resume truncated for processing ...]"

type AnalyzerService interface {
	Analyze(ctx context.Context, resumeText, jobInput string) (*models.AnalyzeResponse, error)
}

type analyzerService struct {
	client         GenerativeClient
	maxResumeChars int
}

// NewAnalyzerService wires the model capability into the analysis flow.
// A nil client is accepted: it represents a service started without
// credentials, surfaced as ErrNotConfigured on first use.
func NewAnalyzerService(client GenerativeClient, maxResumeChars int) AnalyzerService {
	return &analyzerService{
		client:         client,
		maxResumeChars: maxResumeChars,
	}
}

// Analyze implements AnalyzerService. A single model call, no retries: a
// failed call surfaces directly as a failed request.
func (a *analyzerService) Analyze(ctx context.Context, resumeText, jobInput string) (*models.AnalyzeResponse, error) {
	if a.client == nil {
		return nil, ErrNotConfigured
	}

	truncated := TruncateResume(resumeText, a.maxResumeChars)
	userMessage := BuildAnalysisPrompt(jobInput, truncated)

	log.Printf("📝 Analysis prompt length: %d characters\n", len(userMessage))

	raw, err := a.client.GenerateContent(ctx, ATSSystemPrompt, userMessage)
	if err != nil {
		return nil, fmt.Errorf("model invocation failed: %w", err)
	}

	log.Printf("✅ Model response received: %d characters\n", len(raw))

	result, err := SanitizeAnalysis(raw)
	if err != nil {
		return nil, fmt.Errorf("model response rejected: %w", err)
	}

	return result, nil
}

// TruncateResume caps resume text at maxChars to respect downstream token
// limits. When cutting, it prefers the last sentence boundary, but only if
// that boundary falls within the final 20% of the cut region.
func TruncateResume(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}

	cut := runes[:maxChars]

	// Positions are rune offsets so the 20% window holds for multibyte text
	for i := len(cut) - 1; float64(i) > float64(maxChars)*0.8; i-- {
		if cut[i] == '.' {
			cut = cut[:i+1]
			break
		}
	}

	return string(cut) + TruncationMarker
}
