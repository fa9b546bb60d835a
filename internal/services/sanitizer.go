package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"alfredoptarigan/ats-resume-analyzer/internal/models"
)

// ErrUnparsableResponse means no JSON object could be located anywhere in
// the model output. It is the only way sanitization can fail; everything
// short of that is absorbed by defaulting.
var ErrUnparsableResponse = errors.New("could not parse model response as JSON")

const (
	maxMatchedKeywords = 15
	maxMissingKeywords = 10
	requiredTipCount   = 3
)

var fencedBlock = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// ExtractJSON locates a JSON object inside free-form model output. Tried in
// order: the whole text, the interior of a fenced code block, the span from
// the first '{' to the last '}'. The brace-span fallback is a best-effort
// heuristic: it can swallow trailing commentary containing braces.
func ExtractJSON(text string) (map[string]any, error) {
	var result map[string]any

	if err := json.Unmarshal([]byte(text), &result); err == nil {
		return result, nil
	}

	if match := fencedBlock.FindStringSubmatch(text); match != nil {
		if err := json.Unmarshal([]byte(match[1]), &result); err == nil {
			return result, nil
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		if err := json.Unmarshal([]byte(text[start:end+1]), &result); err == nil {
			return result, nil
		}
	}

	return nil, ErrUnparsableResponse
}

// SanitizeAnalysis coerces raw model output into the bounded response
// contract. The model is an untrusted text generator: missing fields,
// wrong types and out-of-range values are all replaced by defaults, never
// surfaced as errors.
func SanitizeAnalysis(raw string) (*models.AnalyzeResponse, error) {
	parsed, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	return &models.AnalyzeResponse{
		Score:           clampScore(parsed["score"]),
		MatchedKeywords: coerceKeywords(parsed["matched_keywords"], maxMatchedKeywords),
		MissingKeywords: coerceKeywords(parsed["missing_keywords"], maxMissingKeywords),
		Tips:            coerceTips(parsed["tips"]),
	}, nil
}

func clampScore(value any) int {
	score := 50.0

	switch v := value.(type) {
	case float64:
		score = v
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			score = parsed
		}
	}

	// Clamp while still a float: converting an out-of-range float64 to int
	// is implementation-defined
	if math.IsNaN(score) {
		return 50
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(score)
}

func coerceKeywords(value any, limit int) []string {
	keywords := make([]string, 0, limit)

	items, ok := value.([]any)
	if !ok {
		return keywords
	}

	for _, item := range items {
		if len(keywords) == limit {
			break
		}
		switch v := item.(type) {
		case string:
			keywords = append(keywords, v)
		case nil:
			// skip nulls
		default:
			keywords = append(keywords, fmt.Sprint(v))
		}
	}

	return keywords
}

func coerceTips(value any) []models.Tip {
	tips := make([]models.Tip, 0, requiredTipCount)

	if items, ok := value.([]any); ok {
		for _, item := range items {
			if len(tips) == requiredTipCount {
				break
			}
			// Elements that are not objects are dropped, not blanked
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			tips = append(tips, models.Tip{
				Issue: stringField(entry, "issue", "Missing keyword"),
				Why:   stringField(entry, "why", "ATS filters by keywords"),
				Fix:   stringField(entry, "fix", "Add relevant keywords to your resume"),
			})
		}
	}

	for len(tips) < requiredTipCount {
		tips = append(tips, models.Tip{
			Issue: "Review keyword density",
			Why:   "ATS systems rank resumes by keyword frequency",
			Fix:   "Ensure key skills from the JD appear multiple times naturally",
		})
	}

	return tips[:requiredTipCount]
}

func stringField(entry map[string]any, key, defaultValue string) string {
	value, exists := entry[key]
	if !exists || value == nil {
		return defaultValue
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
