package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/ats-resume-analyzer/internal/models"
	"alfredoptarigan/ats-resume-analyzer/internal/services"
)

type stubExtractor struct {
	text string
}

func (s *stubExtractor) Extract(_ context.Context, _ []byte) string {
	return s.text
}

type stubAnalyzer struct {
	result *models.AnalyzeResponse
	err    error
}

func (s *stubAnalyzer) Analyze(_ context.Context, _, _ string) (*models.AnalyzeResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newParseApp(extractor services.TextExtractor, maxFileSize int64) *fiber.App {
	app := fiber.New()
	app.Post("/parse-resume", NewParseHandler(extractor, maxFileSize).HandleParseResume)
	return app
}

func newAnalyzeApp(analyzer services.AnalyzerService) *fiber.App {
	app := fiber.New()
	app.Post("/analyze", NewAnalyzeHandler(analyzer).HandleAnalyze)
	return app
}

func multipartUpload(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/parse-resume", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	return body
}

func TestParseResumeWrongFileType(t *testing.T) {
	app := newParseApp(&stubExtractor{text: "whatever"}, 5242880)

	resp, err := app.Test(multipartUpload(t, "resume.docx", []byte("fake doc")))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Only PDF files are accepted", decodeBody(t, resp)["error"])
}

func TestParseResumeTooLarge(t *testing.T) {
	app := newParseApp(&stubExtractor{text: "whatever"}, 16)

	resp, err := app.Test(multipartUpload(t, "resume.pdf", bytes.Repeat([]byte("a"), 64)))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeBody(t, resp)["error"], "File size exceeds")
}

func TestParseResumeNoFile(t *testing.T) {
	app := newParseApp(&stubExtractor{text: "whatever"}, 5242880)

	req := httptest.NewRequest(http.MethodPost, "/parse-resume", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestParseResumeImageBased(t *testing.T) {
	app := newParseApp(&stubExtractor{text: ""}, 5242880)

	resp, err := app.Test(multipartUpload(t, "resume.pdf", []byte("scanned pixels")))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Your resume is not ATS Parsable. It's image based.", decodeBody(t, resp)["error"])
}

func TestParseResumeSuccess(t *testing.T) {
	app := newParseApp(&stubExtractor{text: "Jane Doe\nPython Developer"}, 5242880)

	resp, err := app.Test(multipartUpload(t, "Resume.PDF", []byte("fake pdf bytes")))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Jane Doe\nPython Developer", decodeBody(t, resp)["resume_text"])
}

func analyzeRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAnalyzeEmptyFields(t *testing.T) {
	app := newAnalyzeApp(&stubAnalyzer{})

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty resume", `{"resume_text": "   ", "job_input": "Go engineer"}`, "Resume text is empty"},
		{"empty job", `{"resume_text": "Go, 5 years", "job_input": ""}`, "Job input is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(analyzeRequest(tt.body))
			require.NoError(t, err)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.want, decodeBody(t, resp)["error"])
		})
	}
}

func TestAnalyzeInvalidPayload(t *testing.T) {
	app := newAnalyzeApp(&stubAnalyzer{})

	resp, err := app.Test(analyzeRequest("this is not json"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeNotConfigured(t *testing.T) {
	app := newAnalyzeApp(&stubAnalyzer{err: services.ErrNotConfigured})

	resp, err := app.Test(analyzeRequest(`{"resume_text": "Go", "job_input": "Go engineer"}`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, decodeBody(t, resp)["error"], "Gemini not configured")
}

func TestAnalyzeUpstreamFailure(t *testing.T) {
	app := newAnalyzeApp(&stubAnalyzer{err: errors.New("model invocation failed: quota exceeded")})

	resp, err := app.Test(analyzeRequest(`{"resume_text": "Go", "job_input": "Go engineer"}`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, decodeBody(t, resp)["error"], "Analysis failed")
}

func TestAnalyzeSuccess(t *testing.T) {
	app := newAnalyzeApp(&stubAnalyzer{result: &models.AnalyzeResponse{
		Score:           65,
		MatchedKeywords: []string{"Python"},
		MissingKeywords: []string{"Docker"},
		Tips: []models.Tip{
			{Issue: "i1", Why: "w1", Fix: "f1"},
			{Issue: "i2", Why: "w2", Fix: "f2"},
			{Issue: "i3", Why: "w3", Fix: "f3"},
		},
	}})

	resp, err := app.Test(analyzeRequest(`{"resume_text": "Python, FastAPI, 3 years", "job_input": "Python backend engineer with Docker"}`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(65), body["score"])
	assert.Equal(t, []any{"Python"}, body["matched_keywords"])
	assert.Equal(t, []any{"Docker"}, body["missing_keywords"])
	assert.Len(t, body["tips"], 3)
}
