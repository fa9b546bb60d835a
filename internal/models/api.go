package models

type ParseResponse struct {
	ResumeText string `json:"resume_text"`
}

type AnalyzeRequest struct {
	ResumeText string `json:"resume_text"`
	JobInput   string `json:"job_input"`
}

// Tip is a single improvement suggestion. All three fields are always
// populated on the way out, even when the model omitted them.
type Tip struct {
	Issue string `json:"issue"`
	Why   string `json:"why"`
	Fix   string `json:"fix"`
}

// AnalyzeResponse is the bounded output contract: score clamped to [0,100],
// at most 15 matched and 10 missing keywords, exactly 3 tips.
type AnalyzeResponse struct {
	Score           int      `json:"score"`
	MatchedKeywords []string `json:"matched_keywords"`
	MissingKeywords []string `json:"missing_keywords"`
	Tips            []Tip    `json:"tips"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Region string `json:"region"`
	Model  string `json:"model"`
}
