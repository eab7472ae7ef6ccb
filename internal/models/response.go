package models

import "strings"

// Candidate represents a single response candidate from Gemini
type Candidate struct {
	Text         string
	FinishReason string
}

// Usage holds the token accounting reported with a response
type Usage struct {
	PromptTokens    int64
	CandidateTokens int64
	TotalTokens     int64
}

// ModelOutput represents the parsed generateContent response
type ModelOutput struct {
	Model      string
	Candidates []Candidate
	Chosen     int // Index of selected candidate
	Usage      Usage
}

// Text returns the chosen candidate's text
func (m *ModelOutput) Text() string {
	if c := m.ChosenCandidate(); c != nil {
		return c.Text
	}
	return ""
}

// FinishReason returns the chosen candidate's finish reason
func (m *ModelOutput) FinishReason() string {
	if c := m.ChosenCandidate(); c != nil {
		return c.FinishReason
	}
	return ""
}

// ChosenCandidate returns a pointer to the chosen candidate
func (m *ModelOutput) ChosenCandidate() *Candidate {
	if m == nil || len(m.Candidates) == 0 {
		return nil
	}
	if m.Chosen < 0 || m.Chosen >= len(m.Candidates) {
		return &m.Candidates[0]
	}
	return &m.Candidates[m.Chosen]
}

// Truncated reports whether generation stopped at the token limit
func (m *ModelOutput) Truncated() bool {
	return strings.EqualFold(m.FinishReason(), "MAX_TOKENS")
}
