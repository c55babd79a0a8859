package port

import "context"

// ParseInput carries the data needed for AI-assisted field extraction.
type ParseInput struct {
	Text     string
	Filename string
}

// ParseOutput contains the structured result from an LLM parser. Field keys
// follow the canonical vocabulary; unknown keys are dropped by callers.
type ParseOutput struct {
	Fields     map[string]string
	Equipment  []map[string]string
	ModelUsed  string
	PromptUsed string
}

// DocumentParser abstracts LLM-based document parsing, used as a fallback when
// deterministic extraction leaves required fields empty.
type DocumentParser interface {
	Parse(ctx context.Context, input ParseInput) (*ParseOutput, error)
}
