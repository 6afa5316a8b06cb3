package extract

import (
	"context"
	"log/slog"
	"time"
)

// llmTimeout caps the model call so a slow backend degrades to the rules
// instead of stalling the conversation.
const llmTimeout = 3 * time.Second

// Hybrid tries the LLM extractor first and falls back to the rule tables
// when the model fails, times out, or returns nothing usable. It never
// returns an error: the worst case is the empty extraction.
type Hybrid struct {
	llm   Extractor
	rules Extractor
}

// NewHybrid composes the two strategies. llm may be nil to run rules-only.
func NewHybrid(llmExt, rulesExt Extractor) *Hybrid {
	return &Hybrid{llm: llmExt, rules: rulesExt}
}

// Extract implements Extractor.
func (h *Hybrid) Extract(ctx context.Context, text string) (Result, error) {
	if h.llm != nil {
		llmCtx, cancel := context.WithTimeout(ctx, llmTimeout)
		res, err := h.llm.Extract(llmCtx, text)
		cancel()
		if err == nil && usable(res.Profile) {
			return res, nil
		}
		if err != nil {
			slog.Warn("llm extraction failed, falling back to rules", "error", err)
		}
	}

	if h.rules != nil {
		res, err := h.rules.Extract(ctx, text)
		if err == nil {
			return res, nil
		}
		slog.Warn("rule extraction failed", "error", err)
	}

	return Empty(), nil
}
