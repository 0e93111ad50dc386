package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"prescription-chatbot/internal/llm"
)

// Extractor wraps the optional language-model extraction pass.  It is
// advisory only: any failure, empty reply, or malformed reply downgrades
// silently to "no override" so the deterministic pipeline always proceeds.
type Extractor struct {
	LLM llm.Client
}

// NewExtractor constructs an Extractor.  A nil client yields an extractor
// that always reports unavailable.
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{LLM: client}
}

// Extract asks the language model for a Key: Value block describing the
// instruction and normalizes it into a map of lower-cased, trimmed keys to
// trimmed values.  ok=false means no override is available.  A reply with
// fewer than 4 newline-delimited lines is treated as malformed.
func (e *Extractor) Extract(ctx context.Context, text string) (map[string]string, bool) {
	if e == nil || e.LLM == nil {
		return nil, false
	}
	reply, err := e.LLM.Complete(ctx, fmt.Sprintf(ExtractionPromptTemplate, text))
	if err != nil {
		log.Warn().Err(err).Msg("extraction service unavailable, using rule-based fields only")
		return nil, false
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, false
	}
	lines := strings.Split(reply, "\n")
	if len(lines) < 4 {
		log.Warn().Int("lines", len(lines)).Msg("malformed extraction reply discarded")
		return nil, false
	}
	overrides := make(map[string]string, len(lines))
	for _, line := range lines {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		overrides[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return overrides, true
}
