package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/haasonsaas/agrisense/internal/llm"
	"github.com/haasonsaas/agrisense/pkg/models"
)

// mixedNarrativeSystemPrompt fixes the section headers spec §4.6 requires
// for a mixed-intent response and forbids the LLM from inventing numbers:
// every figure it cites must come from the metrics/raw_data already
// computed by the deterministic pipeline.
const mixedNarrativeSystemPrompt = `You write a structured answer to an agricultural sensor question, in the user's own language. Use exactly these section headers, in this order: Summary, Data, Analysis, Recommendations. You MUST NOT invent any number not present in the data given to you; only reason about and explain the numbers you are given.`

// renderMixedNarrative asks the LLM to produce the Summary/Data/Analysis/
// Recommendations structured answer for a mixed-intent query, grounded in
// the already-computed metrics and raw data. On any LLM failure it falls
// back to the deterministic summary already in result, per §7's "LLM
// failures are never fatal to the request if a rule-based path exists."
func (r *Router) renderMixedNarrative(ctx context.Context, query string, lang models.Language, turns []models.ConversationTurn, result models.Result) string {
	prompt := buildMixedPrompt(query, lang, turns, result)
	text, err := r.llmClient.Complete(ctx, llm.Request{
		System:      mixedNarrativeSystemPrompt,
		Prompt:      prompt,
		Temperature: 0.2,
		MaxTokens:   600,
	})
	if err != nil || strings.TrimSpace(text) == "" {
		r.logger.Warn("router_mixed_narrative_unavailable", "error", errString(err))
		return result.Summary
	}
	return text
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func buildMixedPrompt(query string, lang models.Language, turns []models.ConversationTurn, result models.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Language: %s\n", lang)
	fmt.Fprintf(&b, "Question: %s\n", query)
	if len(turns) > 0 {
		b.WriteString("Prior conversation:\n")
		for _, t := range turns {
			fmt.Fprintf(&b, "- Q: %s / A: %s\n", t.Query, t.Response)
		}
	}
	fmt.Fprintf(&b, "Computed metrics: %v\n", result.Metrics)
	fmt.Fprintf(&b, "Row count: %d\n", result.Validation.DataPoints)
	return b.String()
}
