package router

import (
	"context"
	"strings"

	"github.com/haasonsaas/agrisense/pkg/models"
)

// streamSteps names the ordered progress frames ask_stream emits before the
// final result, per spec §4.6/§6. Alert-management requests collapse these
// into a single progress event since they never stream LLM output.
var streamSteps = []struct {
	step     int
	message  string
	progress int
}{
	{1, "language detected", 15},
	{2, "conversation context loaded", 35},
	{3, "intent classified", 55},
	{4, "query executed", 80},
}

// AskStream is the streaming variant of Ask: it yields an ordered sequence
// of progress frames, then (for a mixed-intent answer only) zero or more
// token frames carrying the LLM narrative as it is assembled, then one
// {step:"complete", result} frame, then the literal terminator event. The
// returned channel is closed after the terminator is sent.
//
// Unlike Ask, AskStream does not persist the conversation turn or run the
// LLM narrative itself -- it delegates the whole computation to Ask and
// replays the result as frames, so the two entry points can never
// disagree on the final payload.
func (r *Router) AskStream(ctx context.Context, req Request) <-chan models.StreamEvent {
	out := make(chan models.StreamEvent)
	go func() {
		defer close(out)

		steps := streamSteps
		if Classify(req.Query) == AlertManagement {
			steps = streamSteps[:1]
		}
		for _, s := range steps {
			select {
			case <-ctx.Done():
				return
			case out <- models.StreamEvent{Step: s.step, Message: s.message, Progress: s.progress}:
			}
		}

		result := r.Ask(ctx, req)

		if result.Success && looksLikeNarrative(result.Summary) {
			if !streamTokens(ctx, out, result.Summary) {
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case out <- models.StreamEvent{Step: "complete", Result: &result}:
		}
		select {
		case <-ctx.Done():
		case out <- models.StreamEvent{Step: "terminator", Message: models.StreamTerminator, Done: true}:
		}
	}()
	return out
}

// looksLikeNarrative reports whether summary is the multi-section
// Summary/Data/Analysis/Recommendations text a mixed-intent answer
// produces, as opposed to a short data-query or alert-management summary
// sentence. Only narrative answers are replayed token-by-token; the rest
// go straight to the complete frame.
func looksLikeNarrative(summary string) bool {
	return strings.Contains(summary, "Summary") && strings.Contains(summary, "Analysis")
}

// streamTokens splits text on whitespace and emits one token frame per
// word, each carrying the accumulated text so far. It returns false if the
// context was cancelled mid-stream.
func streamTokens(ctx context.Context, out chan<- models.StreamEvent, text string) bool {
	words := strings.Fields(text)
	var acc strings.Builder
	for i, w := range words {
		if i > 0 {
			acc.WriteByte(' ')
		}
		acc.WriteString(w)
		select {
		case <-ctx.Done():
			return false
		case out <- models.StreamEvent{Step: 4, Token: w, Accumulated: acc.String()}:
		}
	}
	return true
}
