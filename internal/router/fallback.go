package router

import (
	"context"
	"strings"
	"time"

	"github.com/haasonsaas/agrisense/internal/executor"
	"github.com/haasonsaas/agrisense/internal/llm"
	"github.com/haasonsaas/agrisense/internal/querybuilder"
	"github.com/haasonsaas/agrisense/internal/sensorstore"
	"github.com/haasonsaas/agrisense/pkg/models"
)

// runOutcome is the result of the Execution & Fallback Engine's run(IR)
// sequence (spec §4.7): the executed rows, the SQL that produced them, and
// which fallback steps (if any) were needed to get a non-empty result.
type runOutcome struct {
	SQL          string
	Result       executor.Result
	FallbackUsed []string
	RefinedByLLM bool
}

// run compiles ir, validates, and executes it; on zero rows it walks the
// fallback ladder from spec §4.7 before giving up. It returns a typed
// *queryerr.Error only when validation/execution itself fails (never for a
// merely empty result, which is a valid, successful outcome).
func (r *Router) run(ctx context.Context, ir models.SemanticIR, now time.Time) (runOutcome, error) {
	compiled, err := querybuilder.Compile(ir, now)
	if err != nil {
		return runOutcome{}, err
	}
	res, err := r.validator.Execute(ctx, r.sensorDB, compiled)
	if err != nil {
		return runOutcome{}, err
	}
	if len(res.Rows) > 0 {
		return runOutcome{SQL: compiled.SQL, Result: res}, nil
	}

	var used []string

	relaxed := relax(ir)
	if recompiled, err := querybuilder.Compile(relaxed, now); err == nil {
		if res2, err := r.validator.Execute(ctx, r.sensorDB, recompiled); err == nil && len(res2.Rows) > 0 {
			used = append(used, "relaxed_ir")
			return runOutcome{SQL: recompiled.SQL, Result: res2, FallbackUsed: used}, nil
		}
	}
	used = append(used, "relaxed_ir_empty")

	if r.llmClient != nil {
		if sql, ok := r.llmFreeform(ctx, ir); ok {
			compiled := querybuilder.Compiled{SQL: sql}
			if res3, err := r.validator.Execute(ctx, r.sensorDB, compiled); err == nil {
				used = append(used, "llm_freeform")
				if len(res3.Rows) > 0 {
					return runOutcome{SQL: sql, Result: res3, FallbackUsed: used, RefinedByLLM: true}, nil
				}
			} else {
				used = append(used, "llm_freeform_rejected")
			}
		}
	}

	finalCompiled := recentRowsFallback(ir)
	finalRes, err := r.validator.Execute(ctx, r.sensorDB, finalCompiled)
	if err != nil {
		return runOutcome{}, err
	}
	used = append(used, "final_recent_rows")
	return runOutcome{SQL: finalCompiled.SQL, Result: finalRes, FallbackUsed: used}, nil
}

// recentRowsFallback is the last-resort step of spec §4.7: the most recent
// rows for the originally requested sensor type(s), regardless of the
// original time range or aggregation. It still carries a canonical
// sensor_type literal so the same C7 allow-list that governs every other
// statement accepts it.
func recentRowsFallback(ir models.SemanticIR) querybuilder.Compiled {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ir.Entity.Types)), ",")
	args := make([]any, len(ir.Entity.Types))
	for i, t := range ir.Entity.Types {
		args[i] = t
	}
	sql := "SELECT * FROM " + sensorstore.TableName + " WHERE sensor_type IN (" + placeholders + ") ORDER BY ts DESC LIMIT 10"
	return querybuilder.Compiled{SQL: sql, Args: args}
}

// relax implements spec §4.7 step 3: drop grouping, demote average to
// current, and narrow a compound entity to its first member.
func relax(ir models.SemanticIR) models.SemanticIR {
	out := ir
	out.Grouping = models.GroupNone
	if out.Aggregation == models.AggAverage {
		out.Aggregation = models.AggCurrent
	}
	if !out.Entity.Single() && len(out.Entity.Types) > 0 {
		out.Entity = models.NewEntity(out.Entity.Types[0])
	}
	return out
}

// llmFreeformPrompt instructs the free-form fallback agent to emit a
// SELECT-only statement over sensor_data; anything else is discarded by the
// caller once the same C7 validator rejects it.
const llmFreeformPrompt = `You write a single read-only SQLite statement against a table named sensor_data(ts, sensor_type, value, unit). Respond with SQL only, no commentary, no markdown fences. The statement must begin with SELECT and reference only sensor_data.`

func (r *Router) llmFreeform(ctx context.Context, ir models.SemanticIR) (string, bool) {
	entity := strings.Join(ir.Entity.Types, ", ")
	text, err := r.llmClient.Complete(ctx, llm.Request{
		System:      llmFreeformPrompt,
		Prompt:      "Write a SELECT statement returning recent rows for sensor type(s): " + entity,
		Temperature: 0.1,
		MaxTokens:   200,
	})
	if err != nil {
		return "", false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	return text, true
}
