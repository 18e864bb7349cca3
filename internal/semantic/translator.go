package semantic

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/haasonsaas/agrisense/internal/llm"
	"github.com/haasonsaas/agrisense/internal/ontology"
	"github.com/haasonsaas/agrisense/internal/queryerr"
	"github.com/haasonsaas/agrisense/internal/rangetoken"
	"github.com/haasonsaas/agrisense/pkg/models"
)

// ComparisonHint lets the Intent Router (C8) force comparison handling
// when it has already detected an explicit comparison cue upstream.
type ComparisonHint struct {
	Forced bool
}

// Translator is the Semantic Translator (C5): NL query -> validated
// Semantic IR, using the Ontology Registry (C1) and, optionally, an LLM
// for Persian translation and ontology-mapping fallback.
type Translator struct {
	registry *ontology.Registry
	llm      llm.Client
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Translator.
type Option func(*Translator)

// WithLLMClient attaches the optional LLM client used for Persian
// translation and the ontology-mapping fallback. A nil client (the
// default) makes the translator fully deterministic.
func WithLLMClient(c llm.Client) Option {
	return func(t *Translator) { t.llm = c }
}

// WithLogger attaches a logger; defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(t *Translator) { t.logger = logger }
}

// WithNow overrides the clock used to compute time_context, for tests.
func WithNow(now func() time.Time) Option {
	return func(t *Translator) { t.now = now }
}

// New constructs a Translator over registry.
func New(registry *ontology.Registry, opts ...Option) *Translator {
	t := &Translator{
		registry: registry,
		logger:   slog.Default(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate is the C5 entry point: it produces a validated Semantic IR
// from a free-form query, falling back to a minimal IR if validation
// fails.
func (t *Translator) Translate(ctx context.Context, q string, hint ComparisonHint) (models.SemanticIR, error) {
	if strings.TrimSpace(q) == "" {
		return models.SemanticIR{}, queryerr.New(queryerr.KindBadRequest, "query is empty")
	}

	lang := DetectLanguage(q)
	canonical, viaLLM := Translate(ctx, q, lang, t.llm)

	comparison := hint.Forced || DetectComparison(canonical)

	token, granularity, found := ParseTimeExpression(canonical)
	if !found {
		token, granularity = DefaultRangeToken, models.IntervalHour
	}
	grouping := GroupingForGranularity(granularity)

	var timeRanges []models.RangeToken
	if comparison {
		timeRanges = ExpandComparisonRanges(canonical, token, granularity)
	} else {
		timeRanges = []models.RangeToken{token}
	}
	if len(timeRanges) >= 2 {
		comparison = true
	}

	entity := t.mapEntities(ctx, canonical, string(lang))
	if len(entity.Types) >= 2 {
		comparison = true
	}

	aggregation := detectAggregation(canonical)
	format := detectFormat(canonical, comparison)

	ir := models.SemanticIR{
		Entity:      entity,
		Aggregation: aggregation,
		TimeRange:   timeRanges,
		Grouping:    grouping,
		Format:      format,
		Comparison:  comparison,
	}

	if start, end, interval, ok := rangetoken.Compute(token, t.now()); ok && len(timeRanges) == 1 {
		ir.TimeContext = &models.TimeContext{Start: start, End: end, Interval: interval}
	}

	if err := validateIR(ir); err != nil {
		t.logger.Warn("semantic: IR validation failed, using fallback", "query", q, "reason", err.Error())
		ir = fallbackIR(entity.First(), err.Error())
	}

	t.logger.Debug("semantic: translated query", "lang", lang, "via_llm", viaLLM, "entity", ir.Entity.Types, "comparison", ir.Comparison)
	return ir, nil
}

// mapEntities resolves canonical to one or more sensor types: compound
// context-keyword groups first, then a direct synonym lookup, then a
// per-token scan (for "temperature and humidity"-shaped multi-entity
// queries), then the LLM-assisted fallback, and finally the
// graceful-degradation default of "temperature".
func (t *Translator) mapEntities(ctx context.Context, canonical, lang string) models.Entity {
	if types, ok := t.registry.ContextGroupTypes(canonical); ok {
		return models.NewEntity(types...)
	}

	if match, ok := t.registry.LookupSynonym(canonical, lang); ok {
		types := []string{match.Type}
		for _, tok := range strings.Fields(canonical) {
			if len([]rune(tok)) < 3 {
				continue
			}
			if m2, ok2 := t.registry.LookupSynonym(tok, lang); ok2 && m2.Type != match.Type {
				types = append(types, m2.Type)
			}
		}
		return models.NewEntity(types...)
	}

	if t.llm != nil {
		if sensorType, newSynonym, ok := t.llmMapEntity(ctx, canonical); ok {
			if newSynonym != "" {
				if err := t.registry.RegisterSynonym(newSynonym, sensorType, lang); err != nil {
					t.logger.Warn("semantic: register_synonym failed", "phrase", newSynonym, "type", sensorType, "error", err)
				}
			}
			return models.NewEntity(sensorType)
		}
	}

	return models.NewEntity("temperature")
}

// llmMapEntity asks the LLM to choose the closest canonical sensor type.
// The reply must be exactly a known canonical type name (case and
// surrounding whitespace are ignored); anything else is treated as a miss.
// On a hit, canonical itself is returned as the new synonym phrase.
func (t *Translator) llmMapEntity(ctx context.Context, canonical string) (sensorType, newSynonym string, ok bool) {
	types := t.registry.CanonicalTypes()
	prompt := "Given the sensor types " + strings.Join(types, ", ") +
		", which single type does this query refer to? Reply with only the type name: " + canonical

	text, err := t.llm.Complete(ctx, llm.Request{Prompt: prompt, Temperature: 0.2, MaxTokens: 16})
	if err != nil {
		return "", "", false
	}
	candidate := strings.TrimSpace(strings.ToLower(text))
	if t.registry.Exists(candidate) {
		return candidate, canonical, true
	}
	return "", "", false
}
