// Package router is the Intent Router (C8): it loads conversation context,
// classifies intent, and drives the data_query/mixed pipeline (C5 -> C6 ->
// C7 -> C10) or the alert-management surface, persisting the outcome back
// to the Session Store.
package router

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/haasonsaas/agrisense/internal/alerts"
	"github.com/haasonsaas/agrisense/internal/executor"
	"github.com/haasonsaas/agrisense/internal/llm"
	"github.com/haasonsaas/agrisense/internal/ontology"
	"github.com/haasonsaas/agrisense/internal/response"
	"github.com/haasonsaas/agrisense/internal/semantic"
	"github.com/haasonsaas/agrisense/internal/sensorstore"
	"github.com/haasonsaas/agrisense/internal/sessionstore"
	"github.com/haasonsaas/agrisense/pkg/models"
)

// State is one step of the request state machine C8 walks and logs through:
// received -> lang_detected -> translated -> context_loaded ->
// intent_classified -> routed -> responded|failed.
type State string

const (
	StateReceived         State = "received"
	StateLangDetected     State = "lang_detected"
	StateTranslated       State = "translated"
	StateContextLoaded    State = "context_loaded"
	StateIntentClassified State = "intent_classified"
	StateRouted           State = "routed"
	StateResponded        State = "responded"
	StateFailed           State = "failed"
)

// Router wires the data_query/mixed pipeline and the alert-management
// surface together over one session.
type Router struct {
	translator *semantic.Translator
	validator  *executor.Validator
	formatter  *response.Formatter
	sensorDB   *sql.DB
	sensors    *sensorstore.Store
	sessions   *sessionstore.Store
	alertStore *alerts.Store
	evaluator  *alerts.Evaluator
	dispatcher *alerts.Dispatcher
	registry   *ontology.Registry
	llmClient  llm.Client
	logger     *slog.Logger
	now        func() time.Time

	contextTurns int
}

// Option configures a Router.
type Option func(*Router)

// WithLogger attaches a logger; defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) { r.logger = logger }
}

// WithNow overrides the clock, for deterministic tests.
func WithNow(now func() time.Time) Option {
	return func(r *Router) { r.now = now }
}

// WithLLMClient attaches the LLM client used for mixed-intent narrative
// rendering and the free-form fallback agent. A nil client (the default)
// degrades to the rule-based paths per §6's "Egress: LLM endpoint" contract.
func WithLLMClient(c llm.Client) Option {
	return func(r *Router) { r.llmClient = c }
}

// WithContextTurns overrides how many prior turns are loaded from the
// Session Store before classification; defaults to sessionstore.DefaultContextTurns.
func WithContextTurns(k int) Option {
	return func(r *Router) { r.contextTurns = k }
}

// New builds a Router over the given stores and ontology registry.
func New(registry *ontology.Registry, sensors *sensorstore.Store, sessions *sessionstore.Store, alertStore *alerts.Store, opts ...Option) *Router {
	r := &Router{
		registry:     registry,
		sensors:      sensors,
		sensorDB:     sensors.DB(),
		sessions:     sessions,
		alertStore:   alertStore,
		logger:       slog.Default(),
		now:          func() time.Time { return time.Now().UTC() },
		contextTurns: sessionstore.DefaultContextTurns,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.translator = semantic.New(registry, semantic.WithLLMClient(r.llmClient), semantic.WithLogger(r.logger), semantic.WithNow(r.now))
	r.validator = executor.New(registry.Exists)
	r.formatter = response.New(registry)
	r.evaluator = alerts.NewEvaluator(alertStore, sensors, alerts.WithNow(r.now))
	r.dispatcher = alerts.NewDispatcher(alertStore, r.logger)
	return r
}

// Request is one ask(query, session_id, feature_context) call, per spec §6.
type Request struct {
	Query          string
	SessionID      string
	FeatureContext string
}

// Ask is the Query API's single request operation (spec §6). It classifies
// intent, drives the matching pipeline, persists the resulting turn, and
// always returns a well-formed models.Result (success=false on failure,
// never a bare error for a request-shaped problem).
func (r *Router) Ask(ctx context.Context, req Request) models.Result {
	r.logState(req.SessionID, StateReceived, "query", req.Query)

	lang := detectLanguage(req.Query)
	r.logState(req.SessionID, StateLangDetected, "language", string(lang))

	turns, err := r.loadContext(ctx, req.SessionID)
	if err != nil {
		r.logState(req.SessionID, StateFailed, "stage", "context_load", "error", err.Error())
	}
	r.logState(req.SessionID, StateContextLoaded, "turns", len(turns))

	intent := Classify(req.Query)
	r.logState(req.SessionID, StateIntentClassified, "intent", string(intent))

	if intent == AlertManagement {
		result := r.routeAlertManagement(ctx, req, lang)
		r.logState(req.SessionID, StateResponded, "intent", string(intent))
		return result
	}

	result := r.routeDataQuery(ctx, req, lang, intent == Mixed, turns)
	if result.Success {
		r.persistTurn(ctx, req, result)
		r.logState(req.SessionID, StateResponded, "intent", string(intent))
	} else {
		r.logState(req.SessionID, StateFailed, "intent", string(intent))
	}
	return result
}

func (r *Router) loadContext(ctx context.Context, sessionID string) ([]models.ConversationTurn, error) {
	if sessionID == "" || r.sessions == nil {
		return nil, nil
	}
	return r.sessions.RecentTurns(ctx, sessionID, r.contextTurns)
}

func (r *Router) routeDataQuery(ctx context.Context, req Request, lang models.Language, mixed bool, turns []models.ConversationTurn) models.Result {
	now := r.now()

	ir, err := r.translator.Translate(ctx, req.Query, semantic.ComparisonHint{})
	if err != nil {
		return r.formatter.Format(response.Input{Query: req.Query, Language: lang, FeatureContext: req.FeatureContext, IR: ir, Now: now, Err: err})
	}
	r.logState(req.SessionID, StateTranslated, "entity", strings.Join(ir.Entity.Types, ","))
	r.logState(req.SessionID, StateRouted, "aggregation", string(ir.Aggregation))

	outcome, err := r.run(ctx, ir, now)
	if err != nil {
		return r.formatter.Format(response.Input{Query: req.Query, Language: lang, FeatureContext: req.FeatureContext, IR: ir, Now: now, Err: err})
	}

	result := r.formatter.Format(response.Input{
		Query:           req.Query,
		TranslatedQuery: req.Query,
		Language:        lang,
		FeatureContext:  req.FeatureContext,
		IR:              ir,
		SQL:             outcome.SQL,
		Exec:            outcome.Result,
		FallbackUsed:    outcome.FallbackUsed,
		RefinedByLLM:    outcome.RefinedByLLM,
		Now:             now,
	})

	if mixed && r.llmClient != nil {
		result.Summary = r.renderMixedNarrative(ctx, req.Query, lang, turns, result)
	}

	return result
}

func (r *Router) logState(sessionID string, state State, args ...any) {
	all := append([]any{"session_id", sessionID, "state", string(state)}, args...)
	r.logger.Info("router_state", all...)
}

func (r *Router) persistTurn(ctx context.Context, req Request, result models.Result) {
	if req.SessionID == "" || r.sessions == nil {
		return
	}
	turn := models.ConversationTurn{
		SessionID:  req.SessionID,
		Query:      req.Query,
		Response:   result.Summary,
		SQL:        result.SQL,
		SemanticIR: result.Validation.SemanticJSON,
		Metrics:    result.Metrics,
		Chart:      chartOf(result),
		CreatedAt:  r.now(),
	}
	if err := r.sessions.AppendTurn(ctx, turn); err != nil {
		r.logger.Warn("router_persist_turn_failed", "session_id", req.SessionID, "error", err.Error())
	}
}

// chartOf adapts the response's chart points into the map shape the Session
// Store persists, per §4.6's (query, response, SQL, IR, metrics, chart)
// tuple. Returns nil when no chart was rendered for this turn.
func chartOf(result models.Result) map[string]any {
	if len(result.Chart) == 0 {
		return nil
	}
	return map[string]any{
		"type":     result.ChartType,
		"points":   result.Chart,
		"metadata": result.ChartMetadata,
	}
}

func detectLanguage(query string) models.Language {
	if semantic.DetectLanguage(query) == semantic.LangPersian {
		return models.LangPersian
	}
	return models.LangEnglish
}
