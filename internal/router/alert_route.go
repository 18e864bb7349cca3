package router

import (
	"context"
	"strconv"

	"github.com/haasonsaas/agrisense/internal/alerts"
	"github.com/haasonsaas/agrisense/internal/queryerr"
	"github.com/haasonsaas/agrisense/internal/response"
	"github.com/haasonsaas/agrisense/pkg/models"
)

// routeAlertManagement handles a free-form ask() query that Classify routed
// to AlertManagement: it parses the request into an AlertSpec, resolves the
// sensor phrase against the Ontology Registry, and persists it.
func (r *Router) routeAlertManagement(ctx context.Context, req Request, lang models.Language) models.Result {
	spec, err := r.CreateAlertFromText(ctx, req.Query, req.SessionID)
	now := r.now()
	if err != nil {
		return r.formatter.Format(response.Input{Query: req.Query, Language: lang, FeatureContext: req.FeatureContext, Now: now, Err: err})
	}

	return models.Result{
		Success:   true,
		Summary:   alertCreatedSummary(spec, lang),
		Metrics:   map[string]any{"alert_id": spec.ID, "sensor_type": spec.SensorType, "threshold": spec.Threshold},
		Timestamp: now,
		Validation: models.Validation{
			QueryValid:       true,
			ExecutionSuccess: true,
			SensorTypes:      []string{spec.SensorType},
		},
	}
}

func alertCreatedSummary(spec models.AlertSpec, lang models.Language) string {
	if lang == models.LangPersian {
		return "هشدار برای " + spec.SensorType + " ایجاد شد."
	}
	return "Created an alert for " + spec.SensorType + " " + string(spec.Operator) + " " + formatThreshold(spec.Threshold) + "."
}

func formatThreshold(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// CreateAlertFromText parses nl into an AlertSpec, resolves its sensor
// phrase via the Ontology Registry, and persists it. This backs both
// ask()'s alert_management route and the dedicated create_alert(nl,
// session_id) ingress named in spec §6.
func (r *Router) CreateAlertFromText(ctx context.Context, nl, sessionID string) (models.AlertSpec, error) {
	parsed := alerts.Parse(nl, sessionID)
	lang := detectLanguage(nl)

	match, ok := r.registry.LookupSynonym(parsed.EntityPhrase, string(lang))
	if !ok {
		return models.AlertSpec{}, queryerr.New(queryerr.KindMappingError, "could not identify a sensor in: "+parsed.EntityPhrase)
	}

	spec := parsed.Spec
	spec.SensorType = match.Type
	return r.alertStore.Create(ctx, spec)
}

// ListAlerts is the list_alerts(session_id) ingress.
func (r *Router) ListAlerts(ctx context.Context, sessionID string) ([]models.AlertSpec, error) {
	return r.alertStore.List(ctx, sessionID)
}

// DeleteAlert is the delete_alert(id, session_id) ingress.
func (r *Router) DeleteAlert(ctx context.Context, id, sessionID string) (bool, error) {
	return r.alertStore.Delete(ctx, id, sessionID)
}

// MonitorAlerts is the monitor_alerts(session_id) -> triggered[] ingress:
// it ticks the evaluator for sessionID and dispatches every triggered alert
// synchronously, per spec §4.8.
func (r *Router) MonitorAlerts(ctx context.Context, sessionID string) ([]models.TriggeredAlert, error) {
	triggered, err := r.evaluator.Tick(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for _, t := range triggered {
		if _, err := r.dispatcher.Dispatch(ctx, t); err != nil {
			r.logger.Warn("router_alert_dispatch_failed", "alert_id", t.Alert.ID, "error", err.Error())
		}
	}
	return triggered, nil
}

// ListActions is the list_actions(session_id) ingress.
func (r *Router) ListActions(ctx context.Context, sessionID string) ([]models.ActionLog, error) {
	return r.alertStore.ListActions(ctx, sessionID)
}
