package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/haasonsaas/agrisense/internal/datetime"
	"github.com/haasonsaas/agrisense/pkg/models"
)

// Handler dispatches one triggered alert and reports its outcome. Actual
// delivery mechanisms (SMTP, an SMS gateway, a push service) are out of
// scope; handlers log intent.
type Handler func(ctx context.Context, logger *slog.Logger, t models.TriggeredAlert) (status models.ActionStatus, message string)

// Dispatcher owns the fixed set of action handlers and records every
// invocation to the action log.
type Dispatcher struct {
	store    *Store
	handlers map[models.Action]Handler
	logger   *slog.Logger
	now      func() time.Time
}

// NewDispatcher builds a Dispatcher with the default handler set
// {email, sms, notification, auto, log}.
func NewDispatcher(store *Store, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
	d.handlers = map[models.Action]Handler{
		models.ActionEmail:        logOnlyHandler("email"),
		models.ActionSMS:          logOnlyHandler("sms"),
		models.ActionNotification: logOnlyHandler("notification"),
		models.ActionAuto:         logOnlyHandler("auto"),
		models.ActionLog:          logOnlyHandler("log"),
	}
	return d
}

func logOnlyHandler(kind string) Handler {
	return func(ctx context.Context, logger *slog.Logger, t models.TriggeredAlert) (models.ActionStatus, string) {
		age := datetime.FormatRelativeTime(t.Timestamp, time.Now().UTC())
		logger.Info("alert action dispatched",
			"action", kind,
			"alert_id", t.Alert.ID,
			"sensor_type", t.Alert.SensorType,
			"value", t.Value,
			"threshold", t.Alert.Threshold,
			"reading_age", age,
		)
		return models.ActionStatusSuccess, fmt.Sprintf("%s intent logged for %s (reading from %s)", kind, t.Alert.SensorType, age)
	}
}

// Dispatch runs the handler for t.Alert.Action (defaulting to "log" when
// unset), records the outcome to the action log, and returns it.
func (d *Dispatcher) Dispatch(ctx context.Context, t models.TriggeredAlert) (models.ActionLog, error) {
	action := t.Alert.Action
	if action == "" {
		action = models.ActionLog
	}
	handler, ok := d.handlers[action]
	if !ok {
		handler = logOnlyHandler(string(action))
	}

	started := d.now()
	status, message := handler(ctx, d.logger, t)
	completed := d.now()

	entry := models.ActionLog{
		AlertID:     t.Alert.ID,
		ActionType:  action,
		Status:      status,
		Message:     message,
		Timestamp:   started,
		CompletedAt: completed,
		SessionID:   t.Alert.SessionID,
	}
	if err := d.store.RecordAction(ctx, entry); err != nil {
		return entry, fmt.Errorf("alerts: dispatch: %w", err)
	}
	return entry, nil
}
