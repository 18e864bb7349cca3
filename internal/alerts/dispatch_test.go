package alerts

import (
	"context"
	"testing"

	"github.com/haasonsaas/agrisense/pkg/models"
)

func TestDispatcher_LogsAndRecordsAction(t *testing.T) {
	ctx := context.Background()
	store := newTestAlertStore(t)
	d := NewDispatcher(store, nil)

	triggered := models.TriggeredAlert{
		Alert: models.AlertSpec{ID: "alert-1", SessionID: "s1", SensorType: "humidity", Threshold: 80, Action: models.ActionEmail},
		Value: 85,
	}
	log, err := d.Dispatch(ctx, triggered)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if log.Status != models.ActionStatusSuccess {
		t.Errorf("Status = %v, want success", log.Status)
	}
	if log.ActionType != models.ActionEmail {
		t.Errorf("ActionType = %v, want email", log.ActionType)
	}

	logged, err := store.ListActions(ctx, "s1")
	if err != nil {
		t.Fatalf("ListActions: %v", err)
	}
	if len(logged) != 1 || logged[0].AlertID != "alert-1" {
		t.Errorf("logged actions = %v", logged)
	}
}

func TestDispatcher_DefaultsToLogActionWhenUnset(t *testing.T) {
	ctx := context.Background()
	store := newTestAlertStore(t)
	d := NewDispatcher(store, nil)

	triggered := models.TriggeredAlert{
		Alert: models.AlertSpec{ID: "alert-2", SessionID: "s1", SensorType: "temperature", Threshold: 30},
		Value: 35,
	}
	log, err := d.Dispatch(ctx, triggered)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if log.ActionType != models.ActionLog {
		t.Errorf("ActionType = %v, want log default", log.ActionType)
	}
}

func TestDispatcher_CompletedAtNotBeforeTimestamp(t *testing.T) {
	ctx := context.Background()
	store := newTestAlertStore(t)
	d := NewDispatcher(store, nil)

	triggered := models.TriggeredAlert{
		Alert: models.AlertSpec{ID: "alert-3", SessionID: "s1", SensorType: "humidity", Action: models.ActionSMS},
	}
	log, err := d.Dispatch(ctx, triggered)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if log.CompletedAt.Before(log.Timestamp) {
		t.Errorf("CompletedAt %v before Timestamp %v", log.CompletedAt, log.Timestamp)
	}
}
