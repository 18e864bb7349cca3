package alerts

import (
	"context"
	"testing"

	"github.com/haasonsaas/agrisense/pkg/models"
)

func TestStore_CreateListDeleteRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := newTestAlertStore(t)

	created, err := store.Create(ctx, models.AlertSpec{
		SessionID: "s1", SensorType: "humidity", Operator: models.OpGreaterThan,
		Threshold: 80, Severity: models.SeverityWarning, Active: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a generated ID")
	}

	list, err := store.List(ctx, "s1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("List = %v", list)
	}
	if list[0].SensorType != "humidity" || list[0].Threshold != 80 {
		t.Errorf("round-tripped spec mismatch: %+v", list[0])
	}

	ok, err := store.Delete(ctx, created.ID, "s1")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !ok {
		t.Fatal("expected Delete to report a row removed")
	}

	list, err = store.List(ctx, "s1")
	if err != nil {
		t.Fatalf("List after delete: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("List after delete = %v, want empty", list)
	}
}

func TestStore_DeleteIsScopedToSession(t *testing.T) {
	ctx := context.Background()
	store := newTestAlertStore(t)

	created, err := store.Create(ctx, models.AlertSpec{SessionID: "s1", SensorType: "humidity", Operator: models.OpGreaterThan, Threshold: 80, Active: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	ok, err := store.Delete(ctx, created.ID, "different-session")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok {
		t.Error("expected Delete to fail for a mismatched session")
	}
}

func TestStore_ListActiveExcludesInactive(t *testing.T) {
	ctx := context.Background()
	store := newTestAlertStore(t)

	if _, err := store.Create(ctx, models.AlertSpec{SessionID: "s1", SensorType: "humidity", Operator: models.OpGreaterThan, Threshold: 80, Active: true}); err != nil {
		t.Fatalf("Create active: %v", err)
	}
	if _, err := store.Create(ctx, models.AlertSpec{SessionID: "s2", SensorType: "temperature", Operator: models.OpGreaterThan, Threshold: 30, Active: false}); err != nil {
		t.Fatalf("Create inactive: %v", err)
	}

	active, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 1 || active[0].SensorType != "humidity" {
		t.Errorf("ListActive = %v", active)
	}
}
