package sessionstore

import (
	"context"
	"testing"
	"time"

	"github.com/haasonsaas/agrisense/pkg/models"
)

func TestSweeper_TickMarksIdleAndDeletesExpired(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	current := base

	if err := store.AppendTurn(ctx, models.ConversationTurn{SessionID: "s1", CreatedAt: base.Add(-40 * time.Minute)}); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}

	sweeper := NewSweeper(store,
		WithInterval(10*time.Millisecond),
		WithIdleAfter(30*time.Minute),
		WithRetain(7*24*time.Hour),
		WithNow(func() time.Time { return current }),
	)

	sweeper.tick(ctx)

	md, ok, err := store.Metadata(ctx, "s1")
	if err != nil || !ok {
		t.Fatalf("Metadata: ok=%v err=%v", ok, err)
	}
	if md.IsActive {
		t.Error("expected session to be marked inactive after tick")
	}
}

func TestSweeper_StartStop(t *testing.T) {
	store := newTestStore(t)
	sweeper := NewSweeper(store, WithInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	sweeper.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()
	sweeper.wg.Wait()
}
