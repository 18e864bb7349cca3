package alerts

import (
	"testing"

	"github.com/haasonsaas/agrisense/pkg/models"
)

func TestParse_AlertMeWhenHumidityAbove80(t *testing.T) {
	got := Parse("Alert me when humidity > 80", "session-1")
	if got.Spec.Operator != models.OpGreaterThan {
		t.Errorf("Operator = %v, want >", got.Spec.Operator)
	}
	if got.Spec.Threshold != 80 {
		t.Errorf("Threshold = %v, want 80", got.Spec.Threshold)
	}
	if got.Spec.Severity != models.SeverityWarning {
		t.Errorf("Severity = %v, want warning default", got.Spec.Severity)
	}
	if !got.Spec.Active {
		t.Error("Active should default true")
	}
	if got.EntityPhrase != "humidity" {
		t.Errorf("EntityPhrase = %q, want %q", got.EntityPhrase, "humidity")
	}
}

func TestParse_CriticalSeverityAndEmailAction(t *testing.T) {
	got := Parse("send me an email when soil moisture is below 20, this is critical", "session-1")
	if got.Spec.Operator != models.OpLessThan {
		t.Errorf("Operator = %v, want <", got.Spec.Operator)
	}
	if got.Spec.Threshold != 20 {
		t.Errorf("Threshold = %v, want 20", got.Spec.Threshold)
	}
	if got.Spec.Severity != models.SeverityCritical {
		t.Errorf("Severity = %v, want critical", got.Spec.Severity)
	}
	if got.Spec.Action != models.ActionEmail {
		t.Errorf("Action = %v, want email", got.Spec.Action)
	}
}

func TestParse_TimeWindowExpression(t *testing.T) {
	got := Parse("notify me if average temperature over the last 3 hours exceeds 30", "session-1")
	if got.Spec.TimeWindowMinutes != 180 {
		t.Errorf("TimeWindowMinutes = %v, want 180", got.Spec.TimeWindowMinutes)
	}
	if got.Spec.Operator != models.OpGreaterThan {
		t.Errorf("Operator = %v, want >", got.Spec.Operator)
	}
}

func TestParse_DefaultsWhenNoCuesPresent(t *testing.T) {
	got := Parse("water usage 500", "session-1")
	if got.Spec.Operator != models.OpGreaterThan {
		t.Errorf("Operator = %v, want > default", got.Spec.Operator)
	}
	if got.Spec.Action != "" {
		t.Errorf("Action = %v, want none", got.Spec.Action)
	}
	if got.Spec.TimeWindowMinutes != 0 {
		t.Errorf("TimeWindowMinutes = %v, want 0", got.Spec.TimeWindowMinutes)
	}
}
