package semantic

import (
	"testing"

	"github.com/haasonsaas/agrisense/pkg/models"
)

func TestParseTimeExpression_English(t *testing.T) {
	tests := []struct {
		text  string
		token models.RangeToken
	}{
		{"temperature 3 hours ago", "3_hours_ago"},
		{"average humidity last 24 hours", "last_24_hours"},
		{"pressure 2 days ago", "2_days_ago"},
		{"average soil moisture past 7 days", "last_7_days"},
		{"readings this week", "this_week"},
		{"compare this week vs last week", "this_week"},
		{"temperature today", "today"},
		{"temperature yesterday", "yesterday"},
	}
	for _, tt := range tests {
		token, _, found := ParseTimeExpression(tt.text)
		if !found {
			t.Errorf("%q: expected a match", tt.text)
			continue
		}
		if token != tt.token {
			t.Errorf("%q: token = %q, want %q", tt.text, token, tt.token)
		}
	}
}

func TestParseTimeExpression_Persian(t *testing.T) {
	tests := []struct {
		text  string
		token models.RangeToken
	}{
		{"دمای ۳ ساعت پیش", "3_hours_ago"},
		{"رطوبت خاک امروز", "today"},
		{"فشار دیروز", "yesterday"},
	}
	for _, tt := range tests {
		token, _, found := ParseTimeExpression(tt.text)
		if !found {
			t.Errorf("%q: expected a match", tt.text)
			continue
		}
		if token != tt.token {
			t.Errorf("%q: token = %q, want %q", tt.text, token, tt.token)
		}
	}
}

func TestParseTimeExpression_NoMatch(t *testing.T) {
	_, _, found := ParseTimeExpression("what is the temperature")
	if found {
		t.Error("expected no time expression found")
	}
}
