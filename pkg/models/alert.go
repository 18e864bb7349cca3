package models

import "time"

// Operator is a threshold comparison used by an AlertSpec.
type Operator string

const (
	OpGreaterThan    Operator = ">"
	OpLessThan       Operator = "<"
	OpEqual          Operator = "="
	OpGreaterOrEqual Operator = ">="
	OpLessOrEqual    Operator = "<="
)

// Apply evaluates op(value, threshold).
func (op Operator) Apply(value, threshold float64) bool {
	switch op {
	case OpGreaterThan:
		return value > threshold
	case OpLessThan:
		return value < threshold
	case OpEqual:
		return value == threshold
	case OpGreaterOrEqual:
		return value >= threshold
	case OpLessOrEqual:
		return value <= threshold
	default:
		return false
	}
}

// Severity is the urgency tag attached to a triggered alert.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Action is the dispatch tag for a triggered alert.
type Action string

const (
	ActionEmail        Action = "email"
	ActionSMS          Action = "sms"
	ActionNotification Action = "notification"
	ActionAuto         Action = "auto"
	ActionLog          Action = "log"
)

// AlertSpec is a persisted rule comparing a sensor reading against a
// threshold with operator, severity, and optional action.
type AlertSpec struct {
	ID                string    `json:"id"`
	SessionID         string    `json:"session_id"`
	SensorType        string    `json:"sensor_type"`
	Operator          Operator  `json:"operator"`
	Threshold         float64   `json:"threshold"`
	Severity          Severity  `json:"severity"`
	TimeWindowMinutes int       `json:"time_window_minutes"`
	Action            Action    `json:"action,omitempty"`
	Active            bool      `json:"active"`
	CreatedAt         time.Time `json:"created_at"`
}

// TriggeredAlert is emitted by the evaluator when an AlertSpec's condition holds.
type TriggeredAlert struct {
	Alert     AlertSpec `json:"alert"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// ActionStatus is the outcome of an action handler invocation.
type ActionStatus string

const (
	ActionStatusSuccess ActionStatus = "success"
	ActionStatusFailed  ActionStatus = "failed"
)

// ActionLog is a per-execution record of an alert action dispatch.
type ActionLog struct {
	ID          string       `json:"id"`
	AlertID     string       `json:"alert_id"`
	ActionType  Action       `json:"action_type"`
	Status      ActionStatus `json:"status"`
	Message     string       `json:"message,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
	CompletedAt time.Time    `json:"completed_at"`
	SessionID   string       `json:"session_id"`
}
