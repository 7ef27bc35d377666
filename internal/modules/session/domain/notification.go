package domain

import "time"

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

const (
	ShortToast = 3 * time.Second
	LongToast  = 5 * time.Second
)

// Notification is an ephemeral user-facing message.
type Notification struct {
	Title       string
	Description string
	Severity    Severity
	Duration    time.Duration
}
