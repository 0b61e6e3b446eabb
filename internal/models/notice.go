package models

import "time"

type Severity string

const (
	SeverityInfo        Severity = "info"
	SeveritySuccess     Severity = "success"
	SeverityDestructive Severity = "destructive"
)

// Notice is a human-readable record of a state change or a refused action.
type Notice struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	CreatedAt   time.Time `json:"created_at"`
}
