package models

import "time"

// ApprovalTimeMetricEvent is produced each time the average is recomputed.
type ApprovalTimeMetricEvent struct {
	EventID                  string    `json:"eventId"`
	Status                   string    `json:"status"`
	AverageApprovalTimeHours float64   `json:"averageApprovalTimeHours"`
	LoanCount                int       `json:"loanCount"`
	ComputedAt               time.Time `json:"computedAt"`
}
