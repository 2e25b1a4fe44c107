package models

import "time"

// LoanApprovalRequest is the body of POST /Loan/Approve.
// Approved is a pointer so that an omitted field fails validation instead of meaning "reject".
type LoanApprovalRequest struct {
	LoanID          int64  `json:"loanId" validate:"required,gt=0"`
	Approved        *bool  `json:"approved" validate:"required"`
	ApprovedBy      string `json:"approvedBy" validate:"required,max=100"`
	RejectionReason string `json:"rejectionReason,omitempty" validate:"max=500"`
}

// ApprovalTimeSummary is what gets cached per status. Cached is set on reads
// served from Redis and is never stored.
type ApprovalTimeSummary struct {
	Status                   string    `json:"status,omitempty"`
	AverageApprovalTimeHours float64   `json:"averageApprovalTimeHours"`
	LoanCount                int       `json:"loanCount"`
	ComputedAt               time.Time `json:"computedAt"`
	Cached                   bool      `json:"-"`
}

type ApprovalTimeResponse struct {
	AverageApprovalTimeHours float64 `json:"averageApprovalTimeHours"`
	LoanCount                int     `json:"loanCount"`
	Cached                   bool    `json:"cached"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
