package models

import "time"

// LoanDecisionNotification is published for every approval or rejection.
type LoanDecisionNotification struct {
	LoanID            int64     `json:"loanId" validate:"required"`
	CustomerID        int64     `json:"customerId"`
	Status            string    `json:"status" validate:"required,oneof=approved rejected"`
	ApprovedBy        string    `json:"approvedBy" validate:"required"`
	RejectionReason   string    `json:"rejectionReason,omitempty"`
	ApprovalDate      time.Time `json:"approvalDate"`
	ApprovalTimeHours float64   `json:"approvalTimeHours"`
}
