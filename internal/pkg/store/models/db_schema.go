package models

import (
	"time"

	"loan-approval-metrics/internal/pkg/consts"
	approvaltime "loan-approval-metrics/internal/service/approval_time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Loan struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	LoanID          int64              `bson:"loanId" json:"loanId"`
	CustomerID      int64              `bson:"customerId" json:"customerId"`
	LoanAmount      float64            `bson:"loanAmount" json:"loanAmount"`
	InterestRate    float64            `bson:"interestRate" json:"interestRate"`
	TermMonths      int                `bson:"termMonths" json:"termMonths"`
	Status          consts.LoanStatus  `bson:"status" json:"status"`
	ApplicationDate time.Time          `bson:"applicationDate" json:"applicationDate"`
	ApprovalDate    *time.Time         `bson:"approvalDate,omitempty" json:"approvalDate,omitempty"`
	ApprovedBy      string             `bson:"approvedBy,omitempty" json:"approvedBy,omitempty"`
	RejectionReason string             `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	ApprovalTime    *float64           `bson:"approval_time,omitempty" json:"approvalTime,omitempty"`
}

// LoanDecision is the set of fields written when a pending loan is approved or rejected.
type LoanDecision struct {
	Status          consts.LoanStatus `bson:"status"`
	ApprovalDate    time.Time         `bson:"approvalDate"`
	ApprovedBy      string            `bson:"approvedBy"`
	RejectionReason string            `bson:"rejectionReason,omitempty"`
	ApprovalTime    float64           `bson:"approval_time"`
}

// ApprovalHours returns the stored approval time, else the hours between
// application and approval, or nil when the loan has no approval date.
func (l Loan) ApprovalHours() *float64 {
	if l.ApprovalTime != nil {
		return l.ApprovalTime
	}
	if l.ApprovalDate == nil || l.ApplicationDate.IsZero() {
		return nil
	}
	hours := HoursBetween(l.ApplicationDate, *l.ApprovalDate)
	return &hours
}

// ApprovalRecord projects the loan onto the record used by the average.
func (l Loan) ApprovalRecord() approvaltime.LoanRecord {
	return approvaltime.LoanRecord{ApprovalTime: l.ApprovalHours()}
}

// ApprovalRecords projects every loan, keeping order.
func ApprovalRecords(loans []Loan) []approvaltime.LoanRecord {
	records := make([]approvaltime.LoanRecord, len(loans))
	for i, loan := range loans {
		records[i] = loan.ApprovalRecord()
	}
	return records
}

// HoursBetween is the duration from start to end in fractional hours. An end
// before start (clock skew, hand-edited dates) counts as 0.
func HoursBetween(start, end time.Time) float64 {
	if end.Before(start) {
		return 0
	}
	return end.Sub(start).Hours()
}
