package consts

type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "pending"
	LoanStatusApproved  LoanStatus = "approved"
	LoanStatusRejected  LoanStatus = "rejected"
	LoanStatusDisbursed LoanStatus = "disbursed"
	LoanStatusClosed    LoanStatus = "closed"
)

var LoanStatuses = []LoanStatus{
	LoanStatusPending,
	LoanStatusApproved,
	LoanStatusRejected,
	LoanStatusDisbursed,
	LoanStatusClosed,
}

// IsValid reports whether s is one of the known loan statuses.
func (s LoanStatus) IsValid() bool {
	for _, status := range LoanStatuses {
		if s == status {
			return true
		}
	}
	return false
}
