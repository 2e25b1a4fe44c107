// Package approvaltime computes the mean approval time, in hours, over a set of loan records.
package approvaltime

// LoanRecord is the part of a loan the average cares about. A nil ApprovalTime
// means the loan carries no approval time and is left out of the average.
type LoanRecord struct {
	ApprovalTime *float64
}

// Hours is shorthand for a record that carries an approval time.
func Hours(h float64) LoanRecord {
	return LoanRecord{ApprovalTime: &h}
}
