package approvaltime

import "math"

// AverageApprovalTime returns the mean ApprovalTime over the records that carry
// one. Records without an approval time are skipped. The result is 0 when no
// record carries one. The first negative, NaN or infinite value stops the
// computation with an *InvalidRecordError.
func AverageApprovalTime(records []LoanRecord) (float64, error) {
	acc, err := Summarize(records)
	if err != nil {
		return 0, err
	}
	return acc.Average(), nil
}

// Summarize reduces records into an Accumulator.
func Summarize(records []LoanRecord) (Accumulator, error) {
	return accumulate(records, 0)
}

// accumulate reduces records; offset is the index of records[0] in the caller's
// slice so that errors point at the original position.
func accumulate(records []LoanRecord, offset int) (Accumulator, error) {
	var acc Accumulator
	for i, record := range records {
		if record.ApprovalTime == nil {
			continue
		}
		hours := *record.ApprovalTime
		if err := checkHours(offset+i, hours); err != nil {
			return Accumulator{}, err
		}
		acc.Add(hours)
	}
	return acc, nil
}

func checkHours(index int, hours float64) error {
	switch {
	case math.IsNaN(hours):
		return &InvalidRecordError{Index: index, Value: hours, Reason: "not a number"}
	case math.IsInf(hours, 0):
		return &InvalidRecordError{Index: index, Value: hours, Reason: "infinite"}
	case hours < 0:
		return &InvalidRecordError{Index: index, Value: hours, Reason: "negative"}
	}
	return nil
}
