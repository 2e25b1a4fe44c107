package approvaltime

import "fmt"

// InvalidRecordError reports a record whose approval_time is present but is
// not a usable non-negative number.
type InvalidRecordError struct {
	Index  int
	Value  any
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid approval_time at record %d (%v): %s", e.Index, e.Value, e.Reason)
}
