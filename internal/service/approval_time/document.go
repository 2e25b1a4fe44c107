package approvaltime

import "encoding/json"

// ApprovalTimeField is the document key holding the approval time in hours.
const ApprovalTimeField = "approval_time"

// FromDocument converts a loosely typed document (decoded JSON or BSON) into a
// LoanRecord. A missing key or a null value gives an empty record, the same
// as a stored loan whose approval_time decodes to nil. Any other value must be
// a finite non-negative number, otherwise an *InvalidRecordError carrying
// index is returned.
func FromDocument(index int, doc map[string]any) (LoanRecord, error) {
	raw, ok := doc[ApprovalTimeField]
	if !ok || raw == nil {
		return LoanRecord{}, nil
	}

	hours, ok := toFloat(raw)
	if !ok {
		return LoanRecord{}, &InvalidRecordError{Index: index, Value: raw, Reason: "not numeric"}
	}
	if err := checkHours(index, hours); err != nil {
		return LoanRecord{}, err
	}
	return Hours(hours), nil
}

// FromDocuments converts every document, stopping at the first invalid one.
func FromDocuments(docs []map[string]any) ([]LoanRecord, error) {
	records := make([]LoanRecord, 0, len(docs))
	for i, doc := range docs {
		record, err := FromDocument(i, doc)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
