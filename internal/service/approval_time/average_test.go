package approvaltime

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverageApprovalTime(t *testing.T) {
	tests := []struct {
		name     string
		records  []LoanRecord
		expected float64
	}{
		{name: "nil input", records: nil, expected: 0},
		{name: "empty input", records: []LoanRecord{}, expected: 0},
		{name: "all missing", records: []LoanRecord{{}, {}, {}}, expected: 0},
		{name: "single record", records: []LoanRecord{Hours(10)}, expected: 10},
		{name: "two records", records: []LoanRecord{Hours(10), Hours(20)}, expected: 15},
		{name: "missing is skipped not zero", records: []LoanRecord{Hours(10), {}, Hours(30)}, expected: 20},
		{name: "zero hours counts", records: []LoanRecord{Hours(0), Hours(8)}, expected: 4},
		{name: "fractional hours", records: []LoanRecord{Hours(1.5), Hours(2.5), Hours(3.5)}, expected: 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AverageApprovalTime(tt.records)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestAverageApprovalTimeInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		reason string
	}{
		{name: "negative", value: -1, reason: "negative"},
		{name: "nan", value: math.NaN(), reason: "not a number"},
		{name: "positive infinity", value: math.Inf(1), reason: "infinite"},
		{name: "negative infinity", value: math.Inf(-1), reason: "infinite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []LoanRecord{Hours(5), {}, Hours(tt.value), Hours(-7)}
			got, err := AverageApprovalTime(records)

			var invalid *InvalidRecordError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, 2, invalid.Index)
			assert.Equal(t, tt.reason, invalid.Reason)
			assert.Zero(t, got)
			assert.Contains(t, err.Error(), "record 2")
		})
	}
}

func TestAverageApprovalTimeOrderIndependent(t *testing.T) {
	records := []LoanRecord{Hours(3), {}, Hours(7.25), Hours(12), {}, Hours(48), Hours(0.5)}
	expected, err := AverageApprovalTime(records)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]LoanRecord(nil), records...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := AverageApprovalTime(shuffled)
		require.NoError(t, err)
		assert.InDelta(t, expected, got, 1e-9)
	}
}

func TestAverageApprovalTimeIdempotent(t *testing.T) {
	records := []LoanRecord{Hours(10), {}, Hours(30)}

	first, err := AverageApprovalTime(records)
	require.NoError(t, err)
	second, err := AverageApprovalTime(records)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 10.0, *records[0].ApprovalTime)
	assert.Nil(t, records[1].ApprovalTime)
}

func TestAccumulator(t *testing.T) {
	var empty Accumulator
	assert.Equal(t, 0.0, empty.Average())

	var a Accumulator
	a.Add(10)
	a.Add(20)
	assert.Equal(t, 2, a.Count)
	assert.Equal(t, 15.0, a.Average())

	var b Accumulator
	b.Add(30)
	a.Merge(b)
	assert.Equal(t, Accumulator{Mean: 20, Count: 3}, a)
	assert.Equal(t, 20.0, a.Average())

	a.Merge(Accumulator{})
	assert.Equal(t, 3, a.Count)

	var fresh Accumulator
	fresh.Merge(a)
	assert.Equal(t, a, fresh)
}

func TestAverageApprovalTimeLargeValuesStayFinite(t *testing.T) {
	tests := []struct {
		name     string
		records  []LoanRecord
		expected float64
	}{
		{name: "two near max", records: []LoanRecord{Hours(1e308), Hours(1e308)}, expected: 1e308},
		{name: "max float and zero", records: []LoanRecord{Hours(math.MaxFloat64), Hours(0)}, expected: math.MaxFloat64 / 2},
		{name: "many large", records: []LoanRecord{Hours(1.5e308), Hours(1.5e308), Hours(1.5e308), {}}, expected: 1.5e308},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AverageApprovalTime(tt.records)
			require.NoError(t, err)
			assert.False(t, math.IsInf(got, 0))
			assert.InEpsilon(t, tt.expected, got, 1e-12)
		})
	}
}

func TestAccumulatorMergeLargeValuesStaysFinite(t *testing.T) {
	var a, b Accumulator
	a.Add(1e308)
	b.Add(1e308)
	b.Add(1e308)

	a.Merge(b)

	assert.Equal(t, 3, a.Count)
	assert.False(t, math.IsInf(a.Average(), 0))
	assert.InEpsilon(t, 1e308, a.Average(), 1e-12)
}

func TestSummarize(t *testing.T) {
	acc, err := Summarize([]LoanRecord{Hours(2), {}, Hours(4)})
	require.NoError(t, err)
	assert.Equal(t, Accumulator{Mean: 3, Count: 2}, acc)
}
