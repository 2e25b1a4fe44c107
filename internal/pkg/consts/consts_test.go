package consts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoanStatusIsValid(t *testing.T) {
	for _, status := range LoanStatuses {
		assert.True(t, status.IsValid(), status)
	}
	assert.False(t, LoanStatus("").IsValid())
	assert.False(t, LoanStatus("APPROVED").IsValid())
}

func TestAverageApprovalTimeCacheKey(t *testing.T) {
	assert.Equal(t, "approval_time:avg:all", AverageApprovalTimeCacheKey(""))
	assert.Equal(t, "approval_time:avg:approved", AverageApprovalTimeCacheKey("approved"))
}
