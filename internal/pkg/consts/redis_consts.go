package consts

const (
	AverageApprovalTimeKeyPrefix = "approval_time:avg:"
	AllStatusesCacheSuffix       = "all"
)

// AverageApprovalTimeCacheKey builds the cache key for the average over loans with the given status.
// An empty status means all loans.
func AverageApprovalTimeCacheKey(status string) string {
	if status == "" {
		return AverageApprovalTimeKeyPrefix + AllStatusesCacheSuffix
	}
	return AverageApprovalTimeKeyPrefix + status
}
