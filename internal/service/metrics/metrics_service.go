package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"loan-approval-metrics/internal/pkg/consts"
	"loan-approval-metrics/internal/pkg/log_messages"
	"loan-approval-metrics/internal/pkg/logger"
	"loan-approval-metrics/internal/pkg/models"
	storemodels "loan-approval-metrics/internal/pkg/store/models"
	approvaltime "loan-approval-metrics/internal/service/approval_time"
	"loan-approval-metrics/internal/service/interfaces"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrInvalidStatus = errors.New("invalid loan status")

// Settings tunes caching and when the average is split across the worker pool.
type Settings struct {
	CacheTTL          time.Duration
	ParallelThreshold int
	Partitions        int
}

type MetricsService struct {
	loanRepo interfaces.LoanRepositoryInterface
	cache    interfaces.RedisStoreOperations
	producer interfaces.KafkaProducerInterface
	pool     approvaltime.Submitter
	settings Settings

	// generation is bumped by Invalidate. An average computed across a bump
	// is returned but not cached. Other replicas only see the key deletes.
	generation atomic.Uint64

	now        func() time.Time
	newEventID func() string
}

// NewMetricsService wires the average approval time use case. producer and
// pool may be nil; without a pool every average is computed inline.
func NewMetricsService(
	loanRepo interfaces.LoanRepositoryInterface,
	cache interfaces.RedisStoreOperations,
	producer interfaces.KafkaProducerInterface,
	pool approvaltime.Submitter,
	settings Settings,
) *MetricsService {
	return &MetricsService{
		loanRepo:   loanRepo,
		cache:      cache,
		producer:   producer,
		pool:       pool,
		settings:   settings,
		now:        time.Now,
		newEventID: uuid.NewString,
	}
}

// AverageApprovalTime returns the average approval time in hours over loans
// with the given status, or over all loans when status is empty.
func (s *MetricsService) AverageApprovalTime(ctx context.Context, status string) (*models.ApprovalTimeSummary, error) {
	if status != "" && !consts.LoanStatus(status).IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	key := consts.AverageApprovalTimeCacheKey(status)
	if summary, ok := s.readCache(ctx, key); ok {
		logger.CtxDebug(ctx, log_messages.AverageApprovalTimeCacheHit, zap.String("key", key))
		return summary, nil
	}

	generation := s.generation.Load()
	summary, err := s.compute(ctx, status)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorComputingAverage, err, zap.String("status", status))
		return nil, err
	}

	if s.generation.Load() == generation {
		s.writeCache(ctx, key, summary)
	} else {
		logger.CtxDebug(ctx, "Average invalidated while computing, not caching", zap.String("key", key))
	}
	s.publishEvent(ctx, summary)

	return summary, nil
}

// Invalidate drops every cached average. Called after a loan decision.
func (s *MetricsService) Invalidate(ctx context.Context) error {
	s.generation.Add(1)
	keys := make([]string, 0, len(consts.LoanStatuses)+1)
	keys = append(keys, consts.AverageApprovalTimeCacheKey(""))
	for _, status := range consts.LoanStatuses {
		keys = append(keys, consts.AverageApprovalTimeCacheKey(string(status)))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("invalidate cached averages: %w", err)
	}
	return nil
}

func (s *MetricsService) compute(ctx context.Context, status string) (*models.ApprovalTimeSummary, error) {
	loans, err := s.loanRepo.GetLoansWithApprovalTime(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("fetch loans: %w", err)
	}
	records := storemodels.ApprovalRecords(loans)

	var acc approvaltime.Accumulator
	if s.pool != nil && s.settings.ParallelThreshold > 0 && len(records) >= s.settings.ParallelThreshold {
		acc, err = approvaltime.SummarizeParallel(ctx, s.pool, records, s.settings.Partitions)
	} else {
		acc, err = approvaltime.Summarize(records)
	}
	if err != nil {
		return nil, err
	}

	summary := &models.ApprovalTimeSummary{
		Status:                   status,
		AverageApprovalTimeHours: acc.Average(),
		LoanCount:                acc.Count,
		ComputedAt:               s.now().UTC(),
	}
	logger.CtxInfo(ctx, log_messages.AverageApprovalTimeComputed,
		zap.String("status", status),
		zap.Float64("average_hours", summary.AverageApprovalTimeHours),
		zap.Int("loan_count", summary.LoanCount),
	)
	return summary, nil
}

func (s *MetricsService) readCache(ctx context.Context, key string) (*models.ApprovalTimeSummary, bool) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.CtxWarn(ctx, log_messages.ErrorReadingCachedAverage, zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var summary models.ApprovalTimeSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		logger.CtxWarn(ctx, log_messages.ErrorDecodingCachedAverage, zap.String("key", key), zap.Error(err))
		return nil, false
	}
	summary.Cached = true
	return &summary, true
}

func (s *MetricsService) writeCache(ctx context.Context, key string, summary *models.ApprovalTimeSummary) {
	data, err := json.Marshal(summary)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorMarshallingJSON, err)
		return
	}
	if err := s.cache.Set(ctx, key, data, s.settings.CacheTTL); err != nil {
		logger.CtxWarn(ctx, log_messages.ErrorWritingCachedAverage, zap.String("key", key), zap.Error(err))
	}
}

func (s *MetricsService) publishEvent(ctx context.Context, summary *models.ApprovalTimeSummary) {
	if s.producer == nil {
		return
	}
	status := summary.Status
	if status == "" {
		status = consts.AllStatusesCacheSuffix
	}
	event := models.ApprovalTimeMetricEvent{
		EventID:                  s.newEventID(),
		Status:                   status,
		AverageApprovalTimeHours: summary.AverageApprovalTimeHours,
		LoanCount:                summary.LoanCount,
		ComputedAt:               summary.ComputedAt,
	}
	if err := s.producer.Publish(ctx, status, event); err != nil {
		logger.CtxError(ctx, log_messages.ErrorPublishingMetricEvent, err, zap.String("event_id", event.EventID))
		return
	}
	logger.CtxDebug(ctx, log_messages.MetricEventPublished, zap.String("event_id", event.EventID))
}
