package approval

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"loan-approval-metrics/internal/pkg/consts"
	"loan-approval-metrics/internal/pkg/log_messages"
	"loan-approval-metrics/internal/pkg/logger"
	"loan-approval-metrics/internal/pkg/models"
	storemodels "loan-approval-metrics/internal/pkg/store/models"
	"loan-approval-metrics/internal/service/interfaces"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// CacheInvalidator drops cached averages once a decision changes them.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

type ApprovalService struct {
	loanRepo          interfaces.LoanRepositoryInterface
	cache             CacheInvalidator
	publisher         interfaces.PubSubPublisherInterface
	notificationTopic string
	validate          *validator.Validate
	now               func() time.Time
}

// NewApprovalService builds the approval use case. cache and publisher may be nil.
func NewApprovalService(
	loanRepo interfaces.LoanRepositoryInterface,
	cache CacheInvalidator,
	publisher interfaces.PubSubPublisherInterface,
	notificationTopic string,
) *ApprovalService {
	return &ApprovalService{
		loanRepo:          loanRepo,
		cache:             cache,
		publisher:         publisher,
		notificationTopic: notificationTopic,
		validate:          newValidator(),
		now:               time.Now,
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Approve records an approval or rejection on a pending loan and returns the
// updated loan. The approval time is the number of hours from application to now.
func (s *ApprovalService) Approve(ctx context.Context, req models.LoanApprovalRequest) (*storemodels.Loan, error) {
	start := time.Now()
	logger.CtxInfo(ctx, log_messages.LoanApprovalRequestReceived, zap.Int64("loan_id", req.LoanID))

	loan, err := s.approve(ctx, req)
	if err != nil {
		logger.CtxWarn(ctx, log_messages.LoanApprovalFailed,
			zap.Int64("loan_id", req.LoanID),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	logger.CtxInfo(ctx, log_messages.LoanApprovalProcessed,
		zap.Int64("loan_id", loan.LoanID),
		zap.String("status", string(loan.Status)),
		zap.Duration("duration", time.Since(start)),
	)
	return loan, nil
}

func (s *ApprovalService) approve(ctx context.Context, req models.LoanApprovalRequest) (*storemodels.Loan, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	loan, err := s.loanRepo.GetLoanByLoanID(ctx, req.LoanID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("loan %d: %w", req.LoanID, ErrLoanNotFound)
		}
		return nil, fmt.Errorf("get loan %d: %w", req.LoanID, err)
	}
	if loan.Status != consts.LoanStatusPending {
		return nil, fmt.Errorf("loan %d has status %s: %w", req.LoanID, loan.Status, ErrLoanNotPending)
	}

	decision := s.buildDecision(*loan, req)
	if err := s.loanRepo.ApplyDecision(ctx, req.LoanID, decision); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("loan %d: %w", req.LoanID, ErrLoanNotPending)
		}
		return nil, fmt.Errorf("apply decision on loan %d: %w", req.LoanID, err)
	}

	loan.Status = decision.Status
	approvalDate := decision.ApprovalDate
	loan.ApprovalDate = &approvalDate
	loan.ApprovedBy = decision.ApprovedBy
	loan.RejectionReason = decision.RejectionReason
	approvalTime := decision.ApprovalTime
	loan.ApprovalTime = &approvalTime

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			logger.CtxWarn(ctx, log_messages.ErrorInvalidatingCachedAverage, zap.Error(err))
		}
	}
	s.notify(ctx, loan)

	return loan, nil
}

func (s *ApprovalService) validateRequest(req models.LoanApprovalRequest) error {
	if err := s.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return toValidationError(fieldErrs[0])
		}
		return &ValidationError{Field: "request", Message: err.Error()}
	}
	if strings.TrimSpace(req.ApprovedBy) == "" {
		return &ValidationError{Field: "approvedBy", Message: "is required"}
	}
	if !*req.Approved && strings.TrimSpace(req.RejectionReason) == "" {
		return &ValidationError{Field: "rejectionReason", Message: "is required when rejecting a loan"}
	}
	return nil
}

func toValidationError(fe validator.FieldError) *ValidationError {
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "gt":
		msg = "must be greater than " + fe.Param()
	case "max":
		msg = "must be at most " + fe.Param() + " characters"
	default:
		msg = "failed on " + fe.Tag() + " validation"
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}

func (s *ApprovalService) buildDecision(loan storemodels.Loan, req models.LoanApprovalRequest) storemodels.LoanDecision {
	now := s.now().UTC()

	decision := storemodels.LoanDecision{
		Status:       consts.LoanStatusApproved,
		ApprovalDate: now,
		ApprovedBy:   strings.TrimSpace(req.ApprovedBy),
		ApprovalTime: storemodels.HoursBetween(loan.ApplicationDate, now),
	}
	if !*req.Approved {
		decision.Status = consts.LoanStatusRejected
		decision.RejectionReason = strings.TrimSpace(req.RejectionReason)
	}
	return decision
}

func (s *ApprovalService) notify(ctx context.Context, loan *storemodels.Loan) {
	if s.publisher == nil || s.notificationTopic == "" {
		return
	}
	notification := models.LoanDecisionNotification{
		LoanID:            loan.LoanID,
		CustomerID:        loan.CustomerID,
		Status:            string(loan.Status),
		ApprovedBy:        loan.ApprovedBy,
		RejectionReason:   loan.RejectionReason,
		ApprovalDate:      *loan.ApprovalDate,
		ApprovalTimeHours: *loan.ApprovalTime,
	}
	id, err := s.publisher.Publish(ctx, s.notificationTopic, notification)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorPublishingDecisionNotice, err, zap.Int64("loan_id", loan.LoanID))
		return
	}
	logger.CtxInfo(ctx, log_messages.DecisionNoticePublished,
		zap.Int64("loan_id", loan.LoanID),
		zap.String("message_id", id),
	)
}
