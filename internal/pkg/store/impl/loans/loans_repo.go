package loans

import (
	"context"
	"errors"
	"time"

	"loan-approval-metrics/internal/pkg/consts"
	mongodb "loan-approval-metrics/internal/pkg/db/mongo"
	"loan-approval-metrics/internal/pkg/log_messages"
	"loan-approval-metrics/internal/pkg/logger"
	"loan-approval-metrics/internal/pkg/store/models"
	"loan-approval-metrics/internal/pkg/store/repository"
	"loan-approval-metrics/internal/service/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type LoanRepository struct {
	repo interfaces.LoanStoreInterface
}

func NewLoansRepository(client *mongodb.MongoClient) *LoanRepository {
	collection := client.Database.Collection(consts.LoansCollection)
	repo := repository.NewMongoRepository[models.Loan](collection)
	return &LoanRepository{repo: repo}
}

func NewLoanRepositoryWithInterface(repo interfaces.LoanStoreInterface) *LoanRepository {
	return &LoanRepository{repo: repo}
}

// GetLoanByLoanID returns mongo.ErrNoDocuments when no loan has the given id.
func (lr *LoanRepository) GetLoanByLoanID(ctx context.Context, loanID int64) (*models.Loan, error) {
	filter := bson.M{"loanId": loanID}

	loan, err := lr.repo.FindOne(ctx, filter, options.FindOne())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logger.CtxWarn(ctx, log_messages.NoLoanFound, zap.Int64("loan_id", loanID))
			return nil, err
		}
		logger.CtxError(ctx, log_messages.ErrorFindingLoan, err, zap.Int64("loan_id", loanID))
		return nil, err
	}

	logger.CtxDebug(ctx, "Fetched loan by loanId", zap.Int64("loan_id", loanID), zap.String("status", string(loan.Status)))
	return &loan, nil
}

// ApplyDecision writes decision only if the loan is still pending. When no
// pending loan matches, mongo.ErrNoDocuments is returned so that a concurrent
// decision on the same loan loses.
func (lr *LoanRepository) ApplyDecision(ctx context.Context, loanID int64, decision models.LoanDecision) error {
	filter := bson.M{
		"loanId": loanID,
		"status": consts.LoanStatusPending,
	}

	result, err := lr.repo.UpdateOne(ctx, filter, decision)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorUpdatingLoanDecision, err, zap.Int64("loan_id", loanID))
		return err
	}
	if result == nil || result.MatchedCount == 0 {
		logger.CtxWarn(ctx, log_messages.LoanDecisionNotApplied, zap.Int64("loan_id", loanID))
		return mongo.ErrNoDocuments
	}

	logger.CtxInfo(ctx, log_messages.SuccessLoanDecisionUpdated,
		zap.Int64("loan_id", loanID),
		zap.String("status", string(decision.Status)),
	)
	return nil
}

// GetLoansWithApprovalTime returns loans that carry an approval time or an
// approval date, optionally restricted to one status.
func (lr *LoanRepository) GetLoansWithApprovalTime(ctx context.Context, status string) ([]models.Loan, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"approval_time": bson.M{"$exists": true}},
			bson.M{"approvalDate": bson.M{"$exists": true}},
		},
	}
	if status != "" {
		filter["status"] = status
	}

	loans, err := lr.repo.Find(ctx, filter)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorFetchingLoans, err, zap.String("status", status))
		return nil, err
	}

	logger.CtxDebug(ctx, "Fetched loans with approval time", zap.String("status", status), zap.Int("count", len(loans)))
	return loans, nil
}

// GetLoansDecidedBetween returns loans whose approval date lies in [from, to), ordered by loanId.
func (lr *LoanRepository) GetLoansDecidedBetween(ctx context.Context, from, to time.Time) ([]models.Loan, error) {
	filter := bson.M{
		"approvalDate": bson.M{
			"$gte": from,
			"$lt":  to,
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "loanId", Value: 1}})

	loans, err := lr.repo.Find(ctx, filter, opts)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorFetchingLoans, err,
			zap.Time("from", from),
			zap.Time("to", to),
		)
		return nil, err
	}

	logger.CtxDebug(ctx, "Fetched loans decided in window", zap.Int("count", len(loans)))
	return loans, nil
}
