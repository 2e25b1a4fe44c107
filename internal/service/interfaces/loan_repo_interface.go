package interfaces

import (
	"context"
	"time"

	"loan-approval-metrics/internal/pkg/store/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LoanRepositoryInterface interface {
	GetLoanByLoanID(ctx context.Context, loanID int64) (*models.Loan, error)
	ApplyDecision(ctx context.Context, loanID int64, decision models.LoanDecision) error
	GetLoansWithApprovalTime(ctx context.Context, status string) ([]models.Loan, error)
	GetLoansDecidedBetween(ctx context.Context, from, to time.Time) ([]models.Loan, error)
}

type LoanStoreInterface interface {
	FindOne(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.Loan, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Loan, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
}
