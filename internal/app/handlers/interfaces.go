package handlers

import (
	"context"
	"time"

	"loan-approval-metrics/internal/pkg/models"
	storemodels "loan-approval-metrics/internal/pkg/store/models"
	"loan-approval-metrics/internal/pkg/worker"
)

type ApprovalServiceInterface interface {
	Approve(ctx context.Context, req models.LoanApprovalRequest) (*storemodels.Loan, error)
}

type MetricsServiceInterface interface {
	AverageApprovalTime(ctx context.Context, status string) (*models.ApprovalTimeSummary, error)
}

type ReportServiceInterface interface {
	GenerateReport(ctx context.Context, day time.Time) (string, error)
}

// TaskSubmitter queues background work. *worker.WorkerPool satisfies it.
type TaskSubmitter interface {
	Submit(ctx context.Context, task worker.Task) error
}
