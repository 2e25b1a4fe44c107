package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"loan-approval-metrics/internal/app/middleware"
	"loan-approval-metrics/internal/pkg/consts"
	"loan-approval-metrics/internal/pkg/models"
	storemodels "loan-approval-metrics/internal/pkg/store/models"
	"loan-approval-metrics/internal/pkg/worker"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubApproval struct{}

func (stubApproval) Approve(_ context.Context, req models.LoanApprovalRequest) (*storemodels.Loan, error) {
	return &storemodels.Loan{LoanID: req.LoanID, Status: consts.LoanStatusApproved, ApprovedBy: req.ApprovedBy}, nil
}

type stubMetrics struct{}

func (stubMetrics) AverageApprovalTime(_ context.Context, status string) (*models.ApprovalTimeSummary, error) {
	return &models.ApprovalTimeSummary{Status: status, AverageApprovalTimeHours: 20, LoanCount: 2}, nil
}

type stubReport struct {
	days chan time.Time
}

func (s stubReport) GenerateReport(_ context.Context, day time.Time) (string, error) {
	s.days <- day
	return "report.csv", nil
}

func newTestRouter(t *testing.T) (*gin.Engine, stubReport) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pool := worker.NewWorkerPool(1, 1)
	t.Cleanup(pool.Stop)

	report := stubReport{days: make(chan time.Time, 1)}
	r := SetupRouter("loan-approval-metrics-test", Services{
		Approval: stubApproval{},
		Metrics:  stubMetrics{},
		Report:   report,
		Pool:     pool,
	})
	return r, report
}

func TestSetupRouter_Routes(t *testing.T) {
	r, report := newTestRouter(t)

	approved := true
	body, err := json.Marshal(models.LoanApprovalRequest{LoanID: 7, Approved: &approved, ApprovedBy: "officer"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		method   string
		path     string
		body     []byte
		wantCode int
	}{
		{"health check", http.MethodGet, BasePath + "/HealthCheck", nil, http.StatusOK},
		{"average approval time", http.MethodGet, BasePath + "/AverageApprovalTime?status=approved", nil, http.StatusOK},
		{"approve loan", http.MethodPost, BasePath + "/Loan/Approve", body, http.StatusOK},
		{"report", http.MethodGet, BasePath + "/ApprovalTimeReport?day=2024-03-01", nil, http.StatusAccepted},
		{"unknown route", http.MethodGet, BasePath + "/Nope", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}

	select {
	case day := <-report.days:
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), day)
	case <-time.After(2 * time.Second):
		t.Fatal("report job did not run")
	}
}

func TestSetupRouter_AverageApprovalTimeBody(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, BasePath+"/AverageApprovalTime", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"averageApprovalTimeHours":20,"loanCount":2,"cached":false}`, w.Body.String())
}
