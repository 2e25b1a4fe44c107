package router

import (
	"loan-approval-metrics/internal/app/handlers"
	"loan-approval-metrics/internal/app/middleware"
	"loan-approval-metrics/internal/pkg/otel"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const BasePath = "/IntegrationServices/LoanApproval"

// Services are the collaborators the handlers are built from.
type Services struct {
	Approval handlers.ApprovalServiceInterface
	Metrics  handlers.MetricsServiceInterface
	Report   handlers.ReportServiceInterface
	Pool     handlers.TaskSubmitter
}

func SetupRouter(serviceName string, svc Services) *gin.Engine {
	r := gin.Default()
	r.Use(otelgin.Middleware(serviceName))
	r.Use(middleware.NewMetricMiddleware(otel.GetMeter(serviceName)))
	r.Use(middleware.AttachRequestDetails())

	healthCheckHandler := handlers.NewHealthCheckHandler()
	approvalTimeHandler := handlers.NewApprovalTimeHandler(svc.Metrics)
	loanApprovalHandler := handlers.NewLoanApprovalHandler(svc.Approval)
	reportHandler := handlers.NewApprovalTimeReportHandler(svc.Report, svc.Pool)

	api := r.Group(BasePath)
	api.GET("/HealthCheck", healthCheckHandler.HealthCheck)
	api.GET("/AverageApprovalTime", approvalTimeHandler.AverageApprovalTime)
	api.POST("/Loan/Approve", loanApprovalHandler.ApproveLoan)
	api.GET("/ApprovalTimeReport", reportHandler.ApprovalTimeReport)

	return r
}
