package handlers

import (
	"context"
	"net/http"
	"time"

	"loan-approval-metrics/internal/pkg/consts"
	"loan-approval-metrics/internal/pkg/log_messages"
	"loan-approval-metrics/internal/pkg/logger"
	"loan-approval-metrics/internal/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ApprovalTimeReportHandler struct {
	service ReportServiceInterface
	pool    TaskSubmitter
	now     func() time.Time
}

func NewApprovalTimeReportHandler(service ReportServiceInterface, pool TaskSubmitter) *ApprovalTimeReportHandler {
	return &ApprovalTimeReportHandler{service: service, pool: pool, now: time.Now}
}

// ApprovalTimeReport queues the report for ?day=YYYY-MM-DD, or for yesterday
// (UTC) when no day is given, and answers before the report is built.
func (h *ApprovalTimeReportHandler) ApprovalTimeReport(c *gin.Context) {
	day := h.now().UTC().AddDate(0, 0, -1)
	if raw := c.Query("day"); raw != "" {
		parsed, err := time.Parse(consts.ReportFileNameDateFormat, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "day must be formatted as YYYY-MM-DD", Field: "day"})
			return
		}
		day = parsed
	}

	// The job outlives the request but keeps its trace values.
	jobCtx := context.WithoutCancel(c.Request.Context())
	err := h.pool.Submit(c.Request.Context(), func() {
		fileName, err := h.service.GenerateReport(jobCtx, day)
		if err != nil {
			logger.CtxError(jobCtx, log_messages.ErrorGeneratingReport, err)
			return
		}
		logger.CtxInfo(jobCtx, log_messages.ReportGenerated, zap.String("file", fileName))
	})
	if err != nil {
		logger.CtxError(c.Request.Context(), log_messages.ErrorGeneratingReport, err)
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "report queue unavailable"})
		return
	}

	logger.CtxInfo(c.Request.Context(), log_messages.ReportGenerationRequestReceived,
		zap.String("day", day.Format(consts.ReportFileNameDateFormat)))
	c.JSON(http.StatusAccepted, models.MessageResponse{Message: consts.SuccessProcessingMessageApprovalTimeReport})
}
