package handlers

import (
	"errors"
	"net/http"

	"loan-approval-metrics/internal/pkg/models"
	"loan-approval-metrics/internal/service/metrics"

	"github.com/gin-gonic/gin"
)

type ApprovalTimeHandler struct {
	service MetricsServiceInterface
}

func NewApprovalTimeHandler(service MetricsServiceInterface) *ApprovalTimeHandler {
	return &ApprovalTimeHandler{service: service}
}

// AverageApprovalTime serves the average approval time, optionally filtered by ?status=.
func (h *ApprovalTimeHandler) AverageApprovalTime(c *gin.Context) {
	summary, err := h.service.AverageApprovalTime(c.Request.Context(), c.Query("status"))
	if err != nil {
		if errors.Is(err, metrics.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error(), Field: "status"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to compute average approval time"})
		return
	}

	c.JSON(http.StatusOK, models.ApprovalTimeResponse{
		AverageApprovalTimeHours: summary.AverageApprovalTimeHours,
		LoanCount:                summary.LoanCount,
		Cached:                   summary.Cached,
	})
}
