package handlers

import (
	"errors"
	"net/http"

	"loan-approval-metrics/internal/pkg/logger"
	"loan-approval-metrics/internal/pkg/models"
	"loan-approval-metrics/internal/service/approval"

	"github.com/gin-gonic/gin"
)

type LoanApprovalHandler struct {
	service ApprovalServiceInterface
}

func NewLoanApprovalHandler(service ApprovalServiceInterface) *LoanApprovalHandler {
	return &LoanApprovalHandler{service: service}
}

func (h *LoanApprovalHandler) ApproveLoan(c *gin.Context) {
	var req models.LoanApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.CtxWarn(c.Request.Context(), "Invalid loan approval payload")
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	loan, err := h.service.Approve(c.Request.Context(), req)
	if err != nil {
		var validationErr *approval.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: validationErr.Error(), Field: validationErr.Field})
		case errors.Is(err, approval.ErrLoanNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: approval.ErrLoanNotFound.Error()})
		case errors.Is(err, approval.ErrLoanNotPending):
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: approval.ErrLoanNotPending.Error()})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to process loan approval"})
		}
		return
	}

	c.JSON(http.StatusOK, loan)
}
