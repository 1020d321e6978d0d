package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"promptmint.backend/internal/domain/entities"
	"promptmint.backend/internal/interfaces/http/response"
)

type TemplateCounter interface {
	CountByStatus(ctx context.Context, status entities.ApprovalStatus) (int64, error)
}

type WithdrawalCounter interface {
	CountByStatus(ctx context.Context, status entities.WithdrawalStatus) (int64, error)
}

type CaseCounter interface {
	CountCasesByStatus(ctx context.Context, status entities.ModerationCaseStatus) (int64, error)
}

// StatsHandler serves the console dashboard's queue depths
type StatsHandler struct {
	templates   TemplateCounter
	withdrawals WithdrawalCounter
	cases       CaseCounter
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(templates TemplateCounter, withdrawals WithdrawalCounter, cases CaseCounter) *StatsHandler {
	return &StatsHandler{
		templates:   templates,
		withdrawals: withdrawals,
		cases:       cases,
	}
}

// GetQueueStats returns the depth of every work queue
// GET /api/v1/stats/queues
func (h *StatsHandler) GetQueueStats(c *gin.Context) {
	ctx := c.Request.Context()

	pendingTemplates, err := h.templates.CountByStatus(ctx, entities.ApprovalStatusPending)
	if err != nil {
		response.Error(c, err)
		return
	}
	pendingWithdrawals, err := h.withdrawals.CountByStatus(ctx, entities.WithdrawalStatusPending)
	if err != nil {
		response.Error(c, err)
		return
	}
	processingWithdrawals, err := h.withdrawals.CountByStatus(ctx, entities.WithdrawalStatusProcessing)
	if err != nil {
		response.Error(c, err)
		return
	}
	pendingCases, err := h.cases.CountCasesByStatus(ctx, entities.CaseStatusPending)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"pendingTemplates":      pendingTemplates,
		"pendingWithdrawals":    pendingWithdrawals,
		"processingWithdrawals": processingWithdrawals,
		"pendingModeration":     pendingCases,
	})
}
