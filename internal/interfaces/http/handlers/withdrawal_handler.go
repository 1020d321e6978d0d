package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"promptmint.backend/internal/domain/entities"
	domainerrors "promptmint.backend/internal/domain/errors"
	"promptmint.backend/internal/interfaces/http/middleware"
	"promptmint.backend/internal/interfaces/http/response"
	"promptmint.backend/pkg/utils"
)

type WithdrawalService interface {
	Request(ctx context.Context, input *entities.RequestWithdrawalInput) (*entities.WithdrawalRequest, error)
	Approve(ctx context.Context, id, adminID uuid.UUID) (*entities.WithdrawalRequest, error)
	Complete(ctx context.Context, id uuid.UUID, transactionID string, adminID uuid.UUID) (*entities.WithdrawalRequest, error)
	Reject(ctx context.Context, id, adminID uuid.UUID, reason string) (*entities.WithdrawalRequest, error)
	Reverse(ctx context.Context, id, adminID uuid.UUID) (*entities.LedgerEntry, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.WithdrawalRequest, error)
	ListByStatus(ctx context.Context, status entities.WithdrawalStatus, limit, offset int) ([]*entities.WithdrawalRequest, int64, error)
}

// WithdrawalHandler handles withdrawal processing endpoints
type WithdrawalHandler struct {
	withdrawalUsecase WithdrawalService
}

// NewWithdrawalHandler creates a new withdrawal handler
func NewWithdrawalHandler(withdrawalUsecase WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalUsecase: withdrawalUsecase}
}

// Request creates a withdrawal request on a creator's behalf
// POST /api/v1/withdrawals
func (h *WithdrawalHandler) Request(c *gin.Context) {
	var input entities.RequestWithdrawalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	request, err := h.withdrawalUsecase.Request(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"withdrawal": request})
}

// Get returns a withdrawal request
// GET /api/v1/withdrawals/:id
func (h *WithdrawalHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid withdrawal ID"))
		return
	}

	request, err := h.withdrawalUsecase.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"withdrawal": request})
}

// List returns the withdrawal queue for a status
// GET /api/v1/withdrawals?status=PENDING
func (h *WithdrawalHandler) List(c *gin.Context) {
	status := entities.WithdrawalStatus(c.DefaultQuery("status", string(entities.WithdrawalStatusPending)))
	switch status {
	case entities.WithdrawalStatusPending, entities.WithdrawalStatusProcessing,
		entities.WithdrawalStatusCompleted, entities.WithdrawalStatusRejected:
	default:
		response.Error(c, domainerrors.BadRequest("Invalid status filter"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	params := utils.GetPaginationParams(page, limit)

	requests, total, err := h.withdrawalUsecase.ListByStatus(c.Request.Context(), status, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, http.StatusOK, requests, utils.CalculateMeta(total, params.Page, params.Limit))
}

// Approve moves a pending request to processing and initiates the payout
// POST /api/v1/withdrawals/:id/approve
func (h *WithdrawalHandler) Approve(c *gin.Context) {
	id, adminID, ok := h.idAndAdmin(c)
	if !ok {
		return
	}

	request, err := h.withdrawalUsecase.Approve(c.Request.Context(), id, adminID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"withdrawal": request})
}

// Complete marks a processing request as paid out
// POST /api/v1/withdrawals/:id/complete
func (h *WithdrawalHandler) Complete(c *gin.Context) {
	id, adminID, ok := h.idAndAdmin(c)
	if !ok {
		return
	}

	var body struct {
		TransactionID string `json:"transactionId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, domainerrors.BadRequest("transaction id is required"))
		return
	}

	request, err := h.withdrawalUsecase.Complete(c.Request.Context(), id, body.TransactionID, adminID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"withdrawal": request})
}

// Reject declines a pending or processing request
// POST /api/v1/withdrawals/:id/reject
func (h *WithdrawalHandler) Reject(c *gin.Context) {
	id, adminID, ok := h.idAndAdmin(c)
	if !ok {
		return
	}

	var body struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, domainerrors.BadRequest("rejection reason is required"))
		return
	}

	request, err := h.withdrawalUsecase.Reject(c.Request.Context(), id, adminID, body.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"withdrawal": request})
}

// Reverse credits a bounced payout back to the creator
// POST /api/v1/withdrawals/:id/reverse
func (h *WithdrawalHandler) Reverse(c *gin.Context) {
	id, adminID, ok := h.idAndAdmin(c)
	if !ok {
		return
	}

	entry, err := h.withdrawalUsecase.Reverse(c.Request.Context(), id, adminID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"entry": entry})
}

func (h *WithdrawalHandler) idAndAdmin(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid withdrawal ID"))
		return uuid.Nil, uuid.Nil, false
	}

	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Admin not authenticated"))
		return uuid.Nil, uuid.Nil, false
	}
	return id, adminID, true
}
