package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"promptmint.backend/internal/domain/entities"
	domainerrors "promptmint.backend/internal/domain/errors"
	"promptmint.backend/internal/interfaces/http/response"
	"promptmint.backend/pkg/utils"
)

type LedgerService interface {
	AccrueUsageEarning(ctx context.Context, input *entities.UsageEarningInput) (*entities.LedgerEntry, error)
	GetBalance(ctx context.Context, creatorID uuid.UUID) (*entities.Balance, error)
	ListEntries(ctx context.Context, creatorID uuid.UUID, from, to *time.Time, limit, offset int) ([]*entities.LedgerEntry, int64, error)
}

// LedgerHandler handles earnings ledger endpoints
type LedgerHandler struct {
	ledgerUsecase LedgerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerUsecase LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUsecase: ledgerUsecase}
}

// AccrueUsage records a paid usage event against a template
// POST /api/v1/usage-events
func (h *LedgerHandler) AccrueUsage(c *gin.Context) {
	var input entities.UsageEarningInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	entry, err := h.ledgerUsecase.AccrueUsageEarning(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"entry": entry})
}

// GetBalance returns a creator's derived balance view
// GET /api/v1/creators/:id/balance
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid creator ID"))
		return
	}

	balance, err := h.ledgerUsecase.GetBalance(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"balance": balance})
}

// ListEntries returns a creator's ledger statement
// GET /api/v1/creators/:id/ledger?from=...&to=...
func (h *LedgerHandler) ListEntries(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid creator ID"))
		return
	}

	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Error(c, domainerrors.BadRequest("Invalid from timestamp, use RFC3339"))
			return
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Error(c, domainerrors.BadRequest("Invalid to timestamp, use RFC3339"))
			return
		}
		to = &t
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	params := utils.GetPaginationParams(page, limit)

	entries, total, err := h.ledgerUsecase.ListEntries(c.Request.Context(), id, from, to, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, http.StatusOK, entries, utils.CalculateMeta(total, params.Page, params.Limit))
}
