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

type CreatorService interface {
	Register(ctx context.Context, input *entities.CreateCreatorInput) (*entities.CreatorAccount, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.CreatorAccount, error)
	List(ctx context.Context, search string, limit, offset int) ([]*entities.CreatorAccount, int64, error)
	SetVerified(ctx context.Context, id, adminID uuid.UUID, verified bool) (*entities.CreatorAccount, error)
	SetWalletFrozen(ctx context.Context, id, adminID uuid.UUID, frozen bool) (*entities.CreatorAccount, error)
	Suspend(ctx context.Context, id, adminID uuid.UUID) (*entities.CreatorAccount, error)
	Unsuspend(ctx context.Context, id, adminID uuid.UUID) (*entities.CreatorAccount, error)
	Ban(ctx context.Context, id, adminID uuid.UUID) (*entities.CreatorAccount, error)
	Unban(ctx context.Context, id, adminID uuid.UUID) (*entities.CreatorAccount, error)
}

// CreatorHandler handles creator account endpoints
type CreatorHandler struct {
	creatorUsecase CreatorService
}

// NewCreatorHandler creates a new creator handler
func NewCreatorHandler(creatorUsecase CreatorService) *CreatorHandler {
	return &CreatorHandler{creatorUsecase: creatorUsecase}
}

// Register creates a new creator account
// POST /api/v1/creators
func (h *CreatorHandler) Register(c *gin.Context) {
	var input entities.CreateCreatorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	creator, err := h.creatorUsecase.Register(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"creator": creator})
}

// Get returns a creator account
// GET /api/v1/creators/:id
func (h *CreatorHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid creator ID"))
		return
	}

	creator, err := h.creatorUsecase.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"creator": creator})
}

// List returns creator accounts
// GET /api/v1/creators
func (h *CreatorHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	params := utils.GetPaginationParams(page, limit)

	creators, total, err := h.creatorUsecase.List(c.Request.Context(), c.Query("search"), params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, http.StatusOK, creators, utils.CalculateMeta(total, params.Page, params.Limit))
}

// SetVerified toggles the verification badge
// POST /api/v1/creators/:id/verify
func (h *CreatorHandler) SetVerified(c *gin.Context) {
	h.mutate(c, func(ctx context.Context, id, adminID uuid.UUID) (*entities.CreatorAccount, error) {
		var body struct {
			Verified *bool `json:"verified" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			return nil, domainerrors.BadRequest(err.Error())
		}
		return h.creatorUsecase.SetVerified(ctx, id, adminID, *body.Verified)
	})
}

// SetWalletFrozen freezes or unfreezes a creator's wallet
// POST /api/v1/creators/:id/wallet-freeze
func (h *CreatorHandler) SetWalletFrozen(c *gin.Context) {
	h.mutate(c, func(ctx context.Context, id, adminID uuid.UUID) (*entities.CreatorAccount, error) {
		var body struct {
			Frozen *bool `json:"frozen" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			return nil, domainerrors.BadRequest(err.Error())
		}
		return h.creatorUsecase.SetWalletFrozen(ctx, id, adminID, *body.Frozen)
	})
}

// Suspend suspends a creator account
// POST /api/v1/creators/:id/suspend
func (h *CreatorHandler) Suspend(c *gin.Context) {
	h.mutate(c, h.creatorUsecase.Suspend)
}

// Unsuspend restores a suspended account
// POST /api/v1/creators/:id/unsuspend
func (h *CreatorHandler) Unsuspend(c *gin.Context) {
	h.mutate(c, h.creatorUsecase.Unsuspend)
}

// Ban bans a creator account
// POST /api/v1/creators/:id/ban
func (h *CreatorHandler) Ban(c *gin.Context) {
	h.mutate(c, h.creatorUsecase.Ban)
}

// Unban restores a banned account
// POST /api/v1/creators/:id/unban
func (h *CreatorHandler) Unban(c *gin.Context) {
	h.mutate(c, h.creatorUsecase.Unban)
}

func (h *CreatorHandler) mutate(c *gin.Context, fn func(ctx context.Context, id, adminID uuid.UUID) (*entities.CreatorAccount, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid creator ID"))
		return
	}

	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Admin not authenticated"))
		return
	}

	creator, err := fn(c.Request.Context(), id, adminID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"creator": creator})
}
