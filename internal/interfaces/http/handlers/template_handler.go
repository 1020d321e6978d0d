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

type ApprovalService interface {
	Submit(ctx context.Context, input *entities.SubmitTemplateInput) (*entities.Template, error)
	Approve(ctx context.Context, templateID, adminID uuid.UUID) (*entities.Template, error)
	Reject(ctx context.Context, templateID, adminID uuid.UUID, reason string) (*entities.Template, error)
	SetPaused(ctx context.Context, templateID uuid.UUID, paused bool) (*entities.Template, error)
	SetFeatured(ctx context.Context, templateID uuid.UUID, featured bool) (*entities.Template, error)
	Resubmit(ctx context.Context, templateID uuid.UUID, input *entities.SubmitTemplateInput) (*entities.Template, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Template, error)
	ListByStatus(ctx context.Context, status entities.ApprovalStatus, limit, offset int) ([]*entities.Template, int64, error)
}

// TemplateHandler handles template approval endpoints
type TemplateHandler struct {
	approvalUsecase ApprovalService
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(approvalUsecase ApprovalService) *TemplateHandler {
	return &TemplateHandler{approvalUsecase: approvalUsecase}
}

// Submit registers a new template in the review queue
// POST /api/v1/templates
func (h *TemplateHandler) Submit(c *gin.Context) {
	var input entities.SubmitTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	template, err := h.approvalUsecase.Submit(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"template": template})
}

// Get returns a template
// GET /api/v1/templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid template ID"))
		return
	}

	template, err := h.approvalUsecase.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"template": template})
}

// List returns the review queue for a status
// GET /api/v1/templates?status=PENDING
func (h *TemplateHandler) List(c *gin.Context) {
	status := entities.ApprovalStatus(c.DefaultQuery("status", string(entities.ApprovalStatusPending)))
	switch status {
	case entities.ApprovalStatusPending, entities.ApprovalStatusApproved, entities.ApprovalStatusRejected:
	default:
		response.Error(c, domainerrors.BadRequest("Invalid status filter"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	params := utils.GetPaginationParams(page, limit)

	templates, total, err := h.approvalUsecase.ListByStatus(c.Request.Context(), status, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, http.StatusOK, templates, utils.CalculateMeta(total, params.Page, params.Limit))
}

// Approve approves a pending template
// POST /api/v1/templates/:id/approve
func (h *TemplateHandler) Approve(c *gin.Context) {
	id, adminID, ok := h.idAndAdmin(c)
	if !ok {
		return
	}

	template, err := h.approvalUsecase.Approve(c.Request.Context(), id, adminID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"template": template})
}

// Reject rejects a pending template with a reason
// POST /api/v1/templates/:id/reject
func (h *TemplateHandler) Reject(c *gin.Context) {
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

	template, err := h.approvalUsecase.Reject(c.Request.Context(), id, adminID, body.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"template": template})
}

// SetPaused pauses or unpauses an approved template
// POST /api/v1/templates/:id/pause
func (h *TemplateHandler) SetPaused(c *gin.Context) {
	id, _, ok := h.idAndAdmin(c)
	if !ok {
		return
	}

	var body struct {
		Paused *bool `json:"paused" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	template, err := h.approvalUsecase.SetPaused(c.Request.Context(), id, *body.Paused)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"template": template})
}

// SetFeatured marks or unmarks an approved template as featured
// POST /api/v1/templates/:id/feature
func (h *TemplateHandler) SetFeatured(c *gin.Context) {
	id, _, ok := h.idAndAdmin(c)
	if !ok {
		return
	}

	var body struct {
		Featured *bool `json:"featured" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	template, err := h.approvalUsecase.SetFeatured(c.Request.Context(), id, *body.Featured)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"template": template})
}

// Resubmit creates a fresh pending template from a rejected one
// POST /api/v1/templates/:id/resubmit
func (h *TemplateHandler) Resubmit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid template ID"))
		return
	}

	var input entities.SubmitTemplateInput
	// Body is optional: an empty body resubmits the original content.
	_ = c.ShouldBindJSON(&input)

	template, err := h.approvalUsecase.Resubmit(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"template": template})
}

func (h *TemplateHandler) idAndAdmin(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid template ID"))
		return uuid.Nil, uuid.Nil, false
	}

	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Admin not authenticated"))
		return uuid.Nil, uuid.Nil, false
	}
	return id, adminID, true
}
