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

type ModerationService interface {
	Evaluate(ctx context.Context, input *entities.EvaluateInput) (*entities.ModerationCase, error)
	Review(ctx context.Context, caseID uuid.UUID, decision entities.ReviewDecision, adminID uuid.UUID) (*entities.ModerationCase, error)
	IssueStrike(ctx context.Context, adminID uuid.UUID, input *entities.IssueStrikeInput) (*entities.Strike, error)
	AddKeyword(ctx context.Context, adminID uuid.UUID, input *entities.AddKeywordInput) (*entities.BannedKeyword, error)
	ListKeywords(ctx context.Context) ([]*entities.BannedKeyword, error)
	GetCase(ctx context.Context, id uuid.UUID) (*entities.ModerationCase, error)
	ListCases(ctx context.Context, status entities.ModerationCaseStatus, limit, offset int) ([]*entities.ModerationCase, int64, error)
	ListStrikes(ctx context.Context, userID uuid.UUID) ([]*entities.Strike, error)
}

// ModerationHandler handles moderation endpoints
type ModerationHandler struct {
	moderationUsecase ModerationService
}

// NewModerationHandler creates a new moderation handler
func NewModerationHandler(moderationUsecase ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationUsecase: moderationUsecase}
}

// Evaluate opens a moderation case for a content submission
// POST /api/v1/moderation/evaluate
func (h *ModerationHandler) Evaluate(c *gin.Context) {
	var input entities.EvaluateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	moderationCase, err := h.moderationUsecase.Evaluate(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"case": moderationCase})
}

// GetCase returns a moderation case
// GET /api/v1/moderation/cases/:id
func (h *ModerationHandler) GetCase(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid case ID"))
		return
	}

	moderationCase, err := h.moderationUsecase.GetCase(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"case": moderationCase})
}

// ListCases returns the moderation queue for a status
// GET /api/v1/moderation/cases?status=PENDING
func (h *ModerationHandler) ListCases(c *gin.Context) {
	status := entities.ModerationCaseStatus(c.DefaultQuery("status", string(entities.CaseStatusPending)))
	switch status {
	case entities.CaseStatusPending, entities.CaseStatusReviewed,
		entities.CaseStatusApproved, entities.CaseStatusBlocked:
	default:
		response.Error(c, domainerrors.BadRequest("Invalid status filter"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	params := utils.GetPaginationParams(page, limit)

	cases, total, err := h.moderationUsecase.ListCases(c.Request.Context(), status, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, http.StatusOK, cases, utils.CalculateMeta(total, params.Page, params.Limit))
}

// Review applies a human decision to a pending case
// POST /api/v1/moderation/cases/:id/review
func (h *ModerationHandler) Review(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid case ID"))
		return
	}

	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Admin not authenticated"))
		return
	}

	var body struct {
		Decision entities.ReviewDecision `json:"decision" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	moderationCase, err := h.moderationUsecase.Review(c.Request.Context(), id, body.Decision, adminID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"case": moderationCase})
}

// IssueStrike records a violation against a creator
// POST /api/v1/moderation/strikes
func (h *ModerationHandler) IssueStrike(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Admin not authenticated"))
		return
	}

	var input entities.IssueStrikeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	strike, err := h.moderationUsecase.IssueStrike(c.Request.Context(), adminID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"strike": strike})
}

// ListStrikes returns all strikes recorded against a creator
// GET /api/v1/creators/:id/strikes
func (h *ModerationHandler) ListStrikes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid creator ID"))
		return
	}

	strikes, err := h.moderationUsecase.ListStrikes(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"strikes": strikes})
}

// AddKeyword registers a banned phrase
// POST /api/v1/moderation/keywords
func (h *ModerationHandler) AddKeyword(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Admin not authenticated"))
		return
	}

	var input entities.AddKeywordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	keyword, err := h.moderationUsecase.AddKeyword(c.Request.Context(), adminID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"keyword": keyword})
}

// ListKeywords returns all banned keywords
// GET /api/v1/moderation/keywords
func (h *ModerationHandler) ListKeywords(c *gin.Context) {
	keywords, err := h.moderationUsecase.ListKeywords(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"keywords": keywords})
}
