package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	domainerrors "promptmint.backend/internal/domain/errors"
	"promptmint.backend/internal/interfaces/http/response"
	"promptmint.backend/pkg/crypto"
)

// CallbackSecretHeader carries the shared secret the payout provider
// presents on confirmation callbacks.
const CallbackSecretHeader = "X-Callback-Secret"

// PayoutCallbackHandler receives transfer confirmations from the payout
// provider and settles the matching withdrawal request.
type PayoutCallbackHandler struct {
	withdrawalUsecase WithdrawalService
	secretHash        string
}

// NewPayoutCallbackHandler creates a new payout callback handler
func NewPayoutCallbackHandler(withdrawalUsecase WithdrawalService, secretHash string) *PayoutCallbackHandler {
	return &PayoutCallbackHandler{
		withdrawalUsecase: withdrawalUsecase,
		secretHash:        secretHash,
	}
}

type payoutCallbackBody struct {
	ReferenceID   uuid.UUID `json:"referenceId" binding:"required"`
	TransactionID string    `json:"transactionId"`
	Status        string    `json:"status" binding:"required,oneof=success failed"`
	FailureReason string    `json:"failureReason"`
}

// Handle settles a withdrawal from a provider callback. A success completes
// the request (and debits the ledger); a failure rejects it so the funds are
// released. Provider retries are harmless: completion is idempotent.
// POST /api/v1/callbacks/payout
func (h *PayoutCallbackHandler) Handle(c *gin.Context) {
	if h.secretHash == "" || !crypto.CheckSecret(c.GetHeader(CallbackSecretHeader), h.secretHash) {
		response.Error(c, domainerrors.Unauthorized("Invalid callback secret"))
		return
	}

	var body payoutCallbackBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	ctx := c.Request.Context()
	switch body.Status {
	case "success":
		if body.TransactionID == "" {
			response.Error(c, domainerrors.BadRequest("transaction id is required on success"))
			return
		}
		request, err := h.withdrawalUsecase.Complete(ctx, body.ReferenceID, body.TransactionID, uuid.Nil)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"withdrawal": request})

	case "failed":
		reason := body.FailureReason
		if reason == "" {
			reason = "payout failed at provider"
		}
		request, err := h.withdrawalUsecase.Reject(ctx, body.ReferenceID, uuid.Nil, reason)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"withdrawal": request})
	}
}
