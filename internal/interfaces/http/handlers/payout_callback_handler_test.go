package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"promptmint.backend/internal/domain/entities"
	"promptmint.backend/pkg/crypto"
)

const callbackSecret = "provider-shared-secret"

func setupCallbackRouter(t *testing.T, svc WithdrawalService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := crypto.HashSecret(callbackSecret)
	require.NoError(t, err)

	h := NewPayoutCallbackHandler(svc, hash)
	r := gin.New()
	r.POST("/callbacks/payout", h.Handle)
	return r
}

func postCallback(t *testing.T, r *gin.Engine, secret string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/callbacks/payout", &buf)
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(CallbackSecretHeader, secret)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestPayoutCallback_RejectsBadSecret(t *testing.T) {
	svc := new(mockWithdrawalService)
	r := setupCallbackRouter(t, svc)

	w := postCallback(t, r, "wrong-secret", gin.H{
		"referenceId": uuid.New(),
		"status":      "success",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPayoutCallback_RejectsMissingSecret(t *testing.T) {
	svc := new(mockWithdrawalService)
	r := setupCallbackRouter(t, svc)

	w := postCallback(t, r, "", gin.H{
		"referenceId": uuid.New(),
		"status":      "success",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPayoutCallback_SuccessCompletesWithdrawal(t *testing.T) {
	svc := new(mockWithdrawalService)
	r := setupCallbackRouter(t, svc)

	id := uuid.New()
	svc.On("Complete", mock.Anything, id, "txn_789", uuid.Nil).Return(&entities.WithdrawalRequest{
		ID:     id,
		Status: entities.WithdrawalStatusCompleted,
	}, nil)

	w := postCallback(t, r, callbackSecret, gin.H{
		"referenceId":   id,
		"transactionId": "txn_789",
		"status":        "success",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "COMPLETED")
	svc.AssertExpectations(t)
}

func TestPayoutCallback_SuccessRequiresTransactionID(t *testing.T) {
	svc := new(mockWithdrawalService)
	r := setupCallbackRouter(t, svc)

	w := postCallback(t, r, callbackSecret, gin.H{
		"referenceId": uuid.New(),
		"status":      "success",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPayoutCallback_FailureRejectsWithdrawal(t *testing.T) {
	svc := new(mockWithdrawalService)
	r := setupCallbackRouter(t, svc)

	id := uuid.New()
	svc.On("Reject", mock.Anything, id, uuid.Nil, "account closed").Return(&entities.WithdrawalRequest{
		ID:     id,
		Status: entities.WithdrawalStatusRejected,
	}, nil)

	w := postCallback(t, r, callbackSecret, gin.H{
		"referenceId":   id,
		"status":        "failed",
		"failureReason": "account closed",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "REJECTED")
	svc.AssertExpectations(t)
}

func TestPayoutCallback_UnknownStatusIsBadRequest(t *testing.T) {
	svc := new(mockWithdrawalService)
	r := setupCallbackRouter(t, svc)

	w := postCallback(t, r, callbackSecret, gin.H{
		"referenceId": uuid.New(),
		"status":      "maybe",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
