package payout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"promptmint.backend/internal/config"
	"promptmint.backend/internal/domain/entities"
)

// HTTPGateway talks to the external payout provider over its REST API. Only
// the net payable amount is transferred; fee and tax stay with the platform.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPGateway(cfg config.PayoutConfig) *HTTPGateway {
	return &HTTPGateway{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type initiateRequest struct {
	ReferenceID    string          `json:"referenceId"`
	Amount         int64           `json:"amount"`
	Currency       string          `json:"currency"`
	PayoutSnapshot json.RawMessage `json:"payoutSnapshot"`
}

type initiateResponse struct {
	TransferID string `json:"transferId"`
	Status     string `json:"status"`
}

// InitiatePayout asks the provider to start a transfer for the request's net
// payable amount, keyed by the withdrawal id so provider-side retries
// collapse onto one transfer.
func (g *HTTPGateway) InitiatePayout(ctx context.Context, request *entities.WithdrawalRequest) (string, error) {
	payload, err := json.Marshal(initiateRequest{
		ReferenceID:    request.ID.String(),
		Amount:         request.NetPayable,
		Currency:       "INR",
		PayoutSnapshot: json.RawMessage(request.PayoutSnapshot),
	})
	if err != nil {
		return "", fmt.Errorf("marshal payout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/transfers", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build payout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("X-Idempotency-Key", request.ID.String())

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("payout gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("payout gateway returned status %d", resp.StatusCode)
	}

	var out initiateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode payout response: %w", err)
	}
	return out.TransferID, nil
}
