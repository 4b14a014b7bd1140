package verification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/RaikyD/order-verification-service/internal/domain"
	"github.com/shopspring/decimal"
)

// Verifier — исходящий вызов статус-сервиса
type Verifier interface {
	Verify(ctx context.Context, client string, price decimal.Decimal) (string, error)
}

type StatusClient struct {
	url  string
	http *http.Client
}

func NewStatusClient(url string, timeout time.Duration) *StatusClient {
	return &StatusClient{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

type verifyRequest struct {
	Client string          `json:"client"`
	Price  decimal.Decimal `json:"price"`
}

type verifyResponse struct {
	Status string `json:"status"`
}

func (c *StatusClient) Verify(ctx context.Context, client string, price decimal.Decimal) (string, error) {
	body, err := json.Marshal(verifyRequest{Client: client, Price: price})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("status service returned %d", resp.StatusCode)
	}

	var vr verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return "", fmt.Errorf("malformed status response: %w", err)
	}
	if !domain.IsVerdict(vr.Status) {
		return "", fmt.Errorf("unknown verdict %q", vr.Status)
	}
	return vr.Status, nil
}
