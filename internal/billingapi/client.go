// Package billingapi fetches subscription snapshots from the billing
// system's REST API.
package billingapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/railzwaylabs/subview/internal/config"
	subscriptiondomain "github.com/railzwaylabs/subview/internal/subscription/domain"
	"go.uber.org/zap"
)

const maxErrorBody = 4 << 10

type Client struct {
	baseURL string
	keyID   string
	secret  string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(cfg config.Config, log *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BillingAPI.BaseURL, "/"),
		keyID:   cfg.BillingAPI.AccessKeyID,
		secret:  cfg.BillingAPI.SecretKey,
		http:    &http.Client{Timeout: cfg.BillingAPI.Timeout},
		log:     log.Named("billingapi.client"),
	}
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.keyID != "" && c.secret != ""
}

// errorBody is the billing API's failure envelope.
type errorBody struct {
	Success bool `json:"success"`
	Reasons []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"reasons"`
}

// Fetch implements subscriptiondomain.Source.
func (c *Client) Fetch(ctx context.Context, key string) (*subscriptiondomain.Snapshot, error) {
	if strings.TrimSpace(key) == "" {
		return nil, subscriptiondomain.ErrInvalidKey
	}
	if !c.Configured() {
		return nil, fmt.Errorf("%w: credentials not configured", subscriptiondomain.ErrUpstream)
	}

	endpoint := c.baseURL + "/v1/subscriptions/" + url.PathEscape(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apiAccessKeyId", c.keyID)
	req.Header.Set("apiSecretAccessKey", c.secret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", subscriptiondomain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, subscriptiondomain.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Warn("billing api request failed",
			zap.String("key", key),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return nil, fmt.Errorf("%w: status %d", subscriptiondomain.ErrUpstream, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", subscriptiondomain.ErrUpstream, err)
	}

	var snap subscriptiondomain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: decode body: %v", subscriptiondomain.ErrUpstream, err)
	}
	if snap.ID == "" {
		// The API answers 200 with success=false for unknown keys.
		var failure errorBody
		_ = json.Unmarshal(raw, &failure)
		if len(failure.Reasons) > 0 {
			c.log.Debug("billing api rejected key",
				zap.String("key", key),
				zap.Int("code", failure.Reasons[0].Code),
				zap.String("reason", failure.Reasons[0].Message),
			)
		}
		return nil, subscriptiondomain.ErrNotFound
	}
	return &snap, nil
}
