// Package api is the HTTP client for the attendance backend's batch
// endpoints. One call carries every targeted account's credentials and
// returns one result per account.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/existflow/onescan/internal/logger"
	"github.com/existflow/onescan/internal/model"
)

// Result status values on the wire.
const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// DefaultHistoryTarget is the record page the relay scrapes for history.
const DefaultHistoryTarget = "https://signin.fcu.edu.tw/clockin/ClassClockinRecord.aspx"

// Credential is one account's id/password pair as sent to the backend.
type Credential struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// Result is the per-account outcome of a batch operation.
type Result struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// BatchResponse is the common response shape of both batch endpoints.
type BatchResponse struct {
	Status  string   `json:"status,omitempty"`
	Results []Result `json:"results"`
}

// Client talks to the attendance backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given backend base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetBaseURL repoints the client at a different backend, e.g. after the
// endpoint was edited in settings.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// LoginBatch issues one batched login request for all given credentials.
func (c *Client) LoginBatch(ctx context.Context, users []Credential) (*BatchResponse, error) {
	body := map[string]interface{}{"users": users}
	return c.postBatch(ctx, "/api/login_batch", body)
}

// CheckinBatch issues one batched check-in request carrying the scanned payload.
func (c *Client) CheckinBatch(ctx context.Context, qrData string, users []Credential) (*BatchResponse, error) {
	body := map[string]interface{}{"qr_data": qrData, "users": users}
	return c.postBatch(ctx, "/api/checkin_batch", body)
}

func (c *Client) postBatch(ctx context.Context, path string, body interface{}) (*BatchResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("request failed: %s: %s", resp.Status, string(respBody))
	}

	var result BatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

// History fetches and scrapes the check-in record page for one account.
// The endpoint is best-effort: any failure degrades to an empty record list.
func (c *Client) History(ctx context.Context, cred Credential, targetURL string) []model.CheckinRecord {
	if targetURL == "" {
		targetURL = DefaultHistoryTarget
	}

	payload, err := json.Marshal(map[string]string{
		"id":        cred.ID,
		"password":  cred.Password,
		"targetUrl": targetURL,
	})
	if err != nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/history", bytes.NewReader(payload))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("history fetch failed", logger.F("account", cred.ID), logger.F("error", err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Debug("history endpoint unavailable", logger.F("status", resp.StatusCode))
		return nil
	}

	records, err := ParseHistoryHTML(resp.Body)
	if err != nil {
		logger.Warn("history parse failed", logger.F("error", err))
		return nil
	}
	return records
}
