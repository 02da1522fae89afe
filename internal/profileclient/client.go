// Package profileclient calls the profile HTTP API on behalf of the tip flow.
package profileclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tipjar-labs/tipjar/internal/profile"
)

const (
	usersPath            = "/api/users/"
	idempotencyKeyHeader = "Idempotency-Key"
	defaultTimeout       = 10 * time.Second
)

// StatusError is a non-2xx reply from the profile service.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("profile service returned %d: %s", e.Status, e.Message)
}

// Client talks to the profile service over HTTP.
type Client struct {
	baseURL string
	timeout time.Duration
}

// New builds a Client for the service at baseURL. timeout caps each request; zero
// selects a default.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

// Fetch returns the profile for handle. The service creates it on first access.
func (c *Client) Fetch(ctx context.Context, handle string) (profile.ProfileResponse, error) {
	var out profile.ProfileResponse
	agent := fiber.Get(c.url(handle, ""))
	if err := c.do(ctx, agent, &out); err != nil {
		return profile.ProfileResponse{}, fmt.Errorf("fetch profile %s: %w", handle, err)
	}
	return out, nil
}

// UpdateWallet sets handle's recipient address.
func (c *Client) UpdateWallet(ctx context.Context, handle, address string) (profile.ProfileResponse, error) {
	var out profile.MutationResponse
	agent := fiber.Post(c.url(handle, "walletUpdate")).JSON(profile.WalletUpdateRequest{WalletAddress: address})
	if err := c.do(ctx, agent, &out); err != nil {
		return profile.ProfileResponse{}, fmt.Errorf("update wallet for %s: %w", handle, err)
	}
	return out.User, nil
}

// RecordDonation credits a donation to handle. A non-empty idempotencyKey is sent as
// the Idempotency-Key header so a retried call is applied once.
func (c *Client) RecordDonation(ctx context.Context, handle string, amount float64, fromAddress, idempotencyKey string) (profile.ProfileResponse, error) {
	var out profile.MutationResponse
	agent := fiber.Post(c.url(handle, "updateStats")).
		JSON(profile.UpdateStatsRequest{Amount: &amount, FromAddress: fromAddress})
	if idempotencyKey != "" {
		agent.Set(idempotencyKeyHeader, idempotencyKey)
	}
	if err := c.do(ctx, agent, &out); err != nil {
		return profile.ProfileResponse{}, fmt.Errorf("record donation for %s: %w", handle, err)
	}
	return out.User, nil
}

func (c *Client) url(handle, action string) string {
	u := c.baseURL + usersPath + url.PathEscape(handle)
	if action != "" {
		u += "/" + action
	}
	return u
}

func (c *Client) do(ctx context.Context, agent *fiber.Agent, out any) error {
	// Bytes releases the agent; every path that skips it must release it here.
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(agent)
		return err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	agent.Timeout(timeout)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		var reply profile.ErrorResponse
		if err := json.Unmarshal(body, &reply); err != nil || reply.Error == "" {
			reply.Error = strings.TrimSpace(string(body))
		}
		return &StatusError{Status: status, Message: reply.Error}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
