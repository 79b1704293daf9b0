// Package telegram is a small Telegram Bot API client: enough to check the
// bot token and post a message to a chat.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// DefaultBaseURL is the public Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// ErrNoToken is returned when the client is built without a bot token.
var ErrNoToken = errors.New("telegram: bot token is required")

// ClientConfig contains configuration for the Telegram client.
type ClientConfig struct {
	// Token is the Telegram Bot API token
	Token string

	// BaseURL is the Bot API base URL (default: https://api.telegram.org)
	BaseURL string

	// Timeout is the HTTP request timeout
	Timeout time.Duration

	// ReadyPollInterval is the delay between getMe probes in WaitUntilReady
	ReadyPollInterval time.Duration

	Logger *zap.Logger
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(token string) ClientConfig {
	return ClientConfig{
		Token:             token,
		BaseURL:           DefaultBaseURL,
		Timeout:           15 * time.Second,
		ReadyPollInterval: 5 * time.Second,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// TELEGRAM API TYPES
// ══════════════════════════════════════════════════════════════════════════════

// User represents a Telegram user.
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username,omitempty"`
}

// Chat represents a Telegram chat.
type Chat struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
}

// Message represents a sent Telegram message.
type Message struct {
	MessageID int64  `json:"message_id"`
	Chat      *Chat  `json:"chat"`
	Date      int64  `json:"date"`
	Text      string `json:"text,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the Telegram Bot API client. Calls are made once; nothing is retried.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *zap.Logger

	ready atomic.Bool
	self  atomic.Pointer[User]
}

// NewClient creates a new Telegram client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.Token == "" {
		return nil, ErrNoToken
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.ReadyPollInterval <= 0 {
		config.ReadyPollInterval = 5 * time.Second
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     config.Logger.With(zap.String("component", "telegram")),
	}, nil
}

// SendMessageParams contains parameters for sending a message.
type SendMessageParams struct {
	// ChatID is a numeric chat id or an @channel username
	ChatID    string
	Text      string
	ParseMode string // "Markdown", "MarkdownV2", "HTML"
}

// SendMessage posts a text message to a chat.
func (c *Client) SendMessage(ctx context.Context, params SendMessageParams) (*Message, error) {
	body := map[string]any{
		"chat_id": params.ChatID,
		"text":    params.Text,
	}
	if params.ParseMode != "" {
		body["parse_mode"] = params.ParseMode
	}

	var message Message
	if err := c.call(ctx, "sendMessage", body, &message); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return &message, nil
}

// GetMe returns the bot account behind the token.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var user User
	if err := c.call(ctx, "getMe", nil, &user); err != nil {
		return nil, fmt.Errorf("get me: %w", err)
	}
	return &user, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// READINESS
// ══════════════════════════════════════════════════════════════════════════════

// WaitUntilReady probes getMe until it succeeds or ctx ends.
func (c *Client) WaitUntilReady(ctx context.Context) error {
	ticker := time.NewTicker(c.config.ReadyPollInterval)
	defer ticker.Stop()

	for {
		user, err := c.GetMe(ctx)
		if err == nil {
			c.self.Store(user)
			c.ready.Store(true)
			c.logger.Info("telegram ready", zap.String("bot", user.Username))
			return nil
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized {
			return err
		}
		c.logger.Warn("telegram not ready", zap.Error(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// IsReady reports whether a getMe probe has succeeded.
func (c *Client) IsReady() bool { return c.ready.Load() }

// Self returns the bot account once ready.
func (c *Client) Self() (*User, bool) {
	u := c.self.Load()
	return u, u != nil
}

// ══════════════════════════════════════════════════════════════════════════════
// API CALL
// ══════════════════════════════════════════════════════════════════════════════

func (c *Client) call(ctx context.Context, method string, body map[string]any, result any) error {
	url := fmt.Sprintf("%s/bot%s/%s", c.config.BaseURL, c.config.Token, method)

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("telegram api call", zap.String("method", method))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if !gjson.ValidBytes(raw) {
		return &APIError{Code: resp.StatusCode, Description: "non-JSON response"}
	}

	parsed := gjson.ParseBytes(raw)
	if !parsed.Get("ok").Bool() {
		code := int(parsed.Get("error_code").Int())
		if code == 0 {
			code = resp.StatusCode
		}
		return &APIError{
			Code:        code,
			Description: parsed.Get("description").String(),
			RetryAfter:  int(parsed.Get("parameters.retry_after").Int()),
		}
	}

	if res := parsed.Get("result"); result != nil && res.Exists() {
		if err := json.Unmarshal([]byte(res.Raw), result); err != nil {
			return fmt.Errorf("unmarshal result: %w", err)
		}
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// APIError represents a Telegram API error.
type APIError struct {
	Code        int
	Description string
	RetryAfter  int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("telegram api error %d: %s", e.Code, e.Description)
}
