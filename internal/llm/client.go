package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	maxRequestSize = 2 * 1024 * 1024 // 2MB total JSON payload
	maxPromptSize  = 512 * 1024      // 512KB per prompt field
)

// client talks to an OpenAI-compatible chat completions endpoint.
// It makes a single attempt per Complete call; the orchestrator owns
// retry and backoff.
type client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an HTTP provider client with the given configuration.
func NewClient(cfg Config, logger *zap.Logger) (Provider, error) {
	cfg = cfg.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: defaultTransport(cfg),
		}
	}

	return &client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger.Named("llmclient"),
	}, nil
}

func (c *client) Complete(parentCtx context.Context, req *Request) (*Response, error) {
	start := time.Now()

	if req == nil {
		return nil, fmt.Errorf("llmclient: request is nil")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("llmclient: invalid request: %w", err)
	}
	if len(req.Prompt) > maxPromptSize || len(req.System) > maxPromptSize {
		return nil, fmt.Errorf("llmclient: prompt too large (max %d bytes)", maxPromptSize)
	}

	c.logger.Debug("llm request starting",
		zap.String("model", req.Model),
		zap.Int("prompt_bytes", len(req.Prompt)),
	)

	// Per-request timeout (0 = only use parentCtx)
	var ctx context.Context
	var cancel context.CancelFunc
	if c.cfg.RequestTimeout > 0 {
		ctx, cancel = context.WithTimeout(parentCtx, c.cfg.RequestTimeout)
	} else {
		ctx, cancel = context.WithCancel(parentCtx)
	}
	defer cancel()

	messages := make([]wireChatMessage, 0, 2)
	if strings.TrimSpace(req.System) != "" {
		messages = append(messages, wireChatMessage{Role: RoleSystem, Content: req.System})
	}
	messages = append(messages, wireChatMessage{Role: RoleUser, Content: req.Prompt})

	wReq := wireChatRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      false,
	}

	bodyBytes, err := json.Marshal(wReq)
	if err != nil {
		return nil, fmt.Errorf("llmclient: marshal request: %w", err)
	}
	if len(bodyBytes) > maxRequestSize {
		return nil, fmt.Errorf(
			"llmclient: request too large (%d bytes, max %d)",
			len(bodyBytes), maxRequestSize,
		)
	}

	url := c.cfg.BaseURL + "/v1/chat/completions"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("llmclient: build HTTP request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("llm request failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, fmt.Errorf("llmclient: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxRequestSize))

		perr := &ProviderError{Status: resp.StatusCode}

		var wireErr wireErrorResponse
		if err := json.Unmarshal(body, &wireErr); err == nil && wireErr.Error.Message != "" {
			perr.Type = wireErr.Error.Type
			perr.Message = wireErr.Error.Message
		} else {
			perr.Message = strings.TrimSpace(string(body))
		}

		c.logger.Error("llm provider error",
			zap.Int("status", resp.StatusCode),
			zap.String("error_type", perr.Type),
			zap.String("error_message", perr.Message),
		)
		return nil, perr
	}

	var wResp wireChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&wResp); err != nil {
		return nil, fmt.Errorf("llmclient: decode response: %w", err)
	}
	if len(wResp.Choices) == 0 {
		return nil, fmt.Errorf("llmclient: response has no choices")
	}

	out := &Response{
		Text:  strings.TrimSpace(wResp.Choices[0].Message.Content),
		Model: wResp.Model,
	}
	if wResp.Usage != nil {
		out.Usage = &Usage{
			PromptTokens:     wResp.Usage.PromptTokens,
			CompletionTokens: wResp.Usage.CompletionTokens,
			TotalTokens:      wResp.Usage.TotalTokens,
		}
	}

	c.logger.Debug("llm request completed",
		zap.String("model", out.Model),
		zap.Int("response_bytes", len(out.Text)),
		zap.Duration("duration", time.Since(start)),
	)

	return out, nil
}

// Close releases resources held by the client.
func (c *client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
