// Package apiclient sends action requests to the bot's admin API and turns the
// responses into displayable content.
package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/botctl/internal/config"
	"github.com/xkilldash9x/botctl/internal/network"
	"github.com/xkilldash9x/botctl/internal/output"
)

const (
	maxResponseBytes = 16 << 20
	maxErrorBody     = 512
	acceptHeader     = "application/json, text/html;q=0.9"
)

// Client talks to one bot instance.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	headers map[string]string
	limiter *rate.Limiter
	logger  *zap.Logger
	maxBody int64
}

// New builds a client from the API configuration.
func New(cfg config.APIConfig, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("apiclient")

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	opts, err := network.OptionsFor(cfg, logger)
	if err != nil {
		return nil, err
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	return &Client{
		baseURL: base,
		http:    network.NewClient(opts),
		headers: headers,
		limiter: limiter,
		logger:  logger,
		maxBody: maxResponseBytes,
	}, nil
}

// Send issues one request and converts the response. A nil body sends no
// payload and no Content-Type. JSON responses come back pretty-printed as text,
// HTML responses as trusted markup.
func (c *Client) Send(ctx context.Context, method, path string, body []byte) (output.Content, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return output.Content{}, fmt.Errorf("rate limit wait: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	target := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return output.Content{}, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", acceptHeader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("X-Request-ID", requestID)

	log := c.logger.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)
	log.Debug("Sending request.", zap.Int("body_bytes", len(body)))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("Request failed.", zap.Error(err))
		return output.Content{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		log.Warn("Failed to read response body.", zap.Error(err))
		return output.Content{}, fmt.Errorf("failed to read response: %w", err)
	}
	tooLarge := int64(len(data)) > c.maxBody

	log = log.With(zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{
			Code: resp.StatusCode,
			Text: statusText(resp),
			Body: truncate(data, maxErrorBody),
		}
		log.Warn("Bot API returned an error status.", zap.ByteString("body", statusErr.Body))
		return output.Content{}, statusErr
	}
	if tooLarge {
		log.Warn("Bot API response exceeds the size limit.", zap.Int64("limit", c.maxBody))
		return output.Content{}, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, c.maxBody)
	}

	contentType := resp.Header.Get("Content-Type")
	switch {
	case strings.Contains(contentType, "application/json"):
		pretty, err := indentJSON(data)
		if err != nil {
			log.Warn("Bot API returned malformed JSON.", zap.Error(err))
			return output.Content{}, err
		}
		log.Debug("Received JSON response.", zap.Int("bytes", len(data)))
		return output.Text(pretty), nil
	case strings.Contains(contentType, "text/html"):
		log.Debug("Received HTML response.", zap.Int("bytes", len(data)))
		return output.HTML(output.Trust(string(data))), nil
	default:
		log.Warn("Bot API returned an unsupported content type.", zap.String("content_type", contentType))
		return output.Content{}, ErrUnsupportedResponseType
	}
}

// statusText returns the reason phrase the server sent, falling back to the
// canonical text for the code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		b = b[:n]
	}
	return bytes.Clone(b)
}
