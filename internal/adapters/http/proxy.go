package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	ErrProxyURL      = errors.New("proxy url is required")
	ErrUpstreamState = errors.New("API request failed")
)

type ProxyRequest struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Body    json.RawMessage   `json:"body"`
}

func (h *handlers) proxy(c *gin.Context) {
	var req ProxyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.proxyFailed(c, err)
		return
	}
	data, err := h.forward(c.Request.Context(), req)
	if err != nil {
		h.proxyFailed(c, err)
		return
	}
	h.metrics.ProxyOutcome("ok")
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (h *handlers) proxyFailed(c *gin.Context, err error) {
	outcome := "failed"
	if errors.Is(err, ErrUpstreamState) {
		outcome = "upstream_error"
	}
	h.metrics.ProxyOutcome(outcome)
	log.Error().Err(err).Str("module", "adapters.http").Msg("proxy request error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Proxy request failed", "message": err.Error()})
}

// forward calls the upstream with the app key as bearer token and returns
// its JSON body. Caller headers override the defaults.
func (h *handlers) forward(ctx context.Context, req ProxyRequest) ([]byte, error) {
	if req.URL == "" {
		return nil, ErrProxyURL
	}
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodPost
	}

	var body io.Reader
	if len(req.Body) > 0 && string(req.Body) != "null" {
		body = bytes.NewReader(req.Body)
	}
	if h.cfg.Server.ProxyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.Server.ProxyTimeout)
		defer cancel()
	}
	up, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, err
	}
	up.Header.Set("Authorization", "Bearer "+h.cfg.RTC.AppKey)
	up.Header.Set("Content-Type", "application/json")
	for k, v := range req.Headers {
		up.Header.Set(k, v)
	}

	resp, err := h.client.Do(up)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUpstreamState, resp.StatusCode)
	}
	if !json.Valid(raw) {
		return nil, errors.New("upstream returned invalid JSON")
	}
	return raw, nil
}
