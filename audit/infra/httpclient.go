package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"audit-gateway/audit/domain"

	"golang.org/x/time/rate"
)

// maxResponseBytes limita o corpo lido de qualquer upstream.
const maxResponseBytes = 4 << 20

// Doer é o mínimo que os adaptadores precisam de um cliente HTTP.
// *http.Client e *ThrottledClient satisfazem.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ThrottledClient espera um token antes de cada requisição.
// Cada provedor recebe o seu, para uma rajada de auditorias não estourar a cota de um deles.
type ThrottledClient struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewThrottledClient com rps <= 0 desliga o limite.
func NewThrottledClient(client *http.Client, rps float64, burst int) *ThrottledClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &ThrottledClient{client: client, limiter: rate.NewLimiter(limit, burst)}
}

// Do bloqueia até haver token ou o contexto da requisição encerrar.
func (c *ThrottledClient) Do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("outbound throttle: %w", err)
	}
	return c.client.Do(req)
}

func doJSON(ctx context.Context, client Doer, method, url string, headers map[string]string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d %s", domain.ErrUpstreamStatus, resp.StatusCode, snippet(raw))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return nil
}

func snippet(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
