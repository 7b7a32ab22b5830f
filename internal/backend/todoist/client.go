package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/alexanderramin/taskline/internal/backend"
)

const defaultBaseURL = "https://api.todoist.com/rest/v2"

// defaultTimeout bounds every request; expiry surfaces as a network error
// since cancellation after dispatch is not supported upstream.
const defaultTimeout = 15 * time.Second

// client is a thin bearer-token HTTP client for the Todoist REST API.
type client struct {
	baseURL string
	token   string
	timeout time.Duration
	http    *http.Client
}

func newClient(token, baseURL string) *client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &client{
		baseURL: baseURL,
		token:   token,
		timeout: defaultTimeout,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

// do issues a request and decodes the JSON response into out (when out is
// non-nil and the response has a body). Non-2xx statuses are mapped onto the
// adapter error taxonomy.
func (c *client) do(ctx context.Context, method, path string, body any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", backend.ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", backend.ErrNetwork, err)
	}

	if err := statusError(resp, respBody); err != nil {
		return err
	}

	if out != nil && len(respBody) > 0 && resp.StatusCode != http.StatusNoContent {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// statusError maps a non-2xx response onto a typed adapter error.
func statusError(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: status %d", backend.ErrAuth, resp.StatusCode)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", backend.ErrNotFound, string(body))
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", backend.ErrValidation, string(body))
	case http.StatusTooManyRequests:
		return &backend.RateLimitError{RetryAfter: retryAfter(resp)}
	default:
		return fmt.Errorf("%w: status %d: %s", backend.ErrNetwork, resp.StatusCode, string(body))
	}
}

func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
