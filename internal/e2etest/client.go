package e2etest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/goccy/go-json"
)

// Client talks to the server started by StartServer.
type Client struct {
	client *http.Client
	url    string
}

// NewClient creates a client for the server at url.
func NewClient(url string) *Client {
	return &Client{
		client: &http.Client{
			// The redirect targets are asserted in the tests.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
			Timeout: 10 * time.Second, //nolint:mnd // generous for CI
		},
		url: url,
	}
}

// StatusError is returned when the server responds with an unexpected status code.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Body)
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	for {
		resp, err := c.Get(ctx, urlPath)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Do sends a request with an optional JSON body and returns the response.
func (c *Client) Do(ctx context.Context, method, urlPath string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url+urlPath, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

// Get fetches a URL and returns the response.
func (c *Client) Get(ctx context.Context, urlPath string) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, urlPath, nil)
}

// DoJSON sends body as JSON and decodes the response into out when the status code is wantStatus. Any other
// status code yields a *StatusError. A nil out discards the response body.
func (c *Client) DoJSON(ctx context.Context, method, urlPath string, body any, wantStatus int, out any) error {
	resp, err := c.Do(ctx, method, urlPath, body)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != wantStatus {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	if out == nil {
		return nil
	}
	if err = json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal response body %q: %w", data, err)
	}
	return nil
}

// GetJSON fetches urlPath and decodes the 200 response into out.
func (c *Client) GetJSON(ctx context.Context, urlPath string, out any) error {
	return c.DoJSON(ctx, http.MethodGet, urlPath, nil, http.StatusOK, out)
}

// PostJSON posts body to urlPath and decodes the response with status wantStatus into out.
func (c *Client) PostJSON(ctx context.Context, urlPath string, body any, wantStatus int, out any) error {
	return c.DoJSON(ctx, http.MethodPost, urlPath, body, wantStatus, out)
}

// GetDoc fetches a URL and returns a goquery document.
func (c *Client) GetDoc(ctx context.Context, urlPath string) (*goquery.Document, error) {
	return c.GetDocStatus(ctx, urlPath, http.StatusOK)
}

// GetDocStatus fetches a URL that is expected to respond with wantStatus and returns a goquery document.
func (c *Client) GetDocStatus(ctx context.Context, urlPath string, wantStatus int) (*goquery.Document, error) {
	resp, err := c.Get(ctx, urlPath)
	if err != nil {
		return nil, fmt.Errorf("client get: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != wantStatus {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: ""}
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("create document from reader: %w", err)
	}
	return doc, nil
}
