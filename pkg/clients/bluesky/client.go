package bluesky

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/failsafe-go/failsafe-go"

	"github.com/FilippTrigub/showNDev/pkg/clients"
)

// DefaultServiceURL is the public Bluesky PDS.
const DefaultServiceURL = "https://bsky.social"

// Config holds AT Protocol credentials.
type Config struct {
	// ServiceURL is the PDS endpoint. Defaults to bsky.social.
	ServiceURL string

	// Identifier is the account handle or DID.
	Identifier string

	// AppPassword is an app-specific password, never the account password.
	AppPassword string
}

// Client talks XRPC to a Bluesky PDS. Sessions are created lazily on
// first use and reused until the server rejects the token.
type Client struct {
	serviceURL string
	identifier string
	password   string
	httpClient *http.Client
	executor   failsafe.Executor[*http.Response]

	mu      sync.Mutex
	session *session
}

type session struct {
	AccessJwt string `json:"accessJwt"`
	DID       string `json:"did"`
}

// NewClient creates a Bluesky client.
func NewClient(cfg Config) *Client {
	serviceURL := cfg.ServiceURL
	if serviceURL == "" {
		serviceURL = DefaultServiceURL
	}
	// Session creation is idempotent, so transient failures retry and
	// a persistent PDS outage trips the breaker.
	execCfg := clients.DefaultHTTPExecutorConfig()
	execCfg.CircuitBreaker = clients.NewCircuitBreaker(clients.CircuitBreakerConfig{
		Name: "bluesky-session",
	})

	return &Client{
		serviceURL: serviceURL,
		identifier: cfg.Identifier,
		password:   cfg.AppPassword,
		httpClient: &http.Client{
			Transport: clients.DefaultTransport(),
			Timeout:   30 * time.Second,
		},
		executor: clients.NewHTTPExecutor(execCfg),
	}
}

// PostRecord is a created post's repo coordinates.
type PostRecord struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

// APIError is a non-2xx XRPC response.
type APIError struct {
	StatusCode int
	ErrorCode  string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("bluesky: %s (%s, status %d)", e.Message, e.ErrorCode, e.StatusCode)
	}
	return fmt.Sprintf("bluesky: status %d", e.StatusCode)
}

// CreatePost publishes text as an app.bsky.feed.post record.
func (c *Client) CreatePost(ctx context.Context, text string) (*PostRecord, error) {
	sess, err := c.ensureSession(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"repo":       sess.DID,
		"collection": "app.bsky.feed.post",
		"record": map[string]interface{}{
			"$type":     "app.bsky.feed.post",
			"text":      text,
			"createdAt": time.Now().UTC().Format(time.RFC3339),
		},
	}

	resp, err := c.doXRPC(ctx, sess, "com.atproto.repo.createRecord", body)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.dropSessionOn(resp.StatusCode)
		return nil, decodeAPIError(resp)
	}

	var record PostRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decode post record: %w", err)
	}
	return &record, nil
}

// DeletePost removes a post record by rkey.
func (c *Client) DeletePost(ctx context.Context, rkey string) error {
	sess, err := c.ensureSession(ctx)
	if err != nil {
		return err
	}

	body := map[string]interface{}{
		"repo":       sess.DID,
		"collection": "app.bsky.feed.post",
		"rkey":       rkey,
	}

	resp, err := c.doXRPC(ctx, sess, "com.atproto.repo.deleteRecord", body)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.dropSessionOn(resp.StatusCode)
		return decodeAPIError(resp)
	}
	return nil
}

// ensureSession logs in if no session is cached.
func (c *Client) ensureSession(ctx context.Context) (*session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return c.session, nil
	}

	body := map[string]string{
		"identifier": c.identifier,
		"password":   c.password,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal session request: %w", err)
	}

	url := c.serviceURL + "/xrpc/com.atproto.server.createSession"
	resp, err := clients.ExecuteHTTP(ctx, c.executor, func() (*http.Response, error) {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
		if reqErr != nil {
			return nil, fmt.Errorf("create session request: %w", reqErr)
		}
		req.Header.Set("Content-Type", "application/json")
		return c.httpClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var sess session
	if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	c.session = &sess
	return &sess, nil
}

// dropSessionOn invalidates the cached session on auth failures so the
// next call re-authenticates.
func (c *Client) dropSessionOn(statusCode int) {
	if statusCode != http.StatusUnauthorized {
		return
	}
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
}

func (c *Client) doXRPC(ctx context.Context, sess *session, method string, body interface{}) (*http.Response, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}

	url := c.serviceURL + "/xrpc/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+sess.AccessJwt)

	return c.httpClient.Do(req)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil {
		_ = json.Unmarshal(data, apiErr)
	}
	return apiErr
}
