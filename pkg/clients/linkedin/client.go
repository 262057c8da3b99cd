package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/FilippTrigub/showNDev/pkg/clients"
)

// DefaultBaseURL is the LinkedIn REST API endpoint.
const DefaultBaseURL = "https://api.linkedin.com"

// Config holds a member access token and its author URN.
type Config struct {
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string

	// AccessToken is an OAuth 2.0 member token with w_member_social scope.
	AccessToken string

	// AuthorURN identifies the posting member, e.g. "urn:li:person:abc123".
	AuthorURN string
}

// Client creates UGC posts on behalf of a member.
type Client struct {
	baseURL     string
	accessToken string
	authorURN   string
	httpClient  *http.Client
}

// NewClient creates a LinkedIn client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:     baseURL,
		accessToken: cfg.AccessToken,
		authorURN:   cfg.AuthorURN,
		httpClient: &http.Client{
			Transport: clients.DefaultTransport(),
			Timeout:   30 * time.Second,
		},
	}
}

// APIError is a non-2xx response from the LinkedIn API.
type APIError struct {
	StatusCode    int
	Message       string `json:"message"`
	ServiceStatus int    `json:"status"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("linkedin: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("linkedin: status %d", e.StatusCode)
}

// CreatePost publishes a text share and returns the post URN from the
// x-restli-id response header.
func (c *Client) CreatePost(ctx context.Context, text string) (string, error) {
	body := map[string]interface{}{
		"author":         c.authorURN,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]interface{}{
			"com.linkedin.ugc.ShareContent": map[string]interface{}{
				"shareCommentary": map[string]string{
					"text": text,
				},
				"shareMediaCategory": "NONE",
			},
		},
		"visibility": map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/ugcPosts", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", decodeAPIError(resp)
	}

	postURN := resp.Header.Get("x-restli-id")
	if postURN == "" {
		return "", fmt.Errorf("linkedin: missing x-restli-id header in response")
	}
	return postURN, nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil {
		_ = json.Unmarshal(data, apiErr)
	}
	return apiErr
}
