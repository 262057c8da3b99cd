package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"

	"github.com/FilippTrigub/showNDev/pkg/clients"
)

// DefaultBaseURL is the Twitter API v2 endpoint.
const DefaultBaseURL = "https://api.twitter.com"

// Config holds the OAuth 1.0a user-context credentials.
type Config struct {
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string

	APIKey            string
	APISecret         string
	AccessToken       string
	AccessTokenSecret string
}

// Client posts tweets on behalf of a single user via the v2 API.
// All requests are signed with OAuth 1.0a user context.
type Client struct {
	baseURL    string
	userID     string
	httpClient *http.Client
}

// NewClient creates a Twitter client. The returned client owns an
// oauth1-signing http.Client; requests time out after 30 seconds.
func NewClient(cfg Config) *Client {
	oauthCfg := oauth1.NewConfig(cfg.APIKey, cfg.APISecret)
	token := oauth1.NewToken(cfg.AccessToken, cfg.AccessTokenSecret)

	// The signing transport wraps a pooled base client.
	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, &http.Client{
		Transport: clients.DefaultTransport(),
	})
	httpClient := oauthCfg.Client(ctx, token)
	httpClient.Timeout = 30 * time.Second

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Tweet is the created-tweet payload returned by the v2 API.
type Tweet struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// APIError is a non-2xx response from the Twitter API.
type APIError struct {
	StatusCode int
	Title      string `json:"title"`
	Detail     string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("twitter: %s (status %d)", e.Detail, e.StatusCode)
	}
	return fmt.Sprintf("twitter: status %d", e.StatusCode)
}

// PostTweet publishes a tweet and returns its ID and text.
func (c *Client) PostTweet(ctx context.Context, text string) (*Tweet, error) {
	body := map[string]string{"text": text}

	resp, err := c.doRequest(ctx, http.MethodPost, c.baseURL+"/2/tweets", body)
	if err != nil {
		return nil, fmt.Errorf("post tweet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var out struct {
		Data Tweet `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode tweet response: %w", err)
	}
	return &out.Data, nil
}

// DeleteTweet removes a tweet by ID.
func (c *Client) DeleteTweet(ctx context.Context, tweetID string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("%s/2/tweets/%s", c.baseURL, tweetID), nil)
	if err != nil {
		return fmt.Errorf("delete tweet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}
	return nil
}

// Like marks a tweet as liked by the authenticated user.
func (c *Client) Like(ctx context.Context, userID, tweetID string) error {
	body := map[string]string{"tweet_id": tweetID}
	resp, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("%s/2/users/%s/likes", c.baseURL, userID), body)
	if err != nil {
		return fmt.Errorf("like tweet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}
	return nil
}

// Retweet reposts a tweet as the authenticated user.
func (c *Client) Retweet(ctx context.Context, userID, tweetID string) error {
	body := map[string]string{"tweet_id": tweetID}
	resp, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("%s/2/users/%s/retweets", c.baseURL, userID), body)
	if err != nil {
		return fmt.Errorf("retweet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, method, url string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

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
