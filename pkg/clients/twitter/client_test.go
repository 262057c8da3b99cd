package twitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testClient(baseURL string) *Client {
	return NewClient(Config{
		BaseURL:           baseURL,
		APIKey:            "key",
		APISecret:         "secret",
		AccessToken:       "token",
		AccessTokenSecret: "token-secret",
	})
}

func TestClient_PostTweet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/2/tweets" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); !strings.HasPrefix(auth, "OAuth ") {
			t.Errorf("expected OAuth 1.0a signed request, got Authorization %q", auth)
		}

		var body struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		if body.Text != "hello world" {
			t.Errorf("expected text %q, got %q", "hello world", body.Text)
		}

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]string{"id": "1234567890", "text": body.Text},
		})
	}))
	defer server.Close()

	tweet, err := testClient(server.URL).PostTweet(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if tweet.ID != "1234567890" {
		t.Fatalf("expected id 1234567890, got %q", tweet.ID)
	}
}

func TestClient_PostTweet_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"title":  "Forbidden",
			"detail": "duplicate content",
		})
	}))
	defer server.Close()

	_, err := testClient(server.URL).PostTweet(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error from API")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Error(), "duplicate content") {
		t.Fatalf("expected detail in error, got %q", apiErr.Error())
	}
}

func TestClient_DeleteTweet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/2/tweets/42" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]bool{"deleted": true},
		})
	}))
	defer server.Close()

	if err := testClient(server.URL).DeleteTweet(context.Background(), "42"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
