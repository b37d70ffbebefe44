// Raw HTTP passthrough to the tracker API with client-side rate limiting.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"
)

// APIService provides methods for making raw HTTP requests to the tracker
// API. Requests pass through the injected Doer, so admin paths carry the
// caller's bearer token when one is available.
type APIService struct {
	baseURL string
	client  Doer
	limiter *rate.Limiter
}

// NewAPIService creates a new raw API client. A zero requestsPerSecond
// disables the limiter.
func NewAPIService(baseURL string, client Doer, requestsPerSecond float64) *APIService {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if client == nil {
		client = http.DefaultClient
	}

	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}

	return &APIService{
		baseURL: baseURL,
		client:  client,
		limiter: limiter,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, "", nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(data))
}

// PostForm performs a POST request with a form-encoded body.
func (a *APIService) PostForm(ctx context.Context, path, form string) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, "application/x-www-form-urlencoded", bytes.NewBufferString(form))
}

// PostMultipart performs a POST request with a prepared multipart body.
func (a *APIService) PostMultipart(ctx context.Context, path, contentType string, body io.Reader) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, contentType, body)
}

// Put performs a PUT request with the given JSON data and returns the raw response.
func (a *APIService) Put(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPut, path, "application/json", bytes.NewReader(data))
}

// Delete performs a DELETE request, optionally carrying a JSON body.
func (a *APIService) Delete(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	var body io.Reader
	contentType := ""
	if len(data) > 0 {
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return a.do(ctx, http.MethodDelete, path, contentType, body)
}

func (a *APIService) do(ctx context.Context, method, path, contentType string, body io.Reader) (*APIResponse, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	fullURL := a.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       raw,
	}

	var jsonData any
	if err := json.Unmarshal(raw, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}
