// Package content talks to the external content-generation service. The
// service is an opaque collaborator: the gateway only knows its request and
// response contract.
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Sentinel errors for generation failures.
var (
	ErrUnavailable      = errors.New("content generation service unavailable")
	ErrGenerationFailed = errors.New("content generation failed")
)

// GenerateRequest describes the article to produce.
type GenerateRequest struct {
	Topic              string `json:"topic"`
	TargetKeyword      string `json:"target_keyword"`
	WordCountMin       int    `json:"word_count_min"`
	WordCountMax       int    `json:"word_count_max"`
	CustomInstructions string `json:"custom_instructions"`
}

// GenerateResult is the generated draft material.
type GenerateResult struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	MetaTitle       string   `json:"meta_title"`
	MetaDescription string   `json:"meta_description"`
	Excerpt         string   `json:"excerpt"`
	SuggestedTags   []string `json:"suggested_tags"`
}

// ImageResult is a generated illustration for a post.
type ImageResult struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text"`
}

// Generator is the interface for the generation collaborator.
type Generator interface {
	GeneratePost(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
	GenerateImage(ctx context.Context, prompt string) (*ImageResult, error)
}

// HTTPClient implements Generator against the service's HTTP API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a generation client for the service at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) GeneratePost(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	var result GenerateResult
	if err := c.post(ctx, "/generate/post", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GenerateImage(ctx context.Context, prompt string) (*ImageResult, error) {
	var result ImageResult
	body := map[string]string{"prompt": prompt}
	if err := c.post(ctx, "/generate/image", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build generation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return fmt.Errorf("generation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: service returned %d", ErrGenerationFailed, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode generation response: %w", err)
	}
	return nil
}
