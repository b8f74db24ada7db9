// Package vision holds the client for the hosted vision language model
// that reads advertisement images.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultEndpoint is the public Generative Language API base URL.
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultModel is used when no model name is configured.
	DefaultModel = "gemini-2.5-flash"

	defaultTimeout = 60 * time.Second
	// maxErrorBody bounds how much of an error response ends up in logs.
	maxErrorBody = 1024
)

// Image is one encoded image together with the MIME type declared to the
// API.
type Image struct {
	MIMEType string
	Data     []byte
}

// Model answers a text prompt about a single image.
type Model interface {
	Describe(ctx context.Context, prompt string, image Image) (string, error)
}

// Client calls the generateContent endpoint of the Generative Language
// API over plain HTTP.
type Client struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

var _ Model = (*Client)(nil)

// NewClient creates a client for the given endpoint and model. Empty
// endpoint or model fall back to the defaults, a non-positive timeout
// falls back to 60s.
func NewClient(endpoint, apiKey, model string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
	Error      *apiError   `json:"error"`
}

type candidate struct {
	Content content `json:"content"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Describe sends the prompt and the image to the model and returns the
// concatenated text parts of the first candidate reply.
func (c *Client) Describe(ctx context.Context, prompt string, image Image) (string, error) {
	request := generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: prompt},
				{InlineData: &inlineData{
					MIMEType: image.MIMEType,
					Data:     base64.StdEncoding.EncodeToString(image.Data),
				}},
			},
		}},
	}

	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal model request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, c.model)
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create model request: %w", err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	httpRequest.Header.Set("x-goog-api-key", c.apiKey)

	response, err := c.client.Do(httpRequest)
	if err != nil {
		return "", fmt.Errorf("model request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", c.errorFromResponse(response)
	}

	var result generateResponse
	if err := json.NewDecoder(response.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode model response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("model API error %s: %s", result.Error.Status, result.Error.Message)
	}
	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("model returned no candidates")
	}

	var reply strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		reply.WriteString(p.Text)
	}
	if reply.Len() == 0 {
		return "", fmt.Errorf("model returned an empty reply")
	}
	return reply.String(), nil
}

// errorFromResponse turns a non-200 response into an error, preferring the
// structured API error message over the raw body.
func (c *Client) errorFromResponse(response *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("model API returned status %d", response.StatusCode)
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err == nil && result.Error != nil {
		return fmt.Errorf("model API returned status %d: %s", response.StatusCode, result.Error.Message)
	}
	return fmt.Errorf("model API returned status %d: %s", response.StatusCode, strings.TrimSpace(string(body)))
}
