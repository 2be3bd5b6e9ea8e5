// Package llm wraps the external generation service. Failures are reported
// as typed errors so callers can distinguish an unreachable endpoint from an
// explicit error payload or a crashed model runner, instead of pattern
// matching response text.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// generateTimeout bounds one generation call. No retry: a timeout
	// degrades only the stage that issued the call.
	generateTimeout = 120 * time.Second

	// numCtx keeps the context window modest so small local models
	// don't run out of memory.
	numCtx = 2048

	temperature = 0.5
)

// TransportError means the request never completed: connection refused,
// DNS failure, timeout.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("could not reach generation service: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServiceError means the endpoint answered with an explicit error payload.
// RunnerCrashed is set when the payload carries a model-runner crash marker,
// which deserves a gentler message than a raw exit status.
type ServiceError struct {
	StatusCode    int
	Message       string
	RunnerCrashed bool
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("generation service returned status %d: %s", e.StatusCode, e.Message)
}

// ErrorLine renders the user-visible error prefix line included in degraded
// responses. Returns "" for a nil error.
func ErrorLine(err error) string {
	if err == nil {
		return ""
	}
	var te *TransportError
	if errors.As(err, &te) {
		return fmt.Sprintf("ERROR: Could not reach the local model: %v", te.Err)
	}
	var se *ServiceError
	if errors.As(err, &se) {
		if se.RunnerCrashed {
			return "ERROR: The local model crashed while processing the request. Try a smaller model."
		}
		return fmt.Sprintf("ERROR: Model returned status %d: %s", se.StatusCode, se.Message)
	}
	return "ERROR: " + err.Error()
}

// crashMarkers identify runner failures inside an error payload.
var crashMarkers = []string{
	"runner process has terminated",
	"failed while processing",
}

// Client calls an Ollama-compatible /api/generate endpoint.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates a generation client with the default model used when a
// request carries no override.
func NewClient(baseURL, model string) *Client {
	return &Client{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: generateTimeout,
		},
	}
}

// Model returns the default model name.
func (c *Client) Model() string {
	return c.model
}

// Generate submits a prompt and returns the model's response text. The
// model override, when non-empty, replaces the default for this call only.
func (c *Client) Generate(ctx context.Context, prompt, modelOverride string) (string, error) {
	model := c.model
	if modelOverride != "" {
		model = modelOverride
	}

	payload := map[string]interface{}{
		"model":  model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]interface{}{
			"num_ctx":     numCtx,
			"temperature": temperature,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", c.serviceError(resp)
	}

	var apiResp struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if apiResp.Response == "" {
		return "", &ServiceError{StatusCode: resp.StatusCode, Message: "empty response from model"}
	}

	return apiResp.Response, nil
}

func (c *Client) serviceError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(resp.Body)

	// Ollama error payloads look like {"error": "..."}.
	message := string(bodyBytes)
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(bodyBytes, &payload); err == nil && payload.Error != "" {
		message = payload.Error
	}

	se := &ServiceError{
		StatusCode: resp.StatusCode,
		Message:    message,
	}
	lower := strings.ToLower(message)
	for _, marker := range crashMarkers {
		if strings.Contains(lower, marker) {
			se.RunnerCrashed = true
			break
		}
	}
	return se
}
