package suggest

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

	"tasktrack/backend/internal/validation"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrSuggestionFailed marks upstream failures: transport errors,
// non-2xx responses, and responses that do not satisfy the schema.
// The task workflow never depends on this call succeeding.
var ErrSuggestionFailed = errors.New("label suggestion failed")

const promptTemplate = `Suggest relevant labels for the following task. These labels will help the user categorize, search, and filter their tasks.

Task Title: %s
Task Description: %s

Respond with a JSON array of strings.  Here are some examples:

["Urgent", "Work", "Meeting"]
["Home", "Cleaning"]
["Personal", "Finance"]`

// the generated text must parse as an array of strings, nothing else
const labelsSchema = `{
	"type": "array",
	"items": {"type": "string"}
}`

type Config struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	model      string
	schema     *jsonschema.Schema
}

func NewClient(config Config) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   config.Endpoint,
		apiKey:     config.APIKey,
		model:      config.Model,
		schema:     jsonschema.MustCompileString("labels.json", labelsSchema),
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Output string `json:"output"`
}

// Suggest asks the generative service for label suggestions. One
// request, no retry, no caching; suggestions are advisory and are not
// persisted here.
func (c *Client) Suggest(ctx context.Context, title, description string) ([]string, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &validation.ValidationError{Field: "title", Message: "title is required"}
	}

	prompt := fmt.Sprintf(promptTemplate, title, description)

	body, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSuggestionFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSuggestionFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSuggestionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: service returned status %d", ErrSuggestionFailed, resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSuggestionFailed, err)
	}

	var envelope generateResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrSuggestionFailed, err)
	}

	return c.parseLabels(envelope.Output)
}

// parseLabels validates the generated text against the labels schema
// before trusting it.
func (c *Client) parseLabels(output string) ([]string, error) {
	text := stripCodeFences(output)

	var parsed interface{}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("%w: output is not valid JSON: %v", ErrSuggestionFailed, err)
	}

	if err := c.schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("%w: output does not match label schema: %v", ErrSuggestionFailed, err)
	}

	raw := parsed.([]interface{})
	labels := make([]string, 0, len(raw))
	for _, v := range raw {
		labels = append(labels, v.(string))
	}
	return labels, nil
}

// models often wrap JSON output in markdown fences
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
