// Package agent turns a natural-language question into a SQL statement by
// calling an external language-model service. The engine only depends on
// the Generator interface; the HTTP client here is one implementation.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Generator produces a SQL statement for a question. schemaHint carries
// schema text for the tables the question is expected to touch.
type Generator interface {
	GenerateSQL(ctx context.Context, question, schemaHint string) (string, error)
}

const systemPrompt = `You are a SQL agent. Convert the user's question into a single SQL SELECT statement.

Rules:
- Never use UPDATE, INSERT, DELETE, DROP, ALTER, CREATE or TRUNCATE.
- Always include LIMIT 1000 unless the question asks for an aggregate.
- Use only the tables and columns shown in the schema.
- Return only the SQL, nothing else.`

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	httpc   *http.Client
}

func NewClient(baseURL, apiKey, modelName string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   modelName,
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) GenerateSQL(ctx context.Context, question, schemaHint string) (string, error) {
	user := question
	if schemaHint != "" {
		user = "Schema:\n" + schemaHint + "\n\nQuestion: " + question
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: user},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("agent request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("agent response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("agent response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("agent error: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("agent returned status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("agent returned no completion")
	}

	sql := ExtractSQL(parsed.Choices[0].Message.Content)
	if sql == "" {
		return "", fmt.Errorf("agent returned no SQL")
	}
	return sql, nil
}

// ExtractSQL strips markdown code fences and surrounding prose from a
// completion, returning the bare statement.
func ExtractSQL(content string) string {
	content = strings.TrimSpace(content)
	if i := strings.Index(content, "```"); i >= 0 {
		rest := content[i+3:]
		rest = strings.TrimPrefix(rest, "sql")
		rest = strings.TrimPrefix(rest, "\n")
		if j := strings.Index(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		content = rest
	}
	return strings.TrimSpace(content)
}
