// Package llm speaks the OpenAI-compatible chat-completions wire
// format, including the strict json_schema response format every
// advisory stage relies on.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/finclarity/advisor/internal/auth"
)

// Client posts chat completions against a single endpoint. The bearer
// token always comes from the credential handed to each call, never
// from client state.
type Client struct {
	HTTPBaseURL string
	HTTPClient  *http.Client
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model               string          `json:"model"`
	Messages            []ChatMessage   `json:"messages"`
	MaxCompletionTokens int             `json:"max_completion_tokens,omitempty"`
	Temperature         *float64        `json:"temperature,omitempty"`
	ResponseFormat      *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type       string             `json:"type"`
	JSONSchema *jsonSchemaWrapper `json:"json_schema,omitempty"`
}

type jsonSchemaWrapper struct {
	Name   string          `json:"name"`
	Schema json.RawMessage `json:"schema"`
	Strict bool            `json:"strict,omitempty"`
}

type chatMessageResponse struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
	Refusal json.RawMessage `json:"refusal,omitempty"`
}

type chatCompletionChoice struct {
	Message      chatMessageResponse `json:"message"`
	FinishReason string              `json:"finish_reason"`
}

type ChatCompletionResponse struct {
	Choices []chatCompletionChoice `json:"choices"`
}

// CreateChatCompletion performs one blocking completion call and
// returns the assistant text. Error messages carry a bounded preview
// of the response body.
func (c Client) CreateChatCompletion(ctx context.Context, credential auth.Credential, requestPayload ChatCompletionRequest) (string, error) {
	requestBytes, marshalErr := json.Marshal(requestPayload)
	if marshalErr != nil {
		return "", marshalErr
	}
	httpRequest, buildErr := http.NewRequestWithContext(ctx, http.MethodPost, c.HTTPBaseURL+"/chat/completions", bytes.NewReader(requestBytes))
	if buildErr != nil {
		return "", buildErr
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	httpRequest.Header.Set("Authorization", "Bearer "+credential.Token)

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	httpResponse, httpErr := httpClient.Do(httpRequest)
	if httpErr != nil {
		return "", httpErr
	}
	defer func(closer io.ReadCloser) { _ = closer.Close() }(httpResponse.Body)

	bodyBytes, readErr := io.ReadAll(httpResponse.Body)
	if readErr != nil {
		return "", readErr
	}
	bodyPreview := truncateForLog(string(bodyBytes), 512)

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		return "", fmt.Errorf("llm http error %d: %s", httpResponse.StatusCode, bodyPreview)
	}

	var completion ChatCompletionResponse
	if decodeErr := json.Unmarshal(bodyBytes, &completion); decodeErr != nil {
		return "", fmt.Errorf("decode chat completion: %w (body=%s)", decodeErr, bodyPreview)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices (body=%s)", bodyPreview)
	}

	choice := completion.Choices[0]
	content, extractErr := extractMessageContent(choice.Message)
	if extractErr != nil {
		return "", fmt.Errorf("chat completion parse error: %w (body=%s)", extractErr, bodyPreview)
	}
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		if strings.EqualFold(strings.TrimSpace(choice.FinishReason), "length") {
			return "", fmt.Errorf("chat completion truncated by token limit (body=%s)", bodyPreview)
		}
		if refusal := decodeRefusal(choice.Message.Refusal); refusal != "" {
			return "", fmt.Errorf("chat completion refusal: %s", refusal)
		}
		return "", fmt.Errorf("chat completion returned empty message (body=%s)", bodyPreview)
	}
	return trimmed, nil
}

func extractMessageContent(message chatMessageResponse) (string, error) {
	if len(message.Content) == 0 || string(message.Content) == "null" {
		if refusal := decodeRefusal(message.Refusal); refusal != "" {
			return "", fmt.Errorf("chat completion refusal: %s", refusal)
		}
		return "", nil
	}

	var asString string
	if err := json.Unmarshal(message.Content, &asString); err == nil {
		return asString, nil
	}
	if text, ok := extractRichText(message.Content); ok {
		return text, nil
	}
	if refusal := decodeRefusal(message.Refusal); refusal != "" {
		return "", fmt.Errorf("chat completion refusal: %s", refusal)
	}
	return "", fmt.Errorf("unsupported message content: %s", truncateForLog(string(message.Content), 240))
}

// extractRichText flattens the array-of-parts content shape some
// providers return instead of a plain string.
func extractRichText(raw json.RawMessage) (string, bool) {
	var parts []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parts); err != nil {
		return "", false
	}
	var fragments []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part.Text); trimmed != "" {
			fragments = append(fragments, trimmed)
		}
	}
	if len(fragments) == 0 {
		return "", false
	}
	return strings.Join(fragments, "\n"), true
}

func decodeRefusal(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var refusalString string
	if err := json.Unmarshal(raw, &refusalString); err == nil {
		return strings.TrimSpace(refusalString)
	}
	if text, ok := extractRichText(raw); ok {
		return text
	}
	return strings.TrimSpace(truncateForLog(string(raw), 200))
}

func truncateForLog(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
