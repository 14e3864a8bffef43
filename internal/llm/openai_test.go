package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/finclarity/advisor/internal/auth"
)

func TestCreateChatCompletionSendsCredentialBearer(t *testing.T) {
	var authorization string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		authorization = request.Header.Get("Authorization")
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	client := Client{HTTPBaseURL: server.URL}
	text, err := client.CreateChatCompletion(context.Background(), auth.New("session-token"), ChatCompletionRequest{
		Model:    "gpt-4o-mini",
		Messages: []ChatMessage{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("CreateChatCompletion: %v", err)
	}
	if text != "hello" {
		t.Fatalf("unexpected completion text %q", text)
	}
	if authorization != "Bearer session-token" {
		t.Fatalf("expected bearer from credential, got %q", authorization)
	}
}

func TestCreateChatCompletionSurfacesHTTPErrorWithPreview(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusTooManyRequests)
		_, _ = writer.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	client := Client{HTTPBaseURL: server.URL}
	_, err := client.CreateChatCompletion(context.Background(), auth.New("k"), ChatCompletionRequest{Model: "m"})
	if err == nil {
		t.Fatalf("expected error for HTTP 429")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected status and body preview in error, got %v", err)
	}
}

func TestCreateChatCompletionRejectsEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := Client{HTTPBaseURL: server.URL}
	_, err := client.CreateChatCompletion(context.Background(), auth.New("k"), ChatCompletionRequest{Model: "m"})
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Fatalf("expected no-choices error, got %v", err)
	}
}

func TestCreateChatCompletionReportsRefusal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":null,"refusal":"cannot help with that"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	client := Client{HTTPBaseURL: server.URL}
	_, err := client.CreateChatCompletion(context.Background(), auth.New("k"), ChatCompletionRequest{Model: "m"})
	if err == nil || !strings.Contains(err.Error(), "cannot help with that") {
		t.Fatalf("expected refusal surfaced, got %v", err)
	}
}

func TestCreateChatCompletionFlattensRichContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":[{"type":"text","text":"part one"},{"type":"text","text":"part two"}]},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	client := Client{HTTPBaseURL: server.URL}
	text, err := client.CreateChatCompletion(context.Background(), auth.New("k"), ChatCompletionRequest{Model: "m"})
	if err != nil {
		t.Fatalf("CreateChatCompletion: %v", err)
	}
	if text != "part one\npart two" {
		t.Fatalf("unexpected flattened text %q", text)
	}
}
