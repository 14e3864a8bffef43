package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finclarity/advisor/internal/advisor"
	"github.com/finclarity/advisor/internal/auth"
)

func newEchoServer(t *testing.T, received *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if err := json.NewDecoder(request.Body).Decode(received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{}"},"finish_reason":"stop"}]}`))
	}))
}

func TestAdapterSetsJSONSchemaResponseFormat(t *testing.T) {
	var received map[string]any
	server := newEchoServer(t, &received)
	defer server.Close()

	adapter := Adapter{
		Client:       Client{HTTPBaseURL: server.URL},
		DefaultModel: "gpt-4o-mini",
	}
	schema := []byte(`{"type":"object","properties":{"content":{"type":"string"}},"required":["content"],"additionalProperties":false}`)
	response, err := adapter.Complete(context.Background(), auth.New("k"), advisor.StageRequest{
		Instructions: "system",
		Input:        "user",
		SchemaName:   "published_response",
		Schema:       schema,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if response.RawText == "" {
		t.Fatalf("expected non-empty response")
	}

	responseFormatPayload, ok := received["response_format"].(map[string]any)
	if !ok {
		t.Fatalf("expected response_format in request, got %v", received["response_format"])
	}
	if responseFormatPayload["type"] != "json_schema" {
		t.Fatalf("expected type json_schema, got %v", responseFormatPayload["type"])
	}
	schemaPayload, ok := responseFormatPayload["json_schema"].(map[string]any)
	if !ok {
		t.Fatalf("expected json_schema payload, got %v", responseFormatPayload["json_schema"])
	}
	if schemaPayload["name"] != "published_response" {
		t.Fatalf("unexpected schema name: %v", schemaPayload["name"])
	}
	if schemaPayload["strict"] != true {
		t.Fatalf("expected strict schema, got %v", schemaPayload["strict"])
	}
	if received["model"] != "gpt-4o-mini" {
		t.Fatalf("expected default model applied, got %v", received["model"])
	}
}

func TestAdapterOmitsTemperatureWhenUnsupported(t *testing.T) {
	var received map[string]any
	server := newEchoServer(t, &received)
	defer server.Close()

	adapter := Adapter{
		Client:              Client{HTTPBaseURL: server.URL},
		DefaultModel:        "gpt-4o-mini",
		DefaultTemp:         0.7,
		SupportsTemperature: false,
	}
	if _, err := adapter.Complete(context.Background(), auth.New("k"), advisor.StageRequest{Input: "user"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, present := received["temperature"]; present {
		t.Fatalf("temperature must be omitted when the model pins it")
	}
}

func TestAdapterSendsNonDefaultTemperature(t *testing.T) {
	var received map[string]any
	server := newEchoServer(t, &received)
	defer server.Close()

	adapter := Adapter{
		Client:              Client{HTTPBaseURL: server.URL},
		DefaultModel:        "gpt-4o-mini",
		DefaultTemp:         0.2,
		SupportsTemperature: true,
	}
	if _, err := adapter.Complete(context.Background(), auth.New("k"), advisor.StageRequest{Input: "user"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	temperature, present := received["temperature"].(float64)
	if !present || temperature != 0.2 {
		t.Fatalf("expected temperature 0.2, got %v", received["temperature"])
	}
}
