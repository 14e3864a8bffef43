package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/finclarity/advisor/internal/advisor"
	"github.com/finclarity/advisor/internal/auth"
)

// Adapter maps stage requests onto the wire client. It implements
// advisor.StageClient.
type Adapter struct {
	Client              Client
	DefaultModel        string
	DefaultTemp         float64
	DefaultTokens       int
	SupportsTemperature bool
}

func (a Adapter) Complete(ctx context.Context, credential auth.Credential, request advisor.StageRequest) (advisor.StageResponse, error) {
	model := strings.TrimSpace(request.Model)
	if model == "" {
		model = a.DefaultModel
	}

	wireRequest := ChatCompletionRequest{
		Model: model,
		Messages: []ChatMessage{
			{Role: "system", Content: strings.TrimSpace(request.Instructions)},
			{Role: "user", Content: strings.TrimSpace(request.Input)},
		},
		MaxCompletionTokens: chooseInt(request.MaxTokens, a.DefaultTokens),
	}

	// Several current models pin temperature to the server default;
	// only send a value when the model accepts one and it is not the
	// default already.
	if a.SupportsTemperature {
		resolvedTemp := chooseFloat(request.Temperature, a.DefaultTemp)
		if resolvedTemp != 0 && resolvedTemp != 1 {
			wireRequest.Temperature = &resolvedTemp
		}
	}

	if len(request.Schema) > 0 {
		wireRequest.ResponseFormat = &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchemaWrapper{
				Name:   request.SchemaName,
				Schema: json.RawMessage(request.Schema),
				Strict: true,
			},
		}
	}

	text, err := a.Client.CreateChatCompletion(ctx, credential, wireRequest)
	if err != nil {
		return advisor.StageResponse{}, err
	}
	return advisor.StageResponse{RawText: text}, nil
}

func chooseInt(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}

func chooseFloat(value, fallback float64) float64 {
	if value > 0 {
		return value
	}
	return fallback
}
