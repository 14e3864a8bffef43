package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/finclarity/advisor/internal/auth"
	"github.com/finclarity/advisor/internal/schema"
)

// StageRequest is what a stage sends to its model: instructions,
// the turn-scoped input and the structured-output contract.
type StageRequest struct {
	Instructions string
	Input        string
	SchemaName   string
	Schema       json.RawMessage
	Model        string
	MaxTokens    int
	Temperature  float64
}

// StageResponse carries the raw model text back for parsing.
type StageResponse struct {
	RawText string
}

// StageClient performs one blocking remote completion. The credential
// is an explicit argument on every call.
type StageClient interface {
	Complete(ctx context.Context, credential auth.Credential, request StageRequest) (StageResponse, error)
}

// Stage is one LLM-backed pipeline step.
type Stage interface {
	Name() StageName
	Invoke(ctx context.Context, credential auth.Credential, input string) (StageOutput, error)
}

// StageSettings selects the model parameters and optional instruction
// override for one stage. Zero values fall back to defaults.
type StageSettings struct {
	Instructions string
	Model        string
	MaxTokens    int
	Temperature  float64
}

type llmStage struct {
	name         StageName
	instructions string
	schemaName   string
	schemaBytes  json.RawMessage
	settings     StageSettings
	client       StageClient
	parse        func(raw string) (StageOutput, error)
}

func (s *llmStage) Name() StageName { return s.name }

func (s *llmStage) Invoke(ctx context.Context, credential auth.Credential, input string) (StageOutput, error) {
	response, err := s.client.Complete(ctx, credential, StageRequest{
		Instructions: s.instructions,
		Input:        input,
		SchemaName:   s.schemaName,
		Schema:       s.schemaBytes,
		Model:        s.settings.Model,
		MaxTokens:    s.settings.MaxTokens,
		Temperature:  s.settings.Temperature,
	})
	if err != nil {
		return nil, &StageError{Stage: s.name, Err: err}
	}
	output, parseErr := s.parse(response.RawText)
	if parseErr != nil {
		return nil, &StageError{Stage: s.name, Err: fmt.Errorf("parse output: %w", parseErr)}
	}
	return output, nil
}

func newStage[T StageOutput](name StageName, schemaName string, client StageClient, settings StageSettings) (Stage, error) {
	schemaBytes, err := schema.Generate[T]()
	if err != nil {
		return nil, fmt.Errorf("schema for %s: %w", name, err)
	}
	instructions := strings.TrimSpace(settings.Instructions)
	if instructions == "" {
		instructions = defaultInstructions(name)
	}
	return &llmStage{
		name:         name,
		instructions: instructions,
		schemaName:   schemaName,
		schemaBytes:  schemaBytes,
		settings:     settings,
		client:       client,
		parse: func(raw string) (StageOutput, error) {
			decoded, decodeErr := decodeStrict[T](raw)
			if decodeErr != nil {
				return nil, decodeErr
			}
			return decoded, nil
		},
	}, nil
}

// NewProfilerStage builds the need-profiling stage.
func NewProfilerStage(client StageClient, settings StageSettings) (Stage, error) {
	return newStage[NeedProfile](StageProfiler, "need_profile", client, settings)
}

// NewExpertStage builds the product-expertise stage.
func NewExpertStage(client StageClient, settings StageSettings) (Stage, error) {
	return newStage[ExpertAnswer](StageExpert, "expert_answer", client, settings)
}

// NewClarityStage builds the plain-language rewriting stage.
func NewClarityStage(client StageClient, settings StageSettings) (Stage, error) {
	return newStage[ClarityDraft](StageClarity, "clarity_draft", client, settings)
}

// NewComplianceStage builds the compliance validation stage.
func NewComplianceStage(client StageClient, settings StageSettings) (Stage, error) {
	return newStage[ComplianceVerdict](StageCompliance, "compliance_verdict", client, settings)
}

// NewPublisherStage builds the final formatting stage. Unlike the
// other stages it tolerates non-JSON output: the raw text is published
// as-is when decoding fails, so a formatting slip never loses an
// approved advisory.
func NewPublisherStage(client StageClient, settings StageSettings) (Stage, error) {
	stage, err := newStage[PublishedResponse](StagePublisher, "published_response", client, settings)
	if err != nil {
		return nil, err
	}
	concrete := stage.(*llmStage)
	concrete.parse = func(raw string) (StageOutput, error) {
		published, decodeErr := decodeStrict[PublishedResponse](raw)
		if decodeErr != nil {
			return PublishedResponse{Content: strings.TrimSpace(raw)}, nil
		}
		return published, nil
	}
	return concrete, nil
}

// decodeStrict rejects unknown fields so a drifted model response
// surfaces as a stage failure instead of silently losing data.
func decodeStrict[T StageOutput](raw string) (T, error) {
	var zero T
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.DisallowUnknownFields()
	var out T
	if err := decoder.Decode(&out); err != nil {
		return zero, err
	}
	return out, nil
}
