package config

import (
	"strings"
	"testing"
)

const validConfiguration = `
common:
  api:
    endpoint: https://api.example.com/v1
    api_key_env: EXAMPLE_KEY
  defaults:
    max_revisions: 2
    timeout_seconds: 30
models:
  - name: standard
    model_id: gpt-4o-mini
    default: true
agents:
  - stage: compliance_checker
    model: standard
    instructions: "Stricter checks."
`

func TestLoadRootParsesAndValidates(t *testing.T) {
	root, err := LoadRoot(RootConfigurationSource{Reference: "test", Content: []byte(validConfiguration)})
	if err != nil {
		t.Fatalf("LoadRoot: %v", err)
	}
	if root.Common.API.Endpoint != "https://api.example.com/v1" {
		t.Fatalf("unexpected endpoint %q", root.Common.API.Endpoint)
	}
	if root.Common.Defaults.MaxRevisions != 2 {
		t.Fatalf("unexpected max revisions %d", root.Common.Defaults.MaxRevisions)
	}
	agent, found := root.FindAgent("compliance_checker")
	if !found || agent.Model != "standard" {
		t.Fatalf("expected compliance agent override, got %+v", agent)
	}
}

func TestLoadRootRejectsEmptyModels(t *testing.T) {
	_, err := LoadRoot(RootConfigurationSource{Reference: "test", Content: []byte("common: {}\nmodels: []\n")})
	if err == nil || !strings.Contains(err.Error(), "models is empty") {
		t.Fatalf("expected empty models rejection, got %v", err)
	}
}

func TestLoadRootRequiresDefaultModel(t *testing.T) {
	content := `
models:
  - name: standard
    model_id: gpt-4o-mini
`
	_, err := LoadRoot(RootConfigurationSource{Reference: "test", Content: []byte(content)})
	if err == nil || !strings.Contains(err.Error(), "default model") {
		t.Fatalf("expected missing default model error, got %v", err)
	}
}

func TestLoadRootRejectsUnknownAgentStage(t *testing.T) {
	content := `
models:
  - name: standard
    model_id: gpt-4o-mini
    default: true
agents:
  - stage: fortune_teller
`
	_, err := LoadRoot(RootConfigurationSource{Reference: "test", Content: []byte(content)})
	if err == nil || !strings.Contains(err.Error(), "fortune_teller") {
		t.Fatalf("expected unknown stage rejection, got %v", err)
	}
}

func TestEnvironmentOverridesApply(t *testing.T) {
	t.Setenv("ADVISOR_API_ENDPOINT", "https://override.example.com/v1")
	t.Setenv("ADVISOR_SERVER_ADDRESS", ":9000")

	root, err := LoadRoot(RootConfigurationSource{Reference: "test", Content: []byte(validConfiguration)})
	if err != nil {
		t.Fatalf("LoadRoot: %v", err)
	}
	if root.Common.API.Endpoint != "https://override.example.com/v1" {
		t.Fatalf("endpoint override not applied: %q", root.Common.API.Endpoint)
	}
	if root.Common.Server.Address != ":9000" {
		t.Fatalf("server address override not applied: %q", root.Common.Server.Address)
	}
}
