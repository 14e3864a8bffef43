package advisorcmd

import (
	"strings"
	"testing"

	"github.com/finclarity/advisor/internal/advisor"
	"github.com/finclarity/advisor/internal/config"
)

func fixtureRoot() config.Root {
	var root config.Root
	root.Models = []config.Model{
		{Name: "standard", ModelID: "gpt-4o-mini", Default: true, MaxCompletionTokens: 2048},
		{Name: "thorough", ModelID: "gpt-4o", MaxCompletionTokens: 4096, DefaultTemperature: 0.1},
	}
	root.Agents = []config.Agent{
		{Stage: "compliance_checker", Model: "thorough", Instructions: "Extra strict."},
	}
	return root
}

func TestResolveStageSettingsUsesAgentOverride(t *testing.T) {
	settings, err := resolveStageSettings(fixtureRoot(), advisor.StageCompliance)
	if err != nil {
		t.Fatalf("resolveStageSettings: %v", err)
	}
	if settings.Instructions != "Extra strict." {
		t.Fatalf("expected instruction override, got %q", settings.Instructions)
	}
	if settings.Model != "gpt-4o" {
		t.Fatalf("expected resolved model id, got %q", settings.Model)
	}
	if settings.MaxTokens != 4096 {
		t.Fatalf("expected model token limit, got %d", settings.MaxTokens)
	}
}

func TestResolveStageSettingsDefaultsWithoutOverride(t *testing.T) {
	settings, err := resolveStageSettings(fixtureRoot(), advisor.StageProfiler)
	if err != nil {
		t.Fatalf("resolveStageSettings: %v", err)
	}
	if settings != (advisor.StageSettings{}) {
		t.Fatalf("expected zero settings for unconfigured stage, got %+v", settings)
	}
}

func TestResolveStageSettingsRejectsUnknownModel(t *testing.T) {
	root := fixtureRoot()
	root.Agents[0].Model = "nonexistent"
	_, err := resolveStageSettings(root, advisor.StageCompliance)
	if err == nil || !strings.Contains(err.Error(), "nonexistent") {
		t.Fatalf("expected unknown model rejection, got %v", err)
	}
}

func TestBuildRunnerFailsWithoutAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	root := fixtureRoot()
	if _, _, err := buildRunner(root, runnerSettings{}, nil); err == nil {
		t.Fatalf("expected missing API key error")
	}
}

func TestBuildRunnerWiresFiveStages(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	root := fixtureRoot()
	runner, credential, err := buildRunner(root, runnerSettings{maxRevisions: 2}, nil)
	if err != nil {
		t.Fatalf("buildRunner: %v", err)
	}
	if credential.Token != "test-key" {
		t.Fatalf("expected credential from environment, got %q", credential.Token)
	}
	if runner.Profiler == nil || runner.Expert == nil || runner.Clarity == nil || runner.Compliance == nil || runner.Publisher == nil {
		t.Fatalf("all five stages must be wired")
	}
	if runner.Options.MaxRevisions != 2 {
		t.Fatalf("expected max revisions 2, got %d", runner.Options.MaxRevisions)
	}
}
