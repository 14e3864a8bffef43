// Package config loads the unified advisor configuration: API access,
// model catalogue, per-stage agent overrides and runtime defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	emptyModelsErrorMessage                  = "config.models is empty"
	missingDefaultModelErrorMessage          = "no default model found (set models[].default: true)"
	rootConfigurationEmptyContentErrorFormat = "root configuration %s is empty"
	rootConfigurationUnmarshalErrorFormat    = "unmarshal root configuration %s: %w"

	environmentPrefix = "ADVISOR"
)

type Root struct {
	Common Common  `yaml:"common"`
	Models []Model `yaml:"models"`
	Agents []Agent `yaml:"agents"`
}

type Common struct {
	API struct {
		Endpoint  string `yaml:"endpoint"`
		APIKeyEnv string `yaml:"api_key_env"`
	} `yaml:"api"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
	Defaults struct {
		MaxRevisions   int    `yaml:"max_revisions"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		TranscriptDir  string `yaml:"transcript_dir"`
	} `yaml:"defaults"`
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
}

type Model struct {
	Name                string  `yaml:"name"`
	ModelID             string  `yaml:"model_id"`
	Default             bool    `yaml:"default"`
	SupportsTemperature bool    `yaml:"supports_temperature"`
	DefaultTemperature  float64 `yaml:"default_temperature"`
	MaxCompletionTokens int     `yaml:"max_completion_tokens"`
}

// Agent overrides one stage's instructions or model. Stage matches an
// advisor stage name; unknown stages are rejected at validation.
type Agent struct {
	Stage        string `yaml:"stage"`
	Model        string `yaml:"model"`
	Instructions string `yaml:"instructions"`
}

var knownStages = map[string]struct{}{
	"need_profiler":      {},
	"product_expert":     {},
	"clarity_writer":     {},
	"compliance_checker": {},
	"publisher":          {},
}

// LoadRoot parses the provided configuration source, applies ADVISOR_*
// environment overrides and validates required fields.
func LoadRoot(source RootConfigurationSource) (Root, error) {
	if len(source.Content) == 0 {
		return Root{}, fmt.Errorf(rootConfigurationEmptyContentErrorFormat, source.Reference)
	}

	var rootConfiguration Root
	if err := yaml.Unmarshal(source.Content, &rootConfiguration); err != nil {
		return Root{}, fmt.Errorf(rootConfigurationUnmarshalErrorFormat, source.Reference, err)
	}
	applyEnvironmentOverrides(&rootConfiguration)

	if len(rootConfiguration.Models) == 0 {
		return Root{}, errors.New(emptyModelsErrorMessage)
	}
	if _, ok := rootConfiguration.DefaultModel(); !ok {
		return Root{}, errors.New(missingDefaultModelErrorMessage)
	}
	for _, agent := range rootConfiguration.Agents {
		if _, ok := knownStages[strings.TrimSpace(agent.Stage)]; !ok {
			return Root{}, fmt.Errorf("unknown agent stage %q", agent.Stage)
		}
	}
	return rootConfiguration, nil
}

// applyEnvironmentOverrides lets deployment environments adjust the
// endpoint, key variable, server address and transcript directory
// without editing the file (ADVISOR_API_ENDPOINT and friends).
func applyEnvironmentOverrides(root *Root) {
	environment := viper.New()
	environment.SetEnvPrefix(environmentPrefix)
	environment.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	environment.AutomaticEnv()

	if value := strings.TrimSpace(environment.GetString("api.endpoint")); value != "" {
		root.Common.API.Endpoint = value
	}
	if value := strings.TrimSpace(environment.GetString("api.key.env")); value != "" {
		root.Common.API.APIKeyEnv = value
	}
	if value := strings.TrimSpace(environment.GetString("server.address")); value != "" {
		root.Common.Server.Address = value
	}
	if value := strings.TrimSpace(environment.GetString("transcript.dir")); value != "" {
		root.Common.Defaults.TranscriptDir = value
	}
}

func (root Root) DefaultModel() (Model, bool) {
	for _, modelConfiguration := range root.Models {
		if modelConfiguration.Default {
			return modelConfiguration, true
		}
	}
	return Model{}, false
}

func (root Root) FindModel(name string) (Model, bool) {
	for _, modelConfiguration := range root.Models {
		if modelConfiguration.Name == name {
			return modelConfiguration, true
		}
	}
	return Model{}, false
}

func (root Root) FindAgent(stage string) (Agent, bool) {
	for _, agent := range root.Agents {
		if agent.Stage == stage {
			return agent, true
		}
	}
	return Agent{}, false
}
