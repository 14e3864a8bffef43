package advisorcmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/finclarity/advisor/internal/advisor"
	"github.com/finclarity/advisor/internal/auth"
	"github.com/finclarity/advisor/internal/config"
	"github.com/finclarity/advisor/internal/llm"
	"github.com/finclarity/advisor/internal/transcript"
)

func loadRootConfiguration(configurationPath string) (config.Root, error) {
	// .env is a convenience for local runs; absence is not an error.
	_ = godotenv.Load()

	configurationLoader, loaderErr := config.NewDefaultRootConfigurationLoader()
	if loaderErr != nil {
		return config.Root{}, fmt.Errorf(configurationLoaderInitializationErrorFormat, loaderErr)
	}
	configurationSource, sourceErr := configurationLoader.Load(configurationPath)
	if sourceErr != nil {
		return config.Root{}, fmt.Errorf(configurationSourceResolutionErrorFormat, sourceErr)
	}
	rootConfiguration, loadErr := config.LoadRoot(configurationSource)
	if loadErr != nil {
		return config.Root{}, fmt.Errorf(rootConfigurationLoadErrorFormat, configurationSource.Reference, loadErr)
	}
	return rootConfiguration, nil
}

func buildLogger(rootConfiguration config.Root) (*zap.Logger, error) {
	zapConfiguration := zap.NewProductionConfig()
	if strings.EqualFold(rootConfiguration.Common.Logging.Format, "console") {
		zapConfiguration = zap.NewDevelopmentConfig()
	}
	level, levelErr := zapcore.ParseLevel(strings.TrimSpace(rootConfiguration.Common.Logging.Level))
	if levelErr == nil {
		zapConfiguration.Level = zap.NewAtomicLevelAt(level)
	}
	return zapConfiguration.Build()
}

type runnerSettings struct {
	modelOverride string
	maxRevisions  int
	stageTimeout  time.Duration
	transcriptDir string
}

// buildRunner wires the five stages, the wire client and the turn
// options from configuration. The credential is resolved here, once
// per process, and passed explicitly from then on.
func buildRunner(rootConfiguration config.Root, settings runnerSettings, logger *zap.Logger) (advisor.Runner, auth.Credential, error) {
	apiKeyEnvironmentVariable := strings.TrimSpace(rootConfiguration.Common.API.APIKeyEnv)
	if apiKeyEnvironmentVariable == "" {
		apiKeyEnvironmentVariable = defaultAPIKeyEnvName
	}
	credential, credentialErr := auth.FromEnv(apiKeyEnvironmentVariable)
	if credentialErr != nil {
		return advisor.Runner{}, auth.Credential{}, credentialErr
	}

	apiEndpoint := strings.TrimSpace(rootConfiguration.Common.API.Endpoint)
	if apiEndpoint == "" {
		apiEndpoint = defaultAPIEndpoint
	}

	defaultModelName := strings.TrimSpace(settings.modelOverride)
	var defaultModel config.Model
	if defaultModelName != "" {
		model, found := rootConfiguration.FindModel(defaultModelName)
		if !found {
			return advisor.Runner{}, auth.Credential{}, fmt.Errorf("model %q not found in models[]", defaultModelName)
		}
		defaultModel = model
	} else {
		model, found := rootConfiguration.DefaultModel()
		if !found {
			return advisor.Runner{}, auth.Credential{}, fmt.Errorf("no default model configured")
		}
		defaultModel = model
	}

	client := llm.Adapter{
		Client:              llm.Client{HTTPBaseURL: apiEndpoint},
		DefaultModel:        defaultModel.ModelID,
		DefaultTemp:         defaultModel.DefaultTemperature,
		DefaultTokens:       defaultModel.MaxCompletionTokens,
		SupportsTemperature: defaultModel.SupportsTemperature,
	}

	buildStage := func(stage advisor.StageName, construct func(advisor.StageClient, advisor.StageSettings) (advisor.Stage, error)) (advisor.Stage, error) {
		stageSettings, settingsErr := resolveStageSettings(rootConfiguration, stage)
		if settingsErr != nil {
			return nil, settingsErr
		}
		return construct(client, stageSettings)
	}

	profiler, err := buildStage(advisor.StageProfiler, advisor.NewProfilerStage)
	if err != nil {
		return advisor.Runner{}, auth.Credential{}, err
	}
	expert, err := buildStage(advisor.StageExpert, advisor.NewExpertStage)
	if err != nil {
		return advisor.Runner{}, auth.Credential{}, err
	}
	clarity, err := buildStage(advisor.StageClarity, advisor.NewClarityStage)
	if err != nil {
		return advisor.Runner{}, auth.Credential{}, err
	}
	compliance, err := buildStage(advisor.StageCompliance, advisor.NewComplianceStage)
	if err != nil {
		return advisor.Runner{}, auth.Credential{}, err
	}
	publisher, err := buildStage(advisor.StagePublisher, advisor.NewPublisherStage)
	if err != nil {
		return advisor.Runner{}, auth.Credential{}, err
	}

	maxRevisions := settings.maxRevisions
	if maxRevisions <= 0 {
		maxRevisions = rootConfiguration.Common.Defaults.MaxRevisions
	}
	stageTimeout := settings.stageTimeout
	if stageTimeout <= 0 {
		stageTimeout = time.Duration(rootConfiguration.Common.Defaults.TimeoutSeconds) * time.Second
	}
	transcriptDir := strings.TrimSpace(settings.transcriptDir)
	if transcriptDir == "" {
		transcriptDir = strings.TrimSpace(rootConfiguration.Common.Defaults.TranscriptDir)
	}

	runner := advisor.Runner{
		Profiler:    profiler,
		Expert:      expert,
		Clarity:     clarity,
		Compliance:  compliance,
		Publisher:   publisher,
		Options:     advisor.TurnOptions{MaxRevisions: maxRevisions, StageTimeout: stageTimeout},
		Logger:      logger,
		Transcripts: transcript.NewWriter(transcript.NewOS(), transcriptDir),
	}
	return runner, credential, nil
}

// resolveStageSettings applies any agents[] override for the stage,
// resolving an overridden model name against models[].
func resolveStageSettings(rootConfiguration config.Root, stage advisor.StageName) (advisor.StageSettings, error) {
	agent, found := rootConfiguration.FindAgent(string(stage))
	if !found {
		return advisor.StageSettings{}, nil
	}
	settings := advisor.StageSettings{Instructions: agent.Instructions}
	if modelName := strings.TrimSpace(agent.Model); modelName != "" {
		model, modelFound := rootConfiguration.FindModel(modelName)
		if !modelFound {
			return advisor.StageSettings{}, fmt.Errorf("agent %s: model %q not found in models[]", stage, modelName)
		}
		settings.Model = model.ModelID
		settings.MaxTokens = model.MaxCompletionTokens
		settings.Temperature = model.DefaultTemperature
	}
	return settings, nil
}
