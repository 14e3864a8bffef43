package advisorcmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"

	"github.com/finclarity/advisor/internal/advisor"
)

type runCommandOptions struct {
	configPath    string
	modelOverride string
	maxRevisions  int
	stageTimeout  time.Duration
	transcriptDir string
	renderHTML    bool
}

func newRunCommand() *cobra.Command {
	options := &runCommandOptions{configPath: defaultConfigPath}

	command := &cobra.Command{
		Use:   runCommandUse,
		Short: runCommandShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdvisoryTurn(cmd, *options, args[0])
		},
	}

	command.Flags().StringVar(&options.configPath, configFlagName, defaultConfigPath, configFlagUsage)
	command.Flags().StringVar(&options.modelOverride, modelFlagName, "", modelFlagUsage)
	command.Flags().IntVar(&options.maxRevisions, maxRevisionsFlagName, 0, maxRevisionsFlagUsage)
	command.Flags().DurationVar(&options.stageTimeout, timeoutFlagName, 0, timeoutFlagUsage)
	command.Flags().StringVar(&options.transcriptDir, transcriptDirFlagName, "", transcriptDirFlagUsage)
	command.Flags().BoolVar(&options.renderHTML, htmlFlagName, false, htmlFlagUsage)

	return command
}

func runAdvisoryTurn(command *cobra.Command, options runCommandOptions, query string) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query must not be empty")
	}

	rootConfiguration, err := loadRootConfiguration(options.configPath)
	if err != nil {
		return err
	}
	logger, loggerErr := buildLogger(rootConfiguration)
	if loggerErr != nil {
		return fmt.Errorf("build logger: %w", loggerErr)
	}
	defer func() { _ = logger.Sync() }()

	runner, credential, buildErr := buildRunner(rootConfiguration, runnerSettings{
		modelOverride: options.modelOverride,
		maxRevisions:  options.maxRevisions,
		stageTimeout:  options.stageTimeout,
		transcriptDir: options.transcriptDir,
	}, logger)
	if buildErr != nil {
		return buildErr
	}

	result, runErr := runner.Run(command.Context(), credential, query)
	if runErr != nil {
		return fmt.Errorf("run advisory turn: %w", runErr)
	}

	output := result.Content
	if result.State == advisor.StatePublished && options.renderHTML {
		var rendered strings.Builder
		if convertErr := goldmark.New().Convert([]byte(result.Content), &rendered); convertErr != nil {
			return fmt.Errorf("render advisory: %w", convertErr)
		}
		output = rendered.String()
	}

	if _, writeErr := fmt.Fprintln(command.OutOrStdout(), output); writeErr != nil {
		return fmt.Errorf("write advisory result: %w", writeErr)
	}
	return nil
}
