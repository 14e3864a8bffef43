package advisorcmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finclarity/advisor/internal/advisor"
)

type agentsCommandOptions struct {
	configPath string
}

var pipelineStages = []advisor.StageName{
	advisor.StageProfiler,
	advisor.StageExpert,
	advisor.StageClarity,
	advisor.StageCompliance,
	advisor.StagePublisher,
}

func newAgentsCommand() *cobra.Command {
	options := &agentsCommandOptions{configPath: defaultConfigPath}

	command := &cobra.Command{
		Use:   agentsCommandUse,
		Short: agentsCommandShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgentsCommand(cmd, *options)
		},
	}

	command.Flags().StringVar(&options.configPath, configFlagName, defaultConfigPath, configFlagUsage)

	return command
}

func runAgentsCommand(command *cobra.Command, options agentsCommandOptions) error {
	rootConfiguration, err := loadRootConfiguration(options.configPath)
	if err != nil {
		return err
	}

	defaultModel, _ := rootConfiguration.DefaultModel()
	outputWriter := command.OutOrStdout()
	for _, stage := range pipelineStages {
		modelName := defaultModel.Name
		instructionsLabel := "built-in"
		if agent, found := rootConfiguration.FindAgent(string(stage)); found {
			if trimmed := strings.TrimSpace(agent.Model); trimmed != "" {
				modelName = trimmed
			}
			if strings.TrimSpace(agent.Instructions) != "" {
				instructionsLabel = "custom"
			}
		}
		if _, writeErr := fmt.Fprintf(outputWriter, "%s\t(model=%s, instructions=%s)\n", stage, dashIfEmpty(modelName), instructionsLabel); writeErr != nil {
			return fmt.Errorf("write agent listing: %w", writeErr)
		}
	}
	return nil
}

func dashIfEmpty(value string) string {
	if value == "" {
		return dashPlaceholder
	}
	return value
}
