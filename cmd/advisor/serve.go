package advisorcmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finclarity/advisor/internal/server"
)

type serveCommandOptions struct {
	configPath string
	address    string
}

func newServeCommand() *cobra.Command {
	options := &serveCommandOptions{configPath: defaultConfigPath}

	command := &cobra.Command{
		Use:   serveCommandUse,
		Short: serveCommandShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServeCommand(cmd, *options)
		},
	}

	command.Flags().StringVar(&options.configPath, configFlagName, defaultConfigPath, configFlagUsage)
	command.Flags().StringVar(&options.address, serverAddressFlagName, "", serverAddressFlagUsage)

	return command
}

func runServeCommand(command *cobra.Command, options serveCommandOptions) error {
	rootConfiguration, err := loadRootConfiguration(options.configPath)
	if err != nil {
		return err
	}
	logger, loggerErr := buildLogger(rootConfiguration)
	if loggerErr != nil {
		return fmt.Errorf("build logger: %w", loggerErr)
	}
	defer func() { _ = logger.Sync() }()

	runner, credential, buildErr := buildRunner(rootConfiguration, runnerSettings{}, logger)
	if buildErr != nil {
		return buildErr
	}

	address := strings.TrimSpace(options.address)
	if address == "" {
		address = strings.TrimSpace(rootConfiguration.Common.Server.Address)
	}
	if address == "" {
		address = defaultServerAddress
	}

	advisoryServer := server.New(runner, credential, logger)
	return advisoryServer.Serve(command.Context(), address)
}
