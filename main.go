package main

import (
	"os"

	"go.uber.org/zap"

	advisorcmd "github.com/finclarity/advisor/cmd/advisor"
)

func main() {
	logger := zap.Must(zap.NewProduction())

	executionErr := advisorcmd.Execute()
	if executionErr != nil {
		logger.Error("command execution failed", zap.Error(executionErr))
		_ = logger.Sync()
		os.Exit(1)
	}

	syncErr := logger.Sync()
	if syncErr != nil {
		os.Exit(1)
	}
}
