package main

import (
	"os"

	"github.com/alantheprice/pageforge/cmd"
	"github.com/alantheprice/pageforge/pkg/logging"
)

func main() {
	logger := logging.Get()
	defer func() {
		if err := logger.Close(); err != nil {
			os.Stderr.WriteString("Error closing logger: " + err.Error() + "\n")
		}
	}()

	if err := cmd.Execute(); err != nil {
		logger.Errorf("application error: %v", err)
		os.Exit(1)
	}
}
