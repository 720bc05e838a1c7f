package smoketest

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/innings/pkg/logger"
)

// Rotation limits for the smoke log file.
const (
	logFileMaxSizeMB  = 50
	logFileMaxBackups = 2
)

// SetupLogging initializes the logger on stdout and, when logFile is set,
// mirrors output to that file.
func SetupLogging(logFile string) (io.Closer, error) {
	if logFile == "" {
		if err := logger.Init(); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		return io.NopCloser(nil), nil
	}

	closer, err := logger.InitWithFile(logFile, logger.FileOptions{
		MaxSizeMB:  logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return closer, nil
}

// ShowHelp prints usage information for the smoke tool.
func ShowHelp() {
	os.Stdout.WriteString(`innings prediction smoke test
=============================

Submits generated batsman and bowler records to a running server, tallies
the predicted categories and checks that invalid requests are rejected.

Usage:
  go run ./cmd/predict-smoke [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8000")
  -records int
        Number of records to generate and submit (default 1000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -output string
        Write generated records to this JSON file
  -log string
        Mirror log output to this file
  -verbose
        Log every prediction
  -help
        Show this help message

Examples:
  go run ./cmd/predict-smoke -records 5000 -workers 16
  go run ./cmd/predict-smoke -url http://localhost:9000 -verbose
`)
}
