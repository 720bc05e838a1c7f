package smoketest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/okian/innings/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Run executes the complete smoke run against a live service.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting innings smoke run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("records", config.NumRecords),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()))

	if config.Workers <= 0 {
		config.Workers = 1
	}

	// Step 1: Wait for the service to load its models
	if err := waitHealthy(ctx, config); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Read the declared categories
	models, err := fetchModels(ctx, newHTTPClient(config.Timeout), config.BaseURL)
	if err != nil {
		return stats, fmt.Errorf("model listing failed: %w", err)
	}

	// Step 3: Generate records
	records, err := GenerateRecords(ctx, config.NumRecords)
	if err != nil {
		return stats, fmt.Errorf("record generation failed: %w", err)
	}
	stats.RecordsGenerated = len(records)

	// Step 4: Submit records concurrently
	submitRecords(ctx, config, records, stats)

	// Step 5: Probe error paths
	probeErrorPaths(ctx, config, stats)

	// Step 6: Save records
	if config.OutputFile != "" {
		if err := saveRecordsToFile(ctx, config.OutputFile, records); err != nil {
			logger.Get().Warn(ctx, "failed to save records to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	// Step 7: Verify
	if err := verifyResults(ctx, models, stats); err != nil {
		return stats, fmt.Errorf("result verification failed: %w", err)
	}

	logger.Get().Info(ctx, "smoke run completed successfully")
	return stats, nil
}

// waitHealthy polls /healthz until it answers 200.
func waitHealthy(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	var lastErr error
	for attempt := 1; attempt <= HealthCheckAttempts; attempt++ {
		resp, err := client.Get(ctx, url)
		if err == nil {
			_, _ = readResponseBody(resp)
			if resp.StatusCode == http.StatusOK {
				logger.Get().Info(ctx, "service is healthy")
				return nil
			}
			err = fmt.Errorf("status %d", resp.StatusCode)
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(HealthCheckInterval):
		}
	}
	return fmt.Errorf("service not healthy after %d attempts: %w", HealthCheckAttempts, lastErr)
}

// saveRecordsToFile writes the generated records as a JSON array.
func saveRecordsToFile(ctx context.Context, filename string, records []Submission) error {
	if len(records) == 0 {
		return fmt.Errorf("no records to save")
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "records saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, perSecond float64
	if stats.Submitted > 0 {
		successRate = float64(stats.Successful) / float64(stats.Submitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	categories := make([]string, 0, len(stats.Categories))
	for c := range stats.Categories {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		logger.Get().Info(ctx, "category tally", logger.String("category", c), logger.Int("count", stats.Categories[c]))
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("recordsGenerated", stats.RecordsGenerated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed),
		logger.Int("probesPassed", stats.ProbesPassed),
		logger.Int("probesFailed", stats.ProbesFailed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("predictionsPerSecond", perSecond))
}
