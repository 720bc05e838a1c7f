package smoketest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/innings/pkg/logger"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// predictURL is the prediction route for kind.
func predictURL(baseURL, kind string) string {
	return baseURL + "/predict/" + kind
}

// submitRecords posts every record through a worker pool and tallies the
// returned categories into stats.
func submitRecords(ctx context.Context, config *Config, records []Submission, stats *Stats) {
	logger.Get().Info(ctx, "submitting records",
		logger.Int("records", len(records)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)

	var (
		submitted  int64
		successful int64
		failed     int64
		mu         sync.Mutex
	)
	categories := make(map[string]int)

	recordChan := make(chan Submission, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range recordChan {
				if ctx.Err() != nil {
					continue
				}
				label, err := submitSingle(ctx, client, config.BaseURL, rec)
				atomic.AddInt64(&submitted, 1)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					logger.Get().Warn(ctx, "prediction failed",
						logger.String("kind", rec.Kind.String()),
						logger.Error(err))
					continue
				}
				atomic.AddInt64(&successful, 1)

				mu.Lock()
				categories[rec.Kind.String()+"/"+label]++
				mu.Unlock()

				if config.Verbose {
					logger.Get().Debug(ctx, "prediction",
						logger.String("kind", rec.Kind.String()),
						logger.String("category", label))
				}
			}
		}()
	}

	go func() {
		defer close(recordChan)
		for _, rec := range records {
			select {
			case <-ctx.Done():
				return
			case recordChan <- rec:
			}
		}
	}()

	wg.Wait()

	stats.Submitted = int(atomic.LoadInt64(&submitted))
	stats.Successful = int(atomic.LoadInt64(&successful))
	stats.Failed = int(atomic.LoadInt64(&failed))
	stats.Categories = categories

	logger.Get().Info(ctx, "record submission completed",
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed))
}

// submitSingle posts one record and returns the predicted category.
func submitSingle(ctx context.Context, client *HTTPClient, baseURL string, rec Submission) (string, error) {
	resp, err := client.Post(ctx, predictURL(baseURL, rec.Kind.String()), rec.Body())
	if err != nil {
		return "", err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	var out PredictResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.PredictedCategory == "" {
		return "", fmt.Errorf("empty predicted_category")
	}
	return out.PredictedCategory, nil
}

// fetchModels reads GET /models.
func fetchModels(ctx context.Context, client *HTTPClient, baseURL string) ([]ModelInfo, error) {
	resp, err := client.Get(ctx, baseURL+"/models")
	if err != nil {
		return nil, err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("models endpoint returned status %d", resp.StatusCode)
	}
	var out struct {
		Models []ModelInfo `json:"models"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode models: %w", err)
	}
	return out.Models, nil
}
