package smoketest

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/innings/internal/domain/player"
	"github.com/okian/innings/pkg/logger"
)

// probe is a request whose rejection status is known in advance.
type probe struct {
	name     string
	kind     string
	body     any
	status   int
	contains string
}

func errorProbes() []probe {
	bat := generateBatsman("probe-zero-runs")
	bat.Runs = 0
	bowl := generateBowler("probe-swapped")
	return []probe{
		{name: "zero runs", kind: player.Batsman.String(), body: bat, status: http.StatusBadRequest, contains: "runs must be greater than zero"},
		{name: "unknown player type", kind: "cricketer", body: bowl, status: http.StatusNotFound},
		{name: "swapped payload", kind: player.Batsman.String(), body: bowl, status: http.StatusBadRequest},
	}
}

// probeErrorPaths checks that invalid requests are rejected with the
// expected status codes.
func probeErrorPaths(ctx context.Context, config *Config, stats *Stats) {
	client := newHTTPClient(config.Timeout)
	for _, p := range errorProbes() {
		err := runProbe(ctx, client, config.BaseURL, p)
		if err != nil {
			stats.ProbesFailed++
			logger.Get().Error(ctx, "error path probe failed", logger.String("probe", p.name), logger.Error(err))
			continue
		}
		stats.ProbesPassed++
		logger.Get().Info(ctx, "error path probe passed", logger.String("probe", p.name))
	}
}

func runProbe(ctx context.Context, client *HTTPClient, baseURL string, p probe) error {
	resp, err := client.Post(ctx, predictURL(baseURL, p.kind), p.body)
	if err != nil {
		return err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode != p.status {
		return fmt.Errorf("expected status %d, got %d", p.status, resp.StatusCode)
	}
	if p.contains != "" && !strings.Contains(string(body), p.contains) {
		return fmt.Errorf("expected body to mention %q", p.contains)
	}
	return nil
}

// verifyResults checks the run against the labels the models declare.
func verifyResults(ctx context.Context, models []ModelInfo, stats *Stats) error {
	known := make(map[string]bool)
	for _, m := range models {
		for _, l := range m.Labels {
			known[m.Kind+"/"+l] = true
		}
	}

	for category, n := range stats.Categories {
		if len(known) > 0 && !known[category] {
			stats.UnknownLabels += n
			logger.Get().Error(ctx, "category not declared by any model", logger.String("category", category))
		}
	}

	switch {
	case stats.Failed > 0:
		return fmt.Errorf("%d of %d predictions failed", stats.Failed, stats.Submitted)
	case stats.UnknownLabels > 0:
		return fmt.Errorf("%d predictions returned undeclared categories", stats.UnknownLabels)
	case stats.ProbesFailed > 0:
		return fmt.Errorf("%d error path probes failed", stats.ProbesFailed)
	}
	return nil
}
