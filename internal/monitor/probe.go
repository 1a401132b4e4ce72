package monitor

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"feedcore/internal/config"
	"feedcore/internal/models"
)

// RouteProber issues lightweight GETs against the service's own routes
// and reports status and latency per route.
type RouteProber struct {
	client  *http.Client
	baseURL string
	routes  []string
}

// NewRouteProber builds a prober for the configured routes. The client
// timeout bounds each probe independently.
func NewRouteProber(cfg config.ProbeConfig) *RouteProber {
	return &RouteProber{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		routes:  cfg.Routes,
	}
}

// Probe checks every route concurrently. Results keep the configured
// route order.
func (p *RouteProber) Probe(ctx context.Context) []models.RouteResult {
	results := make([]models.RouteResult, len(p.routes))

	var wg sync.WaitGroup
	for i := range p.routes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.probeOne(ctx, p.routes[i])
		}(i)
	}
	wg.Wait()

	return results
}

func (p *RouteProber) probeOne(ctx context.Context, route string) models.RouteResult {
	result := models.RouteResult{Route: route}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+route, http.NoBody)
	if err != nil {
		result.Err = err.Error()
		return result
	}

	started := time.Now()
	resp, err := p.client.Do(req)
	result.Latency = time.Since(started)
	result.LatencyMS = result.Latency.Milliseconds()
	if err != nil {
		result.Err = err.Error()
		return result
	}
	defer resp.Body.Close()

	result.Status = resp.StatusCode
	result.OK = resp.StatusCode >= 200 && resp.StatusCode < 300
	return result
}
