package health

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/benedict-erwin/auth-gateway/pkg/logger"
	"github.com/benedict-erwin/auth-gateway/pkg/redis"
	"github.com/benedict-erwin/auth-gateway/pkg/utils"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDegraded  = "degraded"
	StatusReady     = "ready"
	StatusNotReady  = "not_ready"
)

var cacheValidDuration = 10 * time.Second

// Check probes one dependency
type Check func(ctx context.Context) error

type HealthStatus struct {
	Status    string                   `json:"status"`
	Service   string                   `json:"service"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Uptime    string                   `json:"uptime"`
	Services  map[string]ServiceHealth `json:"services"`
	System    SystemHealth             `json:"system"`
}

type ServiceHealth struct {
	Status       string    `json:"status"`
	ResponseTime string    `json:"response_time"`
	LastCheck    time.Time `json:"last_check"`
	Error        string    `json:"error,omitempty"`
}

type SystemHealth struct {
	HeapAllocMB    float64 `json:"heap_alloc_mb"`
	SysMB          float64 `json:"sys_mb"`
	NumGC          uint32  `json:"num_gc"`
	GoroutineCount int     `json:"goroutine_count"`
}

// ReadinessStatus is served without authentication, so services carry no error text
type ReadinessStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Services  map[string]ServiceHealth `json:"services"`
}

// Checker runs the registered checks and caches results for 10s
type Checker struct {
	service string
	version string
	started time.Time

	mu     sync.RWMutex
	names  []string
	checks map[string]Check

	healthCache     *HealthStatus
	healthCacheTime time.Time
	readyCache      *ReadinessStatus
	readyCacheTime  time.Time
}

// NewChecker returns a checker for the named service
func NewChecker(service, version string) *Checker {
	return &Checker{
		service: service,
		version: version,
		started: time.Now(),
		checks:  make(map[string]Check),
	}
}

// Add registers a dependency probe. Every probe is critical for readiness.
func (c *Checker) Add(name string, check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.checks[name]; !exists {
		c.names = append(c.names, name)
	}
	c.checks[name] = check
	c.healthCache = nil
	c.readyCache = nil
}

// Names lists registered probes in registration order
func (c *Checker) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.names...)
}

// CheckHealth reports every probe plus runtime metrics
func (c *Checker) CheckHealth(ctx context.Context) *HealthStatus {
	c.mu.RLock()
	if c.healthCache != nil && time.Since(c.healthCacheTime) < cacheValidDuration {
		cached := *c.healthCache
		c.mu.RUnlock()
		return &cached
	}
	c.mu.RUnlock()

	services, failed := c.runChecks(ctx)
	status := &HealthStatus{
		Status:    StatusHealthy,
		Service:   c.service,
		Timestamp: utils.Now(),
		Version:   c.version,
		Uptime:    time.Since(c.started).Round(time.Second).String(),
		Services:  services,
		System:    getSystemMetrics(),
	}
	switch {
	case failed > 0 && failed == len(services):
		status.Status = StatusUnhealthy
	case failed > 0:
		status.Status = StatusDegraded
	}

	c.mu.Lock()
	c.healthCache = status
	c.healthCacheTime = time.Now()
	c.mu.Unlock()

	return status
}

// CheckReadiness reports whether every probe passes
func (c *Checker) CheckReadiness(ctx context.Context) *ReadinessStatus {
	c.mu.RLock()
	if c.readyCache != nil && time.Since(c.readyCacheTime) < cacheValidDuration {
		cached := *c.readyCache
		c.mu.RUnlock()
		return &cached
	}
	c.mu.RUnlock()

	services, failed := c.runChecks(ctx)
	status := &ReadinessStatus{
		Status:    StatusReady,
		Timestamp: utils.Now(),
		Services:  make(map[string]ServiceHealth, len(services)),
	}
	if failed > 0 {
		status.Status = StatusNotReady
	}

	log := logger.WithScope("health")
	for name, sh := range services {
		if sh.Error != "" {
			log.Warn().Str("service", name).Str("error", sh.Error).Msg("Readiness check failed")
			sh.Error = ""
		}
		status.Services[name] = sh
	}

	c.mu.Lock()
	c.readyCache = status
	c.readyCacheTime = time.Now()
	c.mu.Unlock()

	return status
}

// ClearCache drops cached results
func (c *Checker) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.healthCache = nil
	c.readyCache = nil
}

// runChecks returns per-probe results and the number of failed probes
func (c *Checker) runChecks(ctx context.Context) (map[string]ServiceHealth, int) {
	c.mu.RLock()
	names := append([]string(nil), c.names...)
	checks := make(map[string]Check, len(c.checks))
	for k, v := range c.checks {
		checks[k] = v
	}
	c.mu.RUnlock()

	results := make(map[string]ServiceHealth, len(names))
	failed := 0
	for _, name := range names {
		start := time.Now()
		err := checks[name](ctx)

		sh := ServiceHealth{
			Status:       StatusHealthy,
			ResponseTime: time.Since(start).String(),
			LastCheck:    utils.Now(),
		}
		if err != nil {
			failed++
			sh.Status = StatusUnhealthy
			sh.Error = err.Error()
		}
		results[name] = sh
	}
	return results, failed
}

// RedisCheck probes the main Redis client
func RedisCheck() Check {
	return func(context.Context) error {
		return redis.Health()
	}
}

// ClientCheck reports an error when the named client was never initialized
func ClientCheck(name string, initialized func() bool) Check {
	return func(context.Context) error {
		if !initialized() {
			return fmt.Errorf("%s client not initialized", name)
		}
		return nil
	}
}

// HTTPCheck expects a 2xx from GET url
func HTTPCheck(client *http.Client, url string) Check {
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("upstream unreachable")
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("upstream returned %d", resp.StatusCode)
		}
		return nil
	}
}

// getSystemMetrics collects Go runtime metrics
func getSystemMetrics() SystemHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SystemHealth{
		HeapAllocMB:    float64(m.HeapAlloc) / 1024 / 1024,
		SysMB:          float64(m.Sys) / 1024 / 1024,
		NumGC:          m.NumGC,
		GoroutineCount: runtime.NumGoroutine(),
	}
}
