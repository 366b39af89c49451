// Package probe periodically checks that the upstream Open-Meteo endpoints
// are reachable, so the health endpoint can report more than process liveness.
// It stores no weather data.
package probe

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// Checker is the subset of the Open-Meteo client the probe needs.
type Checker interface {
	CheckForecast(ctx context.Context) error
	CheckArchive(ctx context.Context) error
}

// EndpointStatus is the last observed state of one upstream endpoint.
type EndpointStatus struct {
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}

// Status is the last probe result for both upstream endpoints.
type Status struct {
	CheckedAt time.Time      `json:"checked_at"`
	Forecast  EndpointStatus `json:"forecast"`
	Archive   EndpointStatus `json:"archive"`
}

// Probe runs the periodic reachability job.
type Probe struct {
	scheduler *gocron.Scheduler
	checker   Checker
	interval  time.Duration
	timeout   time.Duration

	mu     sync.RWMutex
	status Status
}

// New creates a Probe that checks every interval.
func New(checker Checker, interval time.Duration) *Probe {
	return &Probe{
		scheduler: gocron.NewScheduler(time.UTC),
		checker:   checker,
		interval:  interval,
		timeout:   10 * time.Second,
	}
}

// Start runs one immediate check and schedules the periodic job.
func (p *Probe) Start() error {
	interval := p.interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	p.run()

	_, err := p.scheduler.Every(interval).Do(p.run)
	if err != nil {
		return err
	}

	p.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (p *Probe) Stop() {
	if p.scheduler != nil {
		p.scheduler.Stop()
	}
}

// Status returns the most recent probe result.
func (p *Probe) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

func (p *Probe) run() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	status := Status{CheckedAt: time.Now().UTC()}
	status.Forecast = check(ctx, p.checker.CheckForecast)
	status.Archive = check(ctx, p.checker.CheckArchive)

	if !status.Forecast.Reachable || !status.Archive.Reachable {
		log.Printf("probe: upstream degraded: forecast=%+v archive=%+v", status.Forecast, status.Archive)
	}

	p.mu.Lock()
	p.status = status
	p.mu.Unlock()
}

func check(ctx context.Context, fn func(context.Context) error) EndpointStatus {
	if err := fn(ctx); err != nil {
		return EndpointStatus{Reachable: false, Error: err.Error()}
	}
	return EndpointStatus{Reachable: true}
}
