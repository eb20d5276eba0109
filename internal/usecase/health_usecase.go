package usecase

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Probe reports whether a dependency is reachable
type Probe func(ctx context.Context) error

// Readiness is the result of running every probe
type Readiness struct {
	Ready  bool              `json:"ready"`
	Checks map[string]string `json:"checks"`
}

type HealthUsecase interface {
	// Live is the liveness payload; it never touches dependencies
	Live() map[string]string
	Ready(ctx context.Context) Readiness
}

type healthUsecase struct {
	probes  map[string]Probe
	timeout time.Duration
	now     func() time.Time
}

// NewHealthUsecase builds the health checks. Nil probes are skipped.
func NewHealthUsecase(probes map[string]Probe, timeout time.Duration) HealthUsecase {
	active := make(map[string]Probe, len(probes))
	for name, p := range probes {
		if p != nil {
			active[name] = p
		}
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &healthUsecase{probes: active, timeout: timeout, now: time.Now}
}

func (u *healthUsecase) Live() map[string]string {
	return map[string]string{
		"status":    "OK",
		"timestamp": u.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

// Ready runs all probes concurrently. A failing probe marks the service not
// ready but does not cancel the others.
func (u *healthUsecase) Ready(ctx context.Context) Readiness {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	var mu sync.Mutex
	result := Readiness{Ready: true, Checks: make(map[string]string, len(u.probes))}

	var g errgroup.Group
	for name, probe := range u.probes {
		g.Go(func() error {
			status := "ok"
			if err := probe(ctx); err != nil {
				status = "unavailable: " + err.Error()
			}
			mu.Lock()
			defer mu.Unlock()
			result.Checks[name] = status
			if status != "ok" {
				result.Ready = false
			}
			return nil
		})
	}
	_ = g.Wait()

	return result
}
