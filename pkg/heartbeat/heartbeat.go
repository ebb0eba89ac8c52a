// Package heartbeat runs the metrics pipeline on a cron schedule as a
// self-check. The outcome of the last run feeds the readiness probe and the
// exporter's own metrics; the payload itself is discarded.
package heartbeat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"nx-gov/canister-metrics/pkg/exposition"
	"nx-gov/canister-metrics/pkg/response"
)

// Prober produces a metrics response.
type Prober interface {
	BuildMetricsResponse() response.Response
}

// Recorder receives heartbeat outcomes.
type Recorder interface {
	RecordHeartbeat(ok bool)
}

// ErrNotStarted is returned by NextRun before Start.
var ErrNotStarted = errors.New("heartbeat scheduler not started")

// Result is the outcome of a single beat.
type Result struct {
	At  time.Time
	Err error
}

// Scheduler runs beats on a cron schedule.
type Scheduler struct {
	prober   Prober
	recorder Recorder
	schedule string

	cron    *cron.Cron
	mu      sync.Mutex
	running bool

	// lastMu guards last only. Beat never takes mu, so Stop can wait for an
	// in-flight beat without holding it.
	lastMu sync.Mutex
	last   *Result

	now    func() time.Time
	logger *slog.Logger
}

// New creates a scheduler. recorder may be nil.
func New(prober Prober, recorder Recorder, schedule string) *Scheduler {
	return &Scheduler{
		prober:   prober,
		recorder: recorder,
		schedule: schedule,
		now:      time.Now,
		logger:   slog.Default().With("component", "heartbeat"),
	}
}

// Start schedules beats and stops them when ctx is done.
//
// Common schedules:
//   - "@every 1m"   - every minute
//   - "*/5 * * * *" - every five minutes
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid heartbeat schedule %q: %w", s.schedule, err)
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, func() { s.Beat() }); err != nil {
		return fmt.Errorf("failed to schedule heartbeat: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("heartbeat scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the scheduler and waits for a running beat to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	done := s.cron.Stop()
	s.running = false
	s.mu.Unlock()

	<-done.Done()
	s.logger.Info("heartbeat scheduler stopped")
}

// IsRunning reports whether the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled beat.
func (s *Scheduler) NextRun() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return time.Time{}, ErrNotStarted
	}
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}, ErrNotStarted
	}
	return entries[0].Next, nil
}

// Beat builds one metrics response and verifies it. It is safe to call
// directly, outside the schedule.
func (s *Scheduler) Beat() Result {
	err := verify(s.prober.BuildMetricsResponse())
	result := Result{At: s.now(), Err: err}

	s.lastMu.Lock()
	s.last = &result
	s.lastMu.Unlock()

	if s.recorder != nil {
		s.recorder.RecordHeartbeat(err == nil)
	}

	if err != nil {
		s.logger.Error("heartbeat failed", "error", err)
	} else {
		s.logger.Debug("heartbeat ok")
	}
	return result
}

// Last returns the result of the most recent beat, if any.
func (s *Scheduler) Last() (Result, bool) {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()

	if s.last == nil {
		return Result{}, false
	}
	return *s.last, true
}

// Check reports the last beat as a readiness check. Before the first
// scheduled beat it runs one inline.
func (s *Scheduler) Check(ctx context.Context) error {
	last, ok := s.Last()
	if !ok {
		last = s.Beat()
	}
	if last.Err != nil {
		return fmt.Errorf("last heartbeat at %s failed: %w", last.At.UTC().Format(time.RFC3339), last.Err)
	}
	return nil
}

func verify(resp response.Response) error {
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("metrics response status %d: %s", resp.StatusCode, resp.Body)
	}

	for _, name := range []string{
		exposition.StableMemoryName,
		exposition.WasmMemoryName,
		exposition.CyclesBalanceName,
	} {
		if !bytes.Contains(resp.Body, []byte("\n"+name+" ")) {
			return fmt.Errorf("metrics payload missing %s", name)
		}
	}
	return nil
}
