package heartbeat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"nx-gov/canister-metrics/pkg/counters"
	"nx-gov/canister-metrics/pkg/response"
)

type proberFunc func() response.Response

func (f proberFunc) BuildMetricsResponse() response.Response { return f() }

type countingRecorder struct {
	mu      sync.Mutex
	ok, bad int
}

func (r *countingRecorder) RecordHeartbeat(ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ok {
		r.ok++
	} else {
		r.bad++
	}
}

func healthyProber() Prober {
	return response.NewBuilder(&counters.StubReader{})
}

func TestBeat_Success(t *testing.T) {
	rec := &countingRecorder{}
	s := New(healthyProber(), rec, "@every 1m")

	result := s.Beat()
	if result.Err != nil {
		t.Fatalf("Beat error: %v", result.Err)
	}
	if rec.ok != 1 || rec.bad != 0 {
		t.Errorf("recorder = %+v", rec)
	}

	last, ok := s.Last()
	if !ok || last.Err != nil {
		t.Errorf("Last = %+v, %v", last, ok)
	}
}

func TestBeat_Failure(t *testing.T) {
	tests := []struct {
		name string
		resp response.Response
		want string
	}{
		{
			name: "encode failure",
			resp: response.Failure(errors.New("sink closed")),
			want: "status 500",
		},
		{
			name: "missing gauge",
			resp: response.Success([]byte("# HELP x y\nx 1\n")),
			want: "missing nx_gov_stable_memory_size_gib",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &countingRecorder{}
			s := New(proberFunc(func() response.Response { return tt.resp }), rec, "@every 1m")

			result := s.Beat()
			if result.Err == nil || !strings.Contains(result.Err.Error(), tt.want) {
				t.Errorf("Beat error = %v, want containing %q", result.Err, tt.want)
			}
			if rec.bad != 1 {
				t.Errorf("recorder = %+v", rec)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	var resp response.Response
	s := New(proberFunc(func() response.Response { return resp }), nil, "@every 1m")

	resp = response.Failure(errors.New("boom"))
	if err := s.Check(context.Background()); err == nil {
		t.Fatal("first Check should run an inline beat and fail")
	}

	// Check reports the last result without beating again.
	resp = response.NewBuilder(&counters.StubReader{}).BuildMetricsResponse()
	if err := s.Check(context.Background()); err == nil {
		t.Error("Check should report the stored failure")
	}

	s.Beat()
	if err := s.Check(context.Background()); err != nil {
		t.Errorf("Check after good beat: %v", err)
	}
}

func TestStartStop(t *testing.T) {
	s := New(healthyProber(), nil, "@every 1h")

	if _, err := s.NextRun(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("NextRun before start = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !s.IsRunning() {
		t.Fatal("expected running")
	}

	next, err := s.NextRun()
	if err != nil || time.Until(next) <= 0 {
		t.Errorf("NextRun = %v, %v", next, err)
	}

	cancel()
	deadline := time.Now().Add(2 * time.Second)
	for s.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if s.IsRunning() {
		t.Error("scheduler should stop when the context is cancelled")
	}
}

func TestStart_InvalidSchedule(t *testing.T) {
	s := New(healthyProber(), nil, "not a schedule")
	if err := s.Start(context.Background()); err == nil {
		t.Error("expected error for invalid schedule")
	}
}

func TestStop_DuringBeat(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	prober := proberFunc(func() response.Response {
		once.Do(func() { close(started) })
		time.Sleep(300 * time.Millisecond)
		return response.NewBuilder(&counters.StubReader{}).BuildMetricsResponse()
	})
	s := New(prober, nil, "@every 1s")

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled beat never ran")
	}

	// Readiness must stay responsive while a beat is in flight.
	lastDone := make(chan struct{})
	go func() {
		s.Last()
		close(lastDone)
	}()
	select {
	case <-lastDone:
	case <-time.After(time.Second):
		t.Fatal("Last blocked while a beat was running")
	}

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not return while a beat was running")
	}

	if s.IsRunning() {
		t.Error("scheduler still running after Stop")
	}
	if last, ok := s.Last(); !ok || last.Err != nil {
		t.Errorf("in-flight beat should finish before Stop returns: %+v, %v", last, ok)
	}
}

func TestStart_AfterStop(t *testing.T) {
	s := New(healthyProber(), nil, "@every 1h")

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
	s.Stop()

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("restart: %v", err)
	}
	defer s.Stop()

	if _, err := s.NextRun(); err != nil {
		t.Errorf("NextRun after restart: %v", err)
	}
}
