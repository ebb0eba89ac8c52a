package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"
	"time"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitOK},
		{name: "plain", err: errors.New("boom"), want: ExitFailure},
		{name: "config", err: NewConfigError("server", "bad"), want: ExitConfigError},
		{name: "wrapped config", err: fmt.Errorf("load: %w", NewConfigError("x", "y")), want: ExitConfigError},
		{name: "command", err: NewCommandError("serve", errors.New("x")), want: ExitFailure},
		{name: "command with code", err: &CommandError{Command: "dump", Code: ExitEncodeFailed, Err: errors.New("x")}, want: ExitEncodeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCommandError_Unwrap(t *testing.T) {
	inner := errors.New("listen failed")
	err := NewCommandError("serve", inner)

	if !errors.Is(err, inner) {
		t.Error("CommandError should unwrap to its cause")
	}
	if err.Error() != "command serve failed: listen failed" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestFormatter(t *testing.T) {
	data := map[string]int{"errors": 0}

	var buf bytes.Buffer
	if err := NewFormatter(FormatJSON).FormatTo(&buf, data); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "{\n  \"errors\": 0\n}\n" {
		t.Errorf("json output = %q", buf.String())
	}

	buf.Reset()
	if err := NewFormatter(FormatText).FormatTo(&buf, "ok"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "ok\n" {
		t.Errorf("text output = %q", buf.String())
	}
}

func TestParseOutputFormat(t *testing.T) {
	for in, want := range map[string]OutputFormat{"": FormatText, "text": FormatText, "json": FormatJSON} {
		got, err := ParseOutputFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseOutputFormat(%q) = %q, %v", in, got, err)
		}
	}

	var cfgErr *ConfigError
	if _, err := ParseOutputFormat("csv"); !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError, got %v", err)
	}
}

func TestSetupSignalHandler(t *testing.T) {
	ctx, stop := SetupSignalHandler(context.Background())
	defer stop()

	select {
	case <-ctx.Done():
		t.Fatal("context should not be cancelled initially")
	default:
	}

	stop()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Error("stop should cancel the context")
	}
}

func TestReloadSignals(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping signal test in short mode")
	}

	hup, stop := ReloadSignals()
	defer stop()

	p, _ := os.FindProcess(os.Getpid())
	if err := p.Signal(syscall.SIGHUP); err != nil {
		t.Fatalf("send SIGHUP: %v", err)
	}

	select {
	case sig := <-hup:
		if sig != syscall.SIGHUP {
			t.Errorf("got %v", sig)
		}
	case <-time.After(2 * time.Second):
		t.Error("SIGHUP not delivered")
	}
}
