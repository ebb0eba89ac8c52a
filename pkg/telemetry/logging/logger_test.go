package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "defaults", cfg: Config{}},
		{name: "json debug", cfg: Config{Level: "debug", Format: "json"}},
		{name: "text upper", cfg: Config{Level: "WARN", Format: "TEXT"}},
		{name: "bad level", cfg: Config{Level: "verbose"}, wantErr: true},
		{name: "bad format", cfg: Config{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("scrape served", "status", 200)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "scrape served" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["status"] != float64(200) {
		t.Errorf("status = %v", entry["status"])
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	child := logger.With("component", "test")

	child.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered at info: %s", buf.String())
	}

	if err := logger.SetLevel("debug"); err != nil {
		t.Fatal(err)
	}
	child.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("derived logger should follow the parent's level")
	}
	if logger.Level() != slog.LevelDebug {
		t.Errorf("Level() = %v", logger.Level())
	}

	if err := logger.SetLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLogger_WithContext(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Format: "text", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	if logger.WithContext(context.Background()) != logger {
		t.Error("context without fields should return the same logger")
	}

	ctx := WithRequestID(context.Background(), "req-123")
	logger.WithContext(ctx).Info("hello")
	if !strings.Contains(buf.String(), "request_id=req-123") {
		t.Errorf("missing request_id: %s", buf.String())
	}

	buf.Reset()
	logger.InfoContext(ctx, "again")
	if !strings.Contains(buf.String(), "request_id=req-123") {
		t.Errorf("InfoContext missing request_id: %s", buf.String())
	}
}

func TestGetRequestID(t *testing.T) {
	if GetRequestID(context.Background()) != "" {
		t.Error("expected empty request id")
	}
	if got := GetRequestID(WithRequestID(context.Background(), "abc")); got != "abc" {
		t.Errorf("got %q", got)
	}
}
