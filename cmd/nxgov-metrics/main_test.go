package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"nx-gov/canister-metrics/pkg/cli"
	"nx-gov/canister-metrics/pkg/config"
	"nx-gov/canister-metrics/pkg/counters"
	"nx-gov/canister-metrics/pkg/telemetry/logging"
	"nx-gov/canister-metrics/pkg/telemetry/metrics"
)

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgFile, verbose = "", false
	dumpFlags.stub, dumpFlags.body = false, false
	validateFlags.output = "text"

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "nxgov-metrics "+Version+"\n") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestDumpCommand_Stub(t *testing.T) {
	out, err := run(t, "dump", "--stub")
	if err != nil {
		t.Fatalf("dump: %v", err)
	}

	head, body, ok := strings.Cut(out, "\n\n")
	if !ok {
		t.Fatalf("missing header/body separator: %q", out)
	}

	lines := strings.Split(head, "\n")
	if lines[0] != "200 OK" {
		t.Errorf("status line = %q", lines[0])
	}
	if lines[1] != "Content-Type: text/plain; version=0.0.4" {
		t.Errorf("first header = %q", lines[1])
	}
	if lines[2] != "Content-Length: "+strconv.Itoa(len(body)) {
		t.Errorf("Content-Length %q does not match body length %d", lines[2], len(body))
	}

	for _, name := range []string{"nx_gov_stable_memory_size_gib", "nx_gov_wasm_memory_size_gib", "nx_gov_canister_cycles_balance"} {
		if !regexp.MustCompile(`(?m)^` + name + ` 0 \d+$`).MatchString(body) {
			t.Errorf("body missing zero sample for %s", name)
		}
	}
}

func TestDumpCommand_BalanceFromConfig(t *testing.T) {
	path := writeFile(t, "counters:\n  mode: stub\n  cycles_balance: \"500\"\n")

	out, err := run(t, "dump", "-c", path, "--body-only")
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if strings.HasPrefix(out, "200") {
		t.Error("--body-only should omit the status line")
	}
	if !strings.Contains(out, "\nnx_gov_canister_cycles_balance 500 ") {
		t.Errorf("balance not taken from config: %s", out)
	}
}

func TestValidateCommand(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		path := writeFile(t, "server:\n  listen_address: \"127.0.0.1:9100\"\n")
		out, err := run(t, "validate", "-c", path)
		if err != nil {
			t.Fatalf("validate: %v", err)
		}
		if !strings.Contains(out, "✓ Configuration valid") {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		path := writeFile(t, "counters:\n  mode: wasm\n  cycles_balance: \"-5\"\n")
		out, err := run(t, "validate", "-c", path, "-o", "json")
		if cli.ExitCode(err) != cli.ExitConfigError {
			t.Errorf("exit code = %d, want %d (err %v)", cli.ExitCode(err), cli.ExitConfigError, err)
		}

		var report validationReport
		if err := json.Unmarshal([]byte(out), &report); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, out)
		}
		if report.Valid || len(report.Errors) != 2 {
			t.Errorf("unexpected report %+v", report)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, "validate", "-c", filepath.Join(t.TempDir(), "nope.yaml"))
		if err == nil {
			t.Error("expected error")
		}
	})
}

func TestNewPipeline_InvalidBalance(t *testing.T) {
	_, err := newPipeline(&config.CountersConfig{Mode: config.CountersModeStub, CyclesBalance: "lots"})

	var cfgErr *cli.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "counters.cycles_balance" {
		t.Errorf("expected counters.cycles_balance ConfigError, got %v", err)
	}
}

func TestReloader_Apply(t *testing.T) {
	var logs bytes.Buffer
	logger, err := logging.New(logging.Config{Level: "info", Format: "text", Writer: &logs})
	if err != nil {
		t.Fatal(err)
	}

	balance := counters.NewStaticBalance(big.NewInt(1))
	r := &reloader{
		logger:    logger,
		balance:   balance,
		collector: metrics.NewCollector(&config.SelfMetricsConfig{}, nil),
	}

	cfg := config.NewDefaultConfig()
	cfg.Telemetry.Logging.Level = "debug"
	cfg.Counters.CyclesBalance = "3000000000000"
	r.apply(cfg)

	if balance.Balance().String() != "3000000000000" {
		t.Errorf("balance = %s", balance.Balance())
	}
	if logger.Level().String() != "DEBUG" {
		t.Errorf("level = %s", logger.Level())
	}

	cfg.Counters.CyclesBalance = "bad"
	r.apply(cfg)
	if balance.Balance().String() != "3000000000000" {
		t.Error("invalid balance must not replace the current one")
	}
}
