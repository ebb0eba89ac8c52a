// Package exposition renders canister counters in the Prometheus text
// exposition format (version 0.0.4).
//
// Every payload carries the same three gauges in a fixed order, all stamped
// with a single millisecond timestamp captured at the start of the pass:
//
//	# HELP nx_gov_stable_memory_size_gib Amount of stable memory used by this canister, in GiB
//	# TYPE nx_gov_stable_memory_size_gib gauge
//	nx_gov_stable_memory_size_gib 1 1700000000000
//	...
package exposition

import (
	"fmt"
	"io"
	"math/big"
	"regexp"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"nx-gov/canister-metrics/pkg/counters"
)

// Metric names and help strings. These are part of the scrape contract.
const (
	StableMemoryName = "nx_gov_stable_memory_size_gib"
	StableMemoryHelp = "Amount of stable memory used by this canister, in GiB"

	WasmMemoryName = "nx_gov_wasm_memory_size_gib"
	WasmMemoryHelp = "Amount of wasm memory used by this canister, in GiB"

	CyclesBalanceName = "nx_gov_canister_cycles_balance"
	// The balance gauge has always shipped with the wasm memory help text.
	// Dashboards match on it, so it stays.
	CyclesBalanceHelp = WasmMemoryHelp
)

// GiB is the number of bytes in one binary gibibyte.
const GiB = 1 << 30

var metricNameRE = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Gibibytes converts a byte count to binary gibibytes.
func Gibibytes(bytes uint64) float64 {
	return float64(bytes) / GiB
}

// BalanceValue converts a balance to a gauge value. Precision is lost above
// 2^53.
func BalanceValue(b *big.Int) float64 {
	if b == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(b).Float64()
	return f
}

// Sample is a single gauge reading.
type Sample struct {
	Name  string
	Help  string
	Value float64
}

// Samples reads r once per metric and returns the gauges in payload order.
func Samples(r counters.Reader) []Sample {
	return []Sample{
		{Name: StableMemoryName, Help: StableMemoryHelp, Value: Gibibytes(r.StableStorageBytes())},
		{Name: WasmMemoryName, Help: WasmMemoryHelp, Value: Gibibytes(r.WorkingMemoryBytes())},
		{Name: CyclesBalanceName, Help: CyclesBalanceHelp, Value: BalanceValue(r.ResourceBalance())},
	}
}

// Clock returns the current wall-clock time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads time.Now.
var SystemClock Clock = ClockFunc(time.Now)

// EncodeError reports a failed write to the payload sink.
type EncodeError struct {
	Message string
	Err     error
}

func (e *EncodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// Encoder writes counter snapshots in the text format.
type Encoder struct {
	clock Clock
}

// NewEncoder creates an encoder. A nil clock means SystemClock.
func NewEncoder(clock Clock) *Encoder {
	if clock == nil {
		clock = SystemClock
	}
	return &Encoder{clock: clock}
}

// Encode captures the timestamp, reads r and writes the three gauges to w.
func (e *Encoder) Encode(w io.Writer, r counters.Reader) error {
	ts := e.clock.Now().UnixMilli()
	return EncodeSamples(w, ts, Samples(r))
}

// EncodeSamples writes samples as gauges stamped with tsMs. Samples sharing a
// name are grouped under one HELP/TYPE header at the position of the first.
func EncodeSamples(w io.Writer, tsMs int64, samples []Sample) error {
	families, err := gaugeFamilies(tsMs, samples)
	if err != nil {
		return err
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return &EncodeError{Message: fmt.Sprintf("write %s", mf.GetName()), Err: err}
		}
	}
	return nil
}

func gaugeFamilies(tsMs int64, samples []Sample) ([]*dto.MetricFamily, error) {
	families := make([]*dto.MetricFamily, 0, len(samples))
	byName := make(map[string]*dto.MetricFamily, len(samples))

	for _, s := range samples {
		if !metricNameRE.MatchString(s.Name) {
			return nil, &EncodeError{Message: fmt.Sprintf("invalid metric name %q", s.Name)}
		}

		mf, ok := byName[s.Name]
		if !ok {
			mf = &dto.MetricFamily{
				Name: proto.String(s.Name),
				Help: proto.String(s.Help),
				Type: dto.MetricType_GAUGE.Enum(),
			}
			byName[s.Name] = mf
			families = append(families, mf)
		}

		mf.Metric = append(mf.Metric, &dto.Metric{
			Gauge:       &dto.Gauge{Value: proto.Float64(s.Value)},
			TimestampMs: proto.Int64(tsMs),
		})
	}
	return families, nil
}
