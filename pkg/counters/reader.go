// Package counters reads the raw runtime values the canister metrics are
// derived from: stable memory bytes, working (wasm) memory bytes and the
// cycles balance.
//
// Two strategies implement Reader. HostReader asks the hosting process and
// filesystem; StubReader reports zero memory and is used off-platform and in
// tests. New picks one from configuration.
package counters

import (
	"fmt"
	"math/big"

	"nx-gov/canister-metrics/pkg/config"
)

// WasmPageSize is the size of one Wasm memory page in bytes.
const WasmPageSize uint64 = 65536

// Reader is the host runtime's counter surface. Reads are best-effort and
// never fail.
type Reader interface {
	// StableStorageBytes returns the bytes committed in the durable region.
	StableStorageBytes() uint64

	// WorkingMemoryBytes returns the bytes committed in the volatile region.
	WorkingMemoryBytes() uint64

	// ResourceBalance returns the current cycles balance. Never nil.
	ResourceBalance() *big.Int
}

// New returns the reader selected by cfg.Mode.
func New(cfg *config.CountersConfig, balance BalanceProvider) (Reader, error) {
	switch cfg.Mode {
	case config.CountersModeHost:
		return NewHostReader(cfg.StableMemoryPath, cfg.PageSize, balance), nil
	case config.CountersModeStub:
		return &StubReader{Balance: balance}, nil
	default:
		return nil, fmt.Errorf("unknown counters mode %q", cfg.Mode)
	}
}

// StubReader is the off-platform reader. Memory sizes are always zero.
type StubReader struct {
	// Balance supplies the cycles balance. Nil reports zero.
	Balance BalanceProvider
}

// StableStorageBytes always returns 0.
func (s *StubReader) StableStorageBytes() uint64 { return 0 }

// WorkingMemoryBytes always returns 0.
func (s *StubReader) WorkingMemoryBytes() uint64 { return 0 }

// ResourceBalance returns the provider's balance, or zero without a provider.
func (s *StubReader) ResourceBalance() *big.Int {
	return balanceOf(s.Balance)
}

// Fixed is a Reader with preset values.
type Fixed struct {
	Stable  uint64
	Working uint64
	Cycles  *big.Int
}

// StableStorageBytes returns Stable.
func (f Fixed) StableStorageBytes() uint64 { return f.Stable }

// WorkingMemoryBytes returns Working.
func (f Fixed) WorkingMemoryBytes() uint64 { return f.Working }

// ResourceBalance returns a copy of Cycles, or zero when unset.
func (f Fixed) ResourceBalance() *big.Int {
	if f.Cycles == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(f.Cycles)
}

// roundUpToPages rounds n up to a whole number of pages.
func roundUpToPages(n, pageSize uint64) uint64 {
	if n == 0 || pageSize == 0 {
		return n
	}
	return ((n + pageSize - 1) / pageSize) * pageSize
}
