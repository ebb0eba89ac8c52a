package counters

import (
	"log/slog"
	"math/big"
	"os"

	"github.com/prometheus/procfs"
)

// HostReader reads memory sizes from the hosting environment.
//
// Stable memory is the size of the file backing the durable region. Working
// memory is the resident set size of this process as reported by procfs.
// Both are reported in whole pages. Anything that cannot be read reports 0.
type HostReader struct {
	stablePath string
	pageSize   uint64
	balance    BalanceProvider

	// resident returns the resident set size in bytes.
	resident func() (uint64, error)
	logger   *slog.Logger
}

// NewHostReader creates a host reader. A zero pageSize means WasmPageSize.
func NewHostReader(stablePath string, pageSize uint64, balance BalanceProvider) *HostReader {
	if pageSize == 0 {
		pageSize = WasmPageSize
	}

	return &HostReader{
		stablePath: stablePath,
		pageSize:   pageSize,
		balance:    balance,
		resident:   procResidentBytes,
		logger:     slog.Default().With("component", "counters.host"),
	}
}

// StableStorageBytes returns the page-rounded size of the stable memory file.
func (h *HostReader) StableStorageBytes() uint64 {
	if h.stablePath == "" {
		return 0
	}

	info, err := os.Stat(h.stablePath)
	if err != nil {
		if !os.IsNotExist(err) {
			h.logger.Debug("stable memory unreadable", "path", h.stablePath, "error", err)
		}
		return 0
	}
	if info.IsDir() || info.Size() <= 0 {
		return 0
	}

	return roundUpToPages(uint64(info.Size()), h.pageSize)
}

// WorkingMemoryBytes returns the page-rounded resident memory of the process.
func (h *HostReader) WorkingMemoryBytes() uint64 {
	n, err := h.resident()
	if err != nil {
		h.logger.Debug("resident memory unavailable", "error", err)
		return 0
	}
	return roundUpToPages(n, h.pageSize)
}

// ResourceBalance returns the provider's balance.
func (h *HostReader) ResourceBalance() *big.Int {
	return balanceOf(h.balance)
}

func procResidentBytes() (uint64, error) {
	proc, err := procfs.Self()
	if err != nil {
		return 0, err
	}

	stat, err := proc.Stat()
	if err != nil {
		return 0, err
	}

	rss := stat.ResidentMemory()
	if rss < 0 {
		return 0, nil
	}
	return uint64(rss), nil
}
