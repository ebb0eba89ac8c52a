package counters

import (
	"fmt"
	"math/big"
	"sync"
)

// BalanceProvider supplies the current cycles balance.
type BalanceProvider interface {
	Balance() *big.Int
}

// BalanceFunc adapts a function to BalanceProvider.
type BalanceFunc func() *big.Int

// Balance calls f.
func (f BalanceFunc) Balance() *big.Int {
	return f()
}

// StaticBalance holds a balance that can be replaced at runtime, for example
// when the configuration is reloaded. Safe for concurrent use.
type StaticBalance struct {
	mu    sync.RWMutex
	value *big.Int
}

// NewStaticBalance returns a provider seeded with v. A nil v means zero.
func NewStaticBalance(v *big.Int) *StaticBalance {
	s := &StaticBalance{}
	s.Set(v)
	return s
}

// Balance returns a copy of the stored balance.
func (s *StaticBalance) Balance() *big.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return new(big.Int).Set(s.value)
}

// Set replaces the stored balance. A nil v means zero.
func (s *StaticBalance) Set(v *big.Int) {
	next := new(big.Int)
	if v != nil {
		next.Set(v)
	}

	s.mu.Lock()
	s.value = next
	s.mu.Unlock()
}

// ParseBalance parses a non-negative decimal balance of any size.
// The empty string parses as zero.
func ParseBalance(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}

	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid cycles balance %q: not a decimal integer", s)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("invalid cycles balance %q: must be non-negative", s)
	}
	return v, nil
}

func balanceOf(p BalanceProvider) *big.Int {
	if p == nil {
		return new(big.Int)
	}
	if v := p.Balance(); v != nil {
		return v
	}
	return new(big.Int)
}
