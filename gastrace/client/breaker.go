package client

import (
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig tunes one collaborator's circuit breaker.
type BreakerConfig struct {
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

// DefaultBreakerConfig is the baseline protection applied to every
// collaborator unless overridden.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:         3,
		Interval:            60 * time.Second,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// BreakerManager keeps one circuit breaker per collaborator name.
type BreakerManager struct {
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
	config   BreakerConfig
}

// NewBreakerManager builds a manager with the given default config.
func NewBreakerManager(config BreakerConfig) *BreakerManager {
	return &BreakerManager{
		breakers: make(map[string]*gobreaker.CircuitBreaker),
		config:   config,
	}
}

// Execute runs fn through the named collaborator's breaker, creating it on
// first use.
func (m *BreakerManager) Execute(name string, fn func() (any, error)) (any, error) {
	return m.getOrCreate(name).Execute(fn)
}

// IsHealthy reports whether the named breaker is not open. Unknown names are
// healthy: no breaker has tripped for them yet.
func (m *BreakerManager) IsHealthy(name string) bool {
	m.mu.Lock()
	breaker, ok := m.breakers[name]
	m.mu.Unlock()

	if !ok {
		return true
	}

	return breaker.State() != gobreaker.StateOpen
}

// States returns the current state of every known breaker, keyed by name.
func (m *BreakerManager) States() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	states := make(map[string]string, len(m.breakers))
	for name, breaker := range m.breakers {
		states[name] = breaker.State().String()
	}

	return states
}

func (m *BreakerManager) getOrCreate(name string) *gobreaker.CircuitBreaker {
	m.mu.Lock()
	defer m.mu.Unlock()

	if breaker, ok := m.breakers[name]; ok {
		return breaker
	}

	cfg := m.config

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
	})

	m.breakers[name] = breaker

	return breaker
}
