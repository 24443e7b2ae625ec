package clients

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Augusto240/sasuke-quotes-app/internal/platform/config"
)

// State is the position of a Breaker.
type State int32

const (
	// StateClosed lets every call through.
	StateClosed State = iota

	// StateOpen fails calls fast with ErrCircuitOpen.
	StateOpen

	// StateHalfOpen lets a limited number of probe calls through.
	StateHalfOpen
)

var stateNames = [...]string{"closed", "open", "half-open"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}

	return stateNames[s]
}

var circuitState = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "sasuke_downstream_circuit_state",
	Help: "Circuit breaker position per downstream service (0 closed, 1 open, 2 half-open).",
}, []string{"service"})

// Breaker tracks consecutive failures of one downstream service.
//
//   - Closed: MaxFailures consecutive failures open it.
//   - Open: calls fail with ErrCircuitOpen until Timeout has passed since it
//     opened, then it turns half-open.
//   - Half-open: at most HalfOpenLimit probes run at once. HalfOpenLimit
//     consecutive successes close it and any failure reopens it.
type Breaker struct {
	service  string
	cfg      config.CircuitBreakerConfig
	now      func() time.Time
	onChange func(from, to State)

	mu        sync.Mutex
	state     State
	failures  int
	successes int
	probes    int
	openedAt  time.Time
}

// NewBreaker creates a closed breaker. onChange may be nil; it runs with the
// breaker locked and must not call back into it.
func NewBreaker(service string, cfg config.CircuitBreakerConfig, onChange func(from, to State)) *Breaker {
	if cfg.MaxFailures < 1 {
		cfg.MaxFailures = 1
	}

	if cfg.HalfOpenLimit < 1 {
		cfg.HalfOpenLimit = 1
	}

	circuitState.WithLabelValues(service).Set(float64(StateClosed))

	return &Breaker{
		service:  service,
		cfg:      cfg,
		now:      time.Now,
		onChange: onChange,
	}
}

// Acquire admits a call or returns ErrCircuitOpen. Every admitted call must
// be reported with exactly one Release.
func (b *Breaker) Acquire() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if b.now().Sub(b.openedAt) < b.cfg.Timeout {
			return ErrCircuitOpen
		}

		b.setLocked(StateHalfOpen)
	}

	if b.state == StateHalfOpen {
		if b.probes >= b.cfg.HalfOpenLimit {
			return ErrCircuitOpen
		}

		b.probes++
	}

	return nil
}

// Release records the outcome of a call admitted by Acquire.
func (b *Breaker) Release(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		if success {
			b.failures = 0
			return
		}

		b.failures++
		if b.failures >= b.cfg.MaxFailures {
			b.setLocked(StateOpen)
		}

	case StateHalfOpen:
		if b.probes > 0 {
			b.probes--
		}

		if !success {
			b.setLocked(StateOpen)
			return
		}

		b.successes++
		if b.successes >= b.cfg.HalfOpenLimit {
			b.setLocked(StateClosed)
		}

	case StateOpen:
		// Admitted before the breaker opened; the outcome changes nothing.
	}
}

// State returns the current position.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

func (b *Breaker) setLocked(to State) {
	from := b.state
	if from == to {
		return
	}

	b.state = to
	b.failures, b.successes, b.probes = 0, 0, 0

	if to == StateOpen {
		b.openedAt = b.now()
	}

	circuitState.WithLabelValues(b.service).Set(float64(to))

	if b.onChange != nil {
		b.onChange(from, to)
	}
}
