package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/abelzeko/brew-bot/internal/entities"
)

// DefaultDebounce is how long the live calculator waits after the last edit
const DefaultDebounce = 300 * time.Millisecond

// PublishFunc receives the result of a live recalculation
type PublishFunc func(sessionID int64, result string)

// liveSession is the state of one chat's live calculator
type liveSession struct {
	kind     string
	fields   []string
	required int
	values   map[string]string
	timer    *time.Timer

	// generation increases on every edit; a recalculation only publishes when its
	// generation is still current
	generation uint64
}

// LiveCalculator keeps calculator inputs per session and recalculates after the
// brewer stops typing. Each edit cancels the pending recalculation, so only the
// latest input is ever published.
type LiveCalculator struct {
	calc    *CalcUseCase
	delay   time.Duration
	publish PublishFunc

	mu       sync.Mutex
	sessions map[int64]*liveSession
}

// NewLiveCalculator creates a live calculator. A non-positive delay uses DefaultDebounce.
func NewLiveCalculator(calc *CalcUseCase, delay time.Duration, publish PublishFunc) *LiveCalculator {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &LiveCalculator{
		calc:     calc,
		delay:    delay,
		publish:  publish,
		sessions: make(map[int64]*liveSession),
	}
}

// Start opens a live session for a calculator, replacing any previous one, and
// returns the field names the brewer can set
func (l *LiveCalculator) Start(sessionID int64, kind string) ([]string, error) {
	fields, required, err := l.calc.Fields(kind)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopLocked(sessionID)
	l.sessions[sessionID] = &liveSession{
		kind:     kind,
		fields:   fields,
		required: required,
		values:   make(map[string]string),
	}
	return fields, nil
}

// Set changes one field and schedules a recalculation
func (l *LiveCalculator) Set(sessionID int64, field, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.sessions[sessionID]
	if !ok {
		return fmt.Errorf("%w: no live calculator running, start one with /live", entities.ErrInvalidInput)
	}
	if !slices.Contains(s.fields, field) {
		return fmt.Errorf("%w: %s has no field %q, fields are %v", entities.ErrInvalidInput, s.kind, field, s.fields)
	}

	if value == "" {
		delete(s.values, field)
	} else {
		s.values[field] = value
	}

	if s.timer != nil {
		s.timer.Stop()
	}
	s.generation++
	generation := s.generation
	s.timer = time.AfterFunc(l.delay, func() { l.recalculate(sessionID, generation) })
	return nil
}

// Values returns a copy of a session's current inputs
func (l *LiveCalculator) Values(sessionID int64) map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sessions[sessionID]
	if !ok {
		return nil
	}
	values := make(map[string]string, len(s.values))
	for k, v := range s.values {
		values[k] = v
	}
	return values
}

// Stop ends a session; a pending recalculation is dropped
func (l *LiveCalculator) Stop(sessionID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopLocked(sessionID)
}

// Close ends every session
func (l *LiveCalculator) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id := range l.sessions {
		l.stopLocked(id)
	}
}

func (l *LiveCalculator) stopLocked(sessionID int64) {
	if s, ok := l.sessions[sessionID]; ok {
		if s.timer != nil {
			s.timer.Stop()
		}
		delete(l.sessions, sessionID)
	}
}

// recalculate runs on the timer goroutine
func (l *LiveCalculator) recalculate(sessionID int64, generation uint64) {
	l.mu.Lock()
	s, ok := l.sessions[sessionID]
	if !ok || s.generation != generation {
		l.mu.Unlock()
		return
	}
	kind := s.kind
	args, ready := s.args()
	l.mu.Unlock()

	if !ready {
		return
	}
	result, err := l.calc.Calculate(context.Background(), kind, args)
	if err != nil {
		slog.Debug("Live recalculation rejected input", "session", sessionID, "kind", kind, "error", err)
		return
	}

	// A newer edit may have arrived while calculating
	l.mu.Lock()
	current := l.sessions[sessionID] == s && s.generation == generation
	l.mu.Unlock()
	if current && l.publish != nil {
		l.publish(sessionID, result)
	}
}

// args lays the values out positionally. It reports false while a required field
// is missing. Optional gaps are passed as empty strings and take their defaults.
func (s *liveSession) args() ([]string, bool) {
	last := -1
	for i, f := range s.fields {
		if _, ok := s.values[f]; ok {
			last = i
		}
	}
	n := max(last+1, s.required)
	args := make([]string, n)
	for i := 0; i < n; i++ {
		v, ok := s.values[s.fields[i]]
		if !ok && i < s.required {
			return nil, false
		}
		args[i] = v
	}
	return args, true
}
