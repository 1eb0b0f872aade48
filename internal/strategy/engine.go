package strategy

import (
	"sync"

	"github.com/sigscan/sigscan/internal/core"
	"go.uber.org/zap"
)

// Engine holds the registered strategies and resolves them by name.
type Engine struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
	logger     *zap.Logger
}

// NewEngine creates a new strategy engine
func NewEngine(logger ...*zap.Logger) *Engine {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}
	return &Engine{
		strategies: make(map[string]Strategy),
		logger:     l,
	}
}

// Register adds a strategy to the engine
func (e *Engine) Register(s Strategy) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.strategies[s.Name()] = s
}

// Get retrieves a strategy by name
func (e *Engine) Get(name string) (Strategy, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.strategies[name]
	return s, ok
}

// Names returns the names of all registered strategies.
func (e *Engine) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	result := make([]string, 0, len(e.strategies))
	for name := range e.strategies {
		result = append(result, name)
	}
	return result
}

// Detect resolves a strategy by name and runs it. A detection failure is
// logged and reported to the caller; an unknown name is a configuration
// error.
func (e *Engine) Detect(name string, ctx Context) (bool, error) {
	s, ok := e.Get(name)
	if !ok {
		return false, core.ErrUnknownStrategy
	}

	fired, err := s.Detect(ctx)
	if err != nil {
		e.logger.Warn("strategy detection failed",
			zap.String("strategy", name),
			zap.String("symbol", ctx.Symbol),
			zap.Error(err),
		)
		return false, err
	}
	return fired, nil
}
