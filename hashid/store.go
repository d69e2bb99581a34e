package hashid

import (
	"fmt"
	"strings"
	"sync"
)

// Store holds option overrides on two layers: global and per model.
// Options that were never set resolve to the shipped defaults.
type Store struct {
	mu     sync.RWMutex
	global map[Option]any
	models map[string]map[Option]any
}

func NewStore() *Store {
	return &Store{
		global: make(map[Option]any),
		models: make(map[string]map[Option]any),
	}
}

// Default is the process-wide store used by the package level helpers.
var Default = NewStore()

func Set(opt Option, value any) error { return Default.Set(opt, value) }

func Get(opt Option) any { return Default.Get(opt) }

func Reset() { Default.Reset() }

// Set overrides opt for every model that does not override it itself.
func (s *Store) Set(opt Option, value any) error {
	if opt == Prefix {
		return fmt.Errorf("%w: %s", ErrModelOnlyOption, opt)
	}
	v, err := checkValue(opt, value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.global[opt] = v
	s.mu.Unlock()
	return nil
}

// Get returns the global value of opt, or nil for an unknown option.
func (s *Store) Get(opt Option) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.global[opt]; ok {
		return v
	}
	return defaultValue(opt)
}

// SetFor overrides opt for a single model.
func (s *Store) SetFor(model string, opt Option, value any) error {
	if model == "" {
		return fmt.Errorf("%w: empty model name", ErrInvalidValue)
	}
	v, err := checkValue(opt, value)
	if err != nil {
		return err
	}
	key := modelKey(model)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.models[key] == nil {
		s.models[key] = make(map[Option]any)
	}
	s.models[key][opt] = v
	return nil
}

// GetFor returns the value of opt as seen by model.
func (s *Store) GetFor(model string, opt Option) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(modelKey(model), opt)
}

func (s *Store) lookup(key string, opt Option) any {
	if v, ok := s.models[key][opt]; ok {
		return v
	}
	if v, ok := s.global[opt]; ok {
		return v
	}
	return defaultValue(opt)
}

// Reset drops every override, global and per model.
func (s *Store) Reset() {
	s.mu.Lock()
	s.global = make(map[Option]any)
	s.models = make(map[string]map[Option]any)
	s.mu.Unlock()
}

// Resolve builds the effective Config of model. An empty model name
// resolves the global layer only.
func (s *Store) Resolve(model string) (Config, error) {
	key := modelKey(model)
	var c Config
	s.mu.RLock()
	for _, opt := range Options {
		c.apply(opt, s.lookup(key, opt))
	}
	s.mu.RUnlock()
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("config for %q: %w", model, err)
	}
	return c, nil
}

func modelKey(model string) string {
	return strings.ToLower(model)
}
