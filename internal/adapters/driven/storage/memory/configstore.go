package memory

import (
	"sync"

	"github.com/stereosearch/stereo/internal/core/domain"
	"github.com/stereosearch/stereo/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is an in-memory implementation of driven.ConfigStore for testing.
type ConfigStore struct {
	mu       sync.RWMutex
	settings domain.Settings
	saved    bool
}

// NewConfigStore creates a new in-memory config store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{}
}

// Load returns the last saved settings, or the defaults when nothing has
// been saved yet.
func (s *ConfigStore) Load() (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.saved {
		return domain.DefaultSettings(), nil
	}
	return s.settings, nil
}

// Save stores the settings.
func (s *ConfigStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.saved = true
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return ":memory:"
}
