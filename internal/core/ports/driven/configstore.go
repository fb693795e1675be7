package driven

import "github.com/stereosearch/stereo/internal/core/domain"

// ConfigStore persists application settings.
// Implementations handle storage format (e.g. TOML files) and defaults.
type ConfigStore interface {
	// Load reads settings from storage. A missing file yields the
	// defaults, not an error.
	Load() (domain.Settings, error)

	// Save persists the settings.
	Save(settings domain.Settings) error

	// Path returns the backing file path, for display.
	Path() string
}
