package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const settingsFileName = "settings.json"

// Defaults, matching a fresh install with nothing configured.
const (
	DefaultHistoryLimit = 100
	DefaultPersist      = false
	DefaultFuzzy        = false
)

// Settings holds the runtime-configurable knobs. Setters on the service
// write the file back synchronously, so a crash never loses a change.
type Settings struct {
	// HistoryLimit bounds the number of history entries. Always >= 1.
	HistoryLimit int `json:"history_limit"`

	// Persist enables saving the history at shutdown and loading it at
	// startup. Flipping it takes effect on the next load/save cycle.
	Persist bool `json:"persistent"`

	// Fuzzy switches search to subsequence matching. Affects search
	// immediately.
	Fuzzy bool `json:"fuzzy"`
}

// Default returns the settings of a fresh install.
func Default() Settings {
	return Settings{
		HistoryLimit: DefaultHistoryLimit,
		Persist:      DefaultPersist,
		Fuzzy:        DefaultFuzzy,
	}
}

// Load reads settings from dir. A missing file yields the defaults. A
// corrupt file also yields the defaults but reports the error, so a typo in
// a hand-edited file is not silently dropped.
func Load(dir string) (Settings, error) {
	data, err := os.ReadFile(filepath.Join(dir, settingsFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), err
	}

	s := Default()
	if err := json.Unmarshal(data, &s); err != nil {
		return Default(), err
	}
	s.Clamp()
	return s, nil
}

// Save writes settings to dir, creating it if needed.
func Save(dir string, s Settings) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, settingsFileName), data, 0644)
}

// Clamp repairs invalid values at the configuration boundary. The history
// store asserts limit >= 1 as a precondition, so it must never see less.
func (s *Settings) Clamp() {
	if s.HistoryLimit < 1 {
		s.HistoryLimit = DefaultHistoryLimit
	}
}
