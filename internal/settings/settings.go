// Package settings persists the user's display preferences: theme, shuffle
// mode and which face a study card starts on.
package settings

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/snakada/flipcard/internal/localstore"
)

// StorageKey is the fixed record key the settings live under.
const StorageKey = "flip-card-settings"

// Theme is the display theme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	// ThemeSystem is a legacy stored value. It is resolved to a concrete
	// light/dark value at load time and never written back.
	ThemeSystem Theme = "system"
)

// StartFace selects which side of a card a study session shows first.
type StartFace string

const (
	StartFaceFront StartFace = "front"
	StartFaceBack  StartFace = "back"
)

// Settings is the persisted preference object. It is loaded once at startup
// and mutated only through Apply.
type Settings struct {
	Theme     Theme     `json:"theme"`
	Shuffle   bool      `json:"shuffle"`
	StartFace StartFace `json:"startFace"`
}

// Default returns the settings used when nothing has been persisted yet.
func Default() Settings {
	return Settings{
		Theme:     ThemeLight,
		Shuffle:   false,
		StartFace: StartFaceFront,
	}
}

// Patch carries a partial settings update. Nil fields are left unchanged.
type Patch struct {
	Theme     *Theme
	Shuffle   *bool
	StartFace *StartFace
}

// Apply merges the patch into the settings and returns the result.
func (s Settings) Apply(patch Patch) Settings {
	if patch.Theme != nil {
		s.Theme = *patch.Theme
	}
	if patch.Shuffle != nil {
		s.Shuffle = *patch.Shuffle
	}
	if patch.StartFace != nil {
		s.StartFace = *patch.StartFace
	}
	return s
}

// Load reads settings from the local store. A missing or malformed record
// falls back to defaults; loading never fails. Legacy "system" themes are
// resolved against systemTheme at this moment.
func Load(store *localstore.Store, systemTheme Theme) Settings {
	data, ok := store.Read(StorageKey)
	if !ok {
		return Default()
	}

	var raw struct {
		Theme     string `json:"theme"`
		Shuffle   *bool  `json:"shuffle"`
		StartFace string `json:"startFace"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Default()
	}

	loaded := Default()
	switch Theme(raw.Theme) {
	case ThemeDark:
		loaded.Theme = ThemeDark
	case ThemeSystem:
		if systemTheme == ThemeDark {
			loaded.Theme = ThemeDark
		} else {
			loaded.Theme = ThemeLight
		}
	default:
		loaded.Theme = ThemeLight
	}
	if raw.Shuffle != nil {
		loaded.Shuffle = *raw.Shuffle
	}
	if StartFace(raw.StartFace) == StartFaceBack {
		loaded.StartFace = StartFaceBack
	}
	return loaded
}

// Save persists the settings under the fixed storage key.
func Save(store *localstore.Store, s Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("json.Marshal> %w", err)
	}
	if err := store.Write(StorageKey, data); err != nil {
		return fmt.Errorf("persist settings> %w", err)
	}
	return nil
}

// DetectSystemTheme reports the platform preference used to resolve the
// legacy "system" theme. Terminals have no media query, so the probe reads
// the FLIPCARD_SYSTEM_THEME environment variable and defaults to light.
func DetectSystemTheme() Theme {
	if Theme(os.Getenv("FLIPCARD_SYSTEM_THEME")) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}
