package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snakada/flipcard/internal/localstore"
)

func newStore(t *testing.T) *localstore.Store {
	t.Helper()
	store, err := localstore.New(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		stored      string
		systemTheme Theme
		want        Settings
	}{
		{
			name: "nothing persisted",
			want: Default(),
		},
		{
			name:   "persisted values",
			stored: `{"theme":"dark","shuffle":true,"startFace":"back"}`,
			want:   Settings{Theme: ThemeDark, Shuffle: true, StartFace: StartFaceBack},
		},
		{
			name:        "legacy system theme resolves to dark",
			stored:      `{"theme":"system"}`,
			systemTheme: ThemeDark,
			want:        Settings{Theme: ThemeDark, Shuffle: false, StartFace: StartFaceFront},
		},
		{
			name:        "legacy system theme resolves to light",
			stored:      `{"theme":"system"}`,
			systemTheme: ThemeLight,
			want:        Default(),
		},
		{
			name:   "unknown values fall back per field",
			stored: `{"theme":"sepia","startFace":"sideways"}`,
			want:   Default(),
		},
		{
			name:   "malformed record falls back to defaults",
			stored: `{"theme":`,
			want:   Default(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t)
			if tt.stored != "" {
				require.NoError(t, store.Write(StorageKey, []byte(tt.stored)))
			}
			assert.Equal(t, tt.want, Load(store, tt.systemTheme))
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	store := newStore(t)

	saved := Settings{Theme: ThemeDark, Shuffle: true, StartFace: StartFaceBack}
	require.NoError(t, Save(store, saved))

	assert.Equal(t, saved, Load(store, ThemeLight))
}

func TestSettings_Apply(t *testing.T) {
	dark := ThemeDark
	shuffle := true
	back := StartFaceBack

	current := Default()

	updated := current.Apply(Patch{Theme: &dark})
	assert.Equal(t, Settings{Theme: ThemeDark, Shuffle: false, StartFace: StartFaceFront}, updated)

	updated = updated.Apply(Patch{Shuffle: &shuffle, StartFace: &back})
	assert.Equal(t, Settings{Theme: ThemeDark, Shuffle: true, StartFace: StartFaceBack}, updated)

	// An empty patch changes nothing.
	assert.Equal(t, updated, updated.Apply(Patch{}))
}

func TestDetectSystemTheme(t *testing.T) {
	t.Setenv("FLIPCARD_SYSTEM_THEME", "dark")
	assert.Equal(t, ThemeDark, DetectSystemTheme())

	t.Setenv("FLIPCARD_SYSTEM_THEME", "")
	assert.Equal(t, ThemeLight, DetectSystemTheme())
}
