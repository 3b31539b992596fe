package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		registry *Registry
		flag     string
		want     bool
	}{
		{"autosave on", New(map[string]bool{FlagAutosave: true}), FlagAutosave, true},
		{"hot reload off", New(map[string]bool{FlagHotReload: false}), FlagHotReload, false},
		{"unset flag", New(map[string]bool{FlagAutosave: true}), FlagHotReload, false},
		{"unknown flag from config", New(map[string]bool{"telemetry": true}), "telemetry", true},
		{"nil registry", nil, FlagAutosave, false},
		{"nil map", New(nil), FlagAutosave, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.registry.Enabled(tt.flag))
		})
	}
}

func TestRegistry_ConfigMapIsCopied(t *testing.T) {
	cfg := map[string]bool{FlagAutosave: true}
	r := New(cfg)
	cfg[FlagAutosave] = false

	require.True(t, r.Enabled(FlagAutosave), "later edits to the config map do not leak in")

	all := r.All()
	all[FlagHotReload] = true
	require.False(t, r.Enabled(FlagHotReload))
	require.Equal(t, map[string]bool{FlagAutosave: true}, r.All())
}

func TestRegistry_AllOnNil(t *testing.T) {
	var r *Registry
	require.Empty(t, r.All())
}

func TestRegistry_CommandLineOverride(t *testing.T) {
	fromConfig := New(map[string]bool{FlagAutosave: false, FlagHotReload: true})
	forRun := fromConfig.With(FlagAutosave, true)

	require.True(t, forRun.Enabled(FlagAutosave))
	require.True(t, forRun.Enabled(FlagHotReload), "other flags carry over")
	require.False(t, fromConfig.Enabled(FlagAutosave), "config registry stays unchanged")

	var none *Registry
	require.True(t, none.With(FlagHotReload, true).Enabled(FlagHotReload))
}

func TestKnown_ListsEveryFlag(t *testing.T) {
	require.ElementsMatch(t, []string{FlagAutosave, FlagHotReload}, Known())
}
