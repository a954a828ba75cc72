package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/vecfield/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(config.New())
	require.NoError(t, err)
	assert.Equal(t, config.Config{
		LogLevel: "disabled",
		Preset:   "lorenz",
		DT:       0.01,
		Steps:    1000,
		Seed: config.Seed{
			Count:  10,
			Radius: 0.1,
			Center: []float64{1, 1, 10},
		},
	}, cfg)
	assert.Equal(t, [3]float64{1, 1, 10}, cfg.Seed.Point())
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("VECFIELD_DT", "0.5")
	t.Setenv("VECFIELD_SEED_COUNT", "3")
	t.Setenv("VECFIELD_LOG_LEVEL", "debug")
	cfg, err := config.Load(config.New())
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.DT)
	assert.Equal(t, 3, cfg.Seed.Count)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vecfield.yaml")
	src := `
preset: thomas
steps: 20
seed:
  radius: 2
  center: [0, 0.5, 0]
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	v := config.New()
	used, err := config.ReadFile(v, path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, "thomas", cfg.Preset)
	assert.Equal(t, 20, cfg.Steps)
	assert.Equal(t, 2.0, cfg.Seed.Radius)
	assert.Equal(t, 10, cfg.Seed.Count)
	assert.Equal(t, []float64{0, 0.5, 0}, cfg.Seed.Center)

	_, err = config.ReadFile(config.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestReadFileSearch(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	used, err := config.ReadFile(config.New(), "")
	require.NoError(t, err)
	assert.Empty(t, used)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "vecfield.yaml"), []byte("steps: 5\n"), 0o644))
	v := config.New()
	used, err = config.ReadFile(v, "")
	require.NoError(t, err)
	assert.NotEmpty(t, used)
	assert.Equal(t, 5, v.GetInt("steps"))
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  any
		msg  string
	}{
		{"dt-zero", "dt", 0, "dt must be positive"},
		{"dt-negative", "dt", -1, "dt must be positive"},
		{"steps", "steps", -1, "steps must not be negative"},
		{"count", "seed.count", 0, "seed.count must be at least 1"},
		{"radius", "seed.radius", -0.5, "seed.radius must not be negative"},
		{"center", "seed.center", []float64{1, 2}, "seed.center must have 3 coordinates"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v := config.New()
			v.Set(c.key, c.val)
			_, err := config.Load(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.msg)
		})
	}
}
