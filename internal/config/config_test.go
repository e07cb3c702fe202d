package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "ascicat", cfg.World.LandmarkKey)
	assert.Equal(t, ":8088", cfg.Server.Addr)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoadWithoutPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "utopia.yaml", `
world:
  landmark_key: elsewhere
server:
  addr: ":9000"
  max_region_width: 80
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "elsewhere", cfg.World.LandmarkKey)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 80, cfg.Server.MaxRegionWidth)
	// Untouched fields keep their defaults.
	assert.Equal(t, 300, cfg.Server.MaxRegionHeight)
	assert.Equal(t, 10, cfg.Explorer.FastPanStep)
}

func TestLoadFromEnvPath(t *testing.T) {
	path := writeFile(t, "env.yaml", "explorer:\n  pan_step: 3\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Explorer.PanStep)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := writeFile(t, "bad.yaml", "server: [unclosed")
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(mapLookup(map[string]string{
		EnvLandmarkKey:     "from-env",
		EnvTheme:           "amber",
		EnvMaxRegionWidth:  "120",
		EnvMaxSearchRadius: "50",
		EnvTelemetry:       "true",
		EnvHoneycombKey:    "secret",
		EnvHoneycombSet:    "utopia-dev",
	}))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.World.LandmarkKey)
	assert.Equal(t, "amber", cfg.Explorer.Theme)
	assert.Equal(t, 120, cfg.Server.MaxRegionWidth)
	assert.Equal(t, 50, cfg.Server.MaxSearchRadius)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "secret", cfg.Telemetry.APIKey)
	assert.Equal(t, "utopia-dev", cfg.Telemetry.Dataset)
}

func TestApplyEnvRejectsBadNumbers(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(mapLookup(map[string]string{EnvMaxRegionHeight: "tall"}))
	assert.Error(t, err)

	err = cfg.ApplyEnv(mapLookup(map[string]string{EnvTelemetry: "sometimes"}))
	assert.Error(t, err)
}

func TestPrecedence(t *testing.T) {
	path := writeFile(t, "p.yaml", "world:\n  landmark_key: yaml\nexplorer:\n  theme: mono\nserver:\n  addr: \":7000\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.ApplyEnv(mapLookup(map[string]string{
		EnvLandmarkKey: "env",
		EnvServerAddr:  ":7100",
	})))

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Bind(fs)
	require.NoError(t, fs.Parse([]string{"-addr", ":7200", "-theme", "amber"}))

	assert.Equal(t, "env", cfg.World.LandmarkKey, "env overrides yaml")
	assert.Equal(t, ":7200", cfg.Server.Addr, "flag overrides env")
	assert.Equal(t, "amber", cfg.Explorer.Theme, "flag overrides yaml")
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", EnvLandmarkKey+"=dotenv-key\n")
	os.Unsetenv(EnvLandmarkKey)
	t.Cleanup(func() { os.Unsetenv(EnvLandmarkKey) })

	require.NoError(t, LoadDotEnv(path))

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(os.LookupEnv))
	assert.Equal(t, "dotenv-key", cfg.World.LandmarkKey)

	assert.Error(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero pan step", func(c *Config) { c.Explorer.PanStep = 0 }, ErrInvalidExtent},
		{"negative fast pan", func(c *Config) { c.Explorer.FastPanStep = -1 }, ErrInvalidExtent},
		{"zero region width", func(c *Config) { c.Server.MaxRegionWidth = 0 }, ErrInvalidExtent},
		{"negative radius", func(c *Config) { c.Server.MaxSearchRadius = -5 }, ErrInvalidRadius},
		{"start outside plane", func(c *Config) { c.Explorer.StartX = 1 << 40 }, ErrInvalidCoordinate},
		{"zero radius is fine", func(c *Config) { c.Server.MaxSearchRadius = 0 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
