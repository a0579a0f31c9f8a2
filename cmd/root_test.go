package cmd

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		"API_BASE_URL", "ASSET_BASE_URL", "HTTP_TIMEOUT", "RATE_LIMIT", "STORE",
		"STORE_PATH", "REDIS_URL", "NAMESPACE", "LOG_LEVEL", "LOG_FILE", "IMAGE_CACHE",
	} {
		name := EnvPrefix + "_" + key
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolateEnv(t)

	config, err := Load(nil, io.Discard)

	require.NoError(t, err)
	assert.Equal(t, StoreSQLite, config.Store)
	assert.Equal(t, "root", config.Namespace)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, 5*time.Second, config.HTTPTimeout)
	assert.Equal(t, 64, config.ImageCache)
	assert.Equal(t, filepath.Join(home, ".autoparts"), config.ConfigDir)
	assert.Equal(t, filepath.Join(home, ".autoparts", "autoparts.db"), config.StorePath)
	assert.Equal(t, filepath.Join(home, ".autoparts", "autoparts.log"), config.LogFile)
	assert.DirExists(t, config.ConfigDir)
}

func TestLoadReadsEnvironment(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	t.Setenv("AUTOPARTS_API_BASE_URL", " https://catalogue.test/api ")
	t.Setenv("AUTOPARTS_STORE", "FILE")
	t.Setenv("AUTOPARTS_STORE_PATH", dir)
	t.Setenv("AUTOPARTS_RATE_LIMIT", "2.5")
	t.Setenv("AUTOPARTS_HTTP_TIMEOUT", "750ms")

	config, err := Load(nil, io.Discard)

	require.NoError(t, err)
	assert.Equal(t, "https://catalogue.test/api", config.APIBaseURL)
	assert.Equal(t, StoreFile, config.Store)
	assert.Equal(t, dir, config.StorePath)
	assert.Equal(t, dir, config.ConfigDir)
	assert.Equal(t, 2.5, config.RateLimit)
	assert.Equal(t, 750*time.Millisecond, config.HTTPTimeout)
	assert.NoError(t, config.Validate())
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	isolateEnv(t)
	t.Setenv("AUTOPARTS_API_BASE_URL", "https://env.test")
	t.Setenv("AUTOPARTS_LOG_LEVEL", "warn")
	dbPath := filepath.Join(t.TempDir(), "sel.db")

	config, err := Load([]string{"-api", "https://flag.test", "-log-level", "debug", "-store-path", dbPath}, io.Discard)

	require.NoError(t, err)
	assert.Equal(t, "https://flag.test", config.APIBaseURL)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, dbPath, config.StorePath)
	assert.Equal(t, filepath.Dir(dbPath), config.ConfigDir)
}

func TestLoadRejectsUnknownFlag(t *testing.T) {
	isolateEnv(t)

	_, err := Load([]string{"-db", "x.db"}, io.Discard)

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	isolateEnv(t)

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing api", func(c *Config) { c.APIBaseURL = "" }, "APIBaseURL (required)"},
		{"bad api", func(c *Config) { c.APIBaseURL = "not a url" }, "APIBaseURL (url)"},
		{"bad store", func(c *Config) { c.Store = "postgres" }, "Store (oneof)"},
		{"redis without url", func(c *Config) { c.Store = StoreRedis }, "RedisURL (required_if)"},
		{"redis with url", func(c *Config) { c.Store = StoreRedis; c.RedisURL = "redis://localhost:6379/0" }, ""},
		{"bad namespace", func(c *Config) { c.Namespace = "a/b" }, "Namespace"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "LogLevel (oneof)"},
		{"negative rate", func(c *Config) { c.RateLimit = -1 }, "RateLimit (gte)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := Load([]string{"-api", "https://catalogue.test/api"}, io.Discard)
			require.NoError(t, err)

			tt.mutate(config)
			err = config.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOnboardingSettingsRoundTrip(t *testing.T) {
	dir := t.TempDir()

	missing, err := loadOnboardingSettings(dir)
	require.NoError(t, err)
	assert.False(t, missing.Completed)

	saved := OnboardingSettings{Completed: true, APIBaseURL: "https://catalogue.test/api"}
	require.NoError(t, saveOnboardingSettings(dir, saved))

	loaded, err := loadOnboardingSettings(dir)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
	assert.False(t, shouldRunOnboarding(loaded))
}

func TestOnboardingSettingsDoNotOverrideConfig(t *testing.T) {
	config := &Config{APIBaseURL: "https://flag.test"}

	OnboardingSettings{APIBaseURL: "https://saved.test", AssetBaseURL: "https://img.test"}.apply(config)

	assert.Equal(t, "https://flag.test", config.APIBaseURL)
	assert.Equal(t, "https://img.test", config.AssetBaseURL)
}

func typeText(t *testing.T, m onboardingModel, text string) onboardingModel {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(onboardingModel)
}

func press(t *testing.T, m onboardingModel, key tea.KeyType) (onboardingModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: key})
	return next.(onboardingModel), cmd
}

func TestOnboardingWizard(t *testing.T) {
	m := newOnboardingModel()

	m = typeText(t, m, "nope")
	m, cmd := press(t, m, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.Equal(t, stepAPI, m.step)
	assert.NotEmpty(t, m.invalid)
	assert.Contains(t, m.View(), "Adresse invalide")

	m.input.Reset()
	m = typeText(t, m, "https://catalogue.test/api/")
	m, _ = press(t, m, tea.KeyEnter)
	require.Equal(t, stepAssets, m.step)
	assert.Equal(t, "https://catalogue.test/api", m.settings.APIBaseURL)
	assert.Empty(t, m.invalid)

	m = typeText(t, m, "https://img.test")
	m, cmd = press(t, m, tea.KeyEnter)
	assert.Equal(t, stepDone, m.step)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, OnboardingSettings{
		Completed:    true,
		APIBaseURL:   "https://catalogue.test/api",
		AssetBaseURL: "https://img.test",
	}, m.settings)
}

func TestOnboardingSkipAssets(t *testing.T) {
	m := typeText(t, newOnboardingModel(), "https://catalogue.test")
	m, _ = press(t, m, tea.KeyEnter)

	m, cmd := press(t, m, tea.KeyEsc)

	assert.Equal(t, stepDone, m.step)
	assert.NotNil(t, cmd)
	assert.Empty(t, m.settings.AssetBaseURL)
	assert.True(t, m.settings.Completed)
}

func TestOnboardingCancel(t *testing.T) {
	m, cmd := press(t, newOnboardingModel(), tea.KeyCtrlC)

	assert.True(t, m.canceled)
	assert.False(t, m.settings.Completed)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Configuration annulée")
}
