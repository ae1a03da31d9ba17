package configutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl string `json:"base_url"`
	Timeout int    `json:"timeout"`
}

func TestReadConfigMergesLocalOverride(t *testing.T) {
	dir := t.TempDir()

	err := os.WriteFile(
		filepath.Join(dir, "config.json5"),
		[]byte(`{ base_url: "https://e-jagriti.gov.in", timeout: 30 }`),
		0644,
	)
	require.NoError(t, err)
	err = os.WriteFile(
		filepath.Join(dir, "config.local.json5"),
		[]byte(`{ timeout: 5 }`),
		0644,
	)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, "https://e-jagriti.gov.in", cfg.BaseUrl)
	require.Equal(t, 5, cfg.Timeout)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "forty-two")
	t.Setenv("TEST_DUR", "90s")

	require.Equal(t, "value", Env("TEST_STR", "fallback"))
	require.Equal(t, "fallback", Env("TEST_UNSET", "fallback"))
	require.Equal(t, 42, EnvInt("TEST_INT", 1))
	require.Equal(t, 1, EnvInt("TEST_BAD_INT", 1))
	require.Equal(t, 90*time.Second, EnvDuration("TEST_DUR", time.Second))
	require.Equal(t, time.Second, EnvDuration("TEST_UNSET", time.Second))
}
