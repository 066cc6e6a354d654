package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load reads; godotenv never overrides a
// variable that is already set, even to an empty value.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"APP_ID", "APP_SECRET", "CODE_TOKEN", "LOG_LEVEL", "DATABASE_URL", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEETS_SPREADSHEET_ID"} {
		old, had := os.LookupEnv(k)
		_ = os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(k, old)
			} else {
				_ = os.Unsetenv(k)
			}
		})
	}
}

func TestLoad_MissingFilesUseDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "nope.yaml"), filepath.Join(dir, ".env"))

	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "Не указано", cfg.Sentinel)
	assert.Equal(t, []int{156, 10, 150, 165, 73, 96, 164, 107, 148, 126, 124}, cfg.HH.Roles)
	assert.True(t, cfg.HH.Headless)
	assert.Equal(t, 1500*time.Millisecond, cfg.HH.ScrollPause)
	assert.Equal(t, int64(46950440), cfg.Rabota.IDFrom)
	assert.Equal(t, int64(46960440), cfg.Rabota.IDTo)
	assert.Equal(t, 5, cfg.Rabota.MaxConsecutiveFailures)
	assert.Equal(t, 1, cfg.Retry.Attempts)
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.Postgres.Enabled())
	assert.False(t, cfg.Telegram.Enabled())
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
hh:
  roles: [96]
  headless: false
  scroll_pause: 250ms
  selectors:
    card: article.vacancy
rabota:
  id_from: 10
  id_to: 20
  batch_size: 5
`), 0o644))
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("APP_ID=app\nAPP_SECRET=secret\nCODE_TOKEN=code\nTELEGRAM_CHAT_ID=42\n"), 0o644))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path, envPath)

	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel, "env beats yaml")
	assert.Equal(t, []int{96}, cfg.HH.Roles)
	assert.False(t, cfg.HH.Headless)
	assert.Equal(t, 250*time.Millisecond, cfg.HH.ScrollPause)
	assert.Equal(t, "article.vacancy", cfg.HH.Selectors.Card)
	assert.Equal(t, `a[data-qa="serp-item__title"]`, cfg.HH.Selectors.Title, "unset selectors keep defaults")
	assert.Equal(t, 5, cfg.Rabota.BatchSize)
	assert.Equal(t, "app", cfg.Rabota.Credentials.AppID)
	assert.Equal(t, int64(42), cfg.Telegram.ChatID)
	assert.NoError(t, cfg.ValidateRabota())
}

func TestLoad_MalformedYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hh: [unterminated"), 0o644))

	_, err := Load(path, "")

	assert.Error(t, err)
}

func TestLoad_InvalidChatID(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_CHAT_ID", "not-a-number")

	_, err := Load("", "")

	assert.ErrorContains(t, err, "TELEGRAM_CHAT_ID")
}

func TestValidateRabota_NamesEveryMissingCredential(t *testing.T) {
	cfg := Default()
	cfg.Rabota.Credentials.AppSecret = "s"

	err := cfg.ValidateRabota()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_ID")
	assert.Contains(t, err.Error(), "CODE_TOKEN")
	assert.NotContains(t, err.Error(), "APP_SECRET")
}

func TestValidateRabota_EmptyRange(t *testing.T) {
	cfg := Default()
	cfg.Rabota.Credentials = Credentials{AppID: "a", AppSecret: "s", Code: "c"}
	cfg.Rabota.IDFrom, cfg.Rabota.IDTo = 5, 5

	assert.ErrorContains(t, cfg.ValidateRabota(), "empty")
}

func TestValidateHH(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.ValidateHH())

	cfg.HH.Roles = nil
	cfg.HH.URLTemplate = "https://example.com/?role={role}"
	err := cfg.ValidateHH()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "roles")
	assert.Contains(t, err.Error(), "{page}")
}
