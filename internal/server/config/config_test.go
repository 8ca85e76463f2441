package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubDotEnv(t *testing.T) *[][]string {
	t.Helper()
	orig := loadDotEnv
	t.Cleanup(func() { loadDotEnv = orig })

	var calls [][]string
	loadDotEnv = func(files ...string) error {
		calls = append(calls, files)
		return nil
	}
	return &calls
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "ar", c.Locale)
	assert.Equal(t, DefaultTeams, c.Teams)
	assert.True(t, bool(c.AutoNotifyOnStart))
	assert.Equal(t, 5, c.FilePanelLimit)
	assert.Equal(t, "postgres", c.StorageDriver)
	assert.Equal(t, ":50051", c.GRPCAddr)
	assert.Equal(t, 3, c.MaxGrantAttempts)
	assert.Equal(t, 1500*time.Millisecond, c.GrantBackoffUnit)
	assert.Equal(t, 5*time.Second, c.GrantBackoffCap)
	assert.Equal(t, 20*time.Second, c.GrantAttemptTimeout)
	assert.Equal(t, 50*time.Millisecond, c.BroadcastInterval)
	assert.False(t, c.ExportEnabled())

	c.Teams[0] = "changed"
	assert.NotEqual(t, "changed", DefaultTeams[0])
}

func TestLoadConfig_DefaultsPlusToken(t *testing.T) {
	calls := stubDotEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")

	c, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "123:abc", c.BotToken)
	assert.Equal(t, DefaultTeams, c.Teams)
	assert.Equal(t, [][]string{nil}, *calls)
}

func TestLoadConfig_MissingToken(t *testing.T) {
	stubDotEnv(t)
	t.Setenv("BOT_TOKEN", "")

	_, err := LoadConfig(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BotToken")
}

func TestLoadConfig_Environment(t *testing.T) {
	stubDotEnv(t)
	t.Setenv("BOT_TOKEN", "t")
	t.Setenv("ADMIN_IDS", "11, 22;x 33")
	t.Setenv("TEAM_CHOICES", `["Alpha","Beta"]`)
	t.Setenv("TEAM_FOLDER_MAP", "Alpha=f1; Beta = f2")
	t.Setenv("DEFAULT_DRIVE_FOLDER", "root")
	t.Setenv("AUTO_NOTIFY_ON_START", "no")
	t.Setenv("FILE_PANEL_LIMIT", "8")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("GRANT_BACKOFF_UNIT", "2s")
	t.Setenv("GRANT_BACKOFF_CAP", "6s")
	t.Setenv("EXPORT_S3_BUCKET", "reports")
	t.Setenv("BOT_LOCALE", "en")

	c, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, IDList{11, 22, 33}, c.AdminIDs)
	assert.True(t, c.AdminIDs.Contains(22))
	assert.Equal(t, TeamList{"Alpha", "Beta"}, c.Teams)
	assert.Equal(t, FolderMap{"Alpha": "f1", "Beta": "f2"}, c.FolderMap)
	assert.Equal(t, "root", c.DefaultFolder)
	assert.False(t, bool(c.AutoNotifyOnStart))
	assert.Equal(t, 8, c.FilePanelLimit)
	assert.Equal(t, "memory", c.StorageDriver)
	assert.Equal(t, 2*time.Second, c.GrantBackoffUnit)
	assert.Equal(t, 6*time.Second, c.GrantBackoffCap)
	assert.True(t, c.ExportEnabled())
	assert.Equal(t, "en", c.Locale)
}

func TestLoadConfig_Precedence(t *testing.T) {
	stubDotEnv(t)

	path := writeTempJSON(t, map[string]any{
		"bot_token":          "from-json",
		"grpc_addr":          ":7000",
		"log_level":          "debug",
		"grant_backoff_unit": "1s",
		"grant_backoff_cap":  3000000000,
		"team_choices":       []string{"J1"},
		"storage_driver":     "memory",
	})

	t.Setenv("GRPC_ADDR", ":8000")
	t.Setenv("LOG_LEVEL", "warn")

	c, err := LoadConfig([]string{"-c", path, "-l", "error", "-x", "ignored"})
	require.NoError(t, err)

	assert.Equal(t, "from-json", c.BotToken)
	assert.Equal(t, ":8000", c.GRPCAddr)
	assert.Equal(t, "error", c.LogLevel)
	assert.Equal(t, time.Second, c.GrantBackoffUnit)
	assert.Equal(t, 3*time.Second, c.GrantBackoffCap)
	assert.Equal(t, TeamList{"J1"}, c.Teams)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"postgres without dsn", nil, []string{"-d", ""}},
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "sqlite"}, nil},
		{"bad locale", map[string]string{"BOT_LOCALE": "fr"}, nil},
		{"cap below unit", map[string]string{"GRANT_BACKOFF_UNIT": "5s", "GRANT_BACKOFF_CAP": "1s"}, nil},
		{"zero attempts", map[string]string{"MAX_GRANT_ATTEMPTS": "0"}, nil},
		{"bad delegated user", map[string]string{"GOOGLE_DELEGATED_USER": "nobody"}, nil},
		{"s3 key without secret", map[string]string{"EXPORT_S3_ACCESS_KEY": "k"}, nil},
		{"bad duration", map[string]string{"GRANT_ATTEMPT_TIMEOUT": "soon"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubDotEnv(t)
			t.Setenv("BOT_TOKEN", "t")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig(tt.args)
			require.Error(t, err)
		})
	}
}

func TestLoadConfig_EnvFile(t *testing.T) {
	t.Run("explicit file is passed through", func(t *testing.T) {
		calls := stubDotEnv(t)
		t.Setenv("BOT_TOKEN", "t")

		_, err := LoadConfig([]string{"-env", "/etc/bot.env"})
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"/etc/bot.env"}}, *calls)
	})

	t.Run("missing explicit file fails", func(t *testing.T) {
		t.Setenv("BOT_TOKEN", "t")
		_, err := LoadConfig([]string{"-env", filepath.Join(t.TempDir(), "nope.env")})
		require.Error(t, err)
	})

	t.Run("values from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bot.env")
		require.NoError(t, os.WriteFile(path, []byte("BOT_TOKEN=file-token\nFILE_PANEL_LIMIT=7\n"), 0o600))
		t.Setenv("BOT_TOKEN", "")
		os.Unsetenv("BOT_TOKEN")
		t.Cleanup(func() { os.Unsetenv("BOT_TOKEN"); os.Unsetenv("FILE_PANEL_LIMIT") })

		c, err := LoadConfig([]string{"-env", path})
		require.NoError(t, err)
		assert.Equal(t, "file-token", c.BotToken)
		assert.Equal(t, 7, c.FilePanelLimit)
	})
}

func TestLoadConfig_BadJSONFile(t *testing.T) {
	stubDotEnv(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	_, err := LoadConfig([]string{"-c", path})
	require.Error(t, err)

	_, err = LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)
}
