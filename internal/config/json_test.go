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

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"central_dsn":        "postgres://fieldsync@db.campus.internal:5432/rfid_vehicle_system",
		"device_id":          "HANDHELD_07",
		"min_sync_interval":  "90s",
		"max_sync_staleness": "10m",
		"cache_max_entries":  64,
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "postgres://fieldsync@db.campus.internal:5432/rfid_vehicle_system", cfg.CentralDSN)
		assert.Equal(t, "HANDHELD_07", cfg.DeviceID)
		assert.Equal(t, 90*time.Second, cfg.MinSyncInterval)
		assert.Equal(t, 10*time.Minute, cfg.MaxSyncStaleness)
		assert.Equal(t, 64, cfg.CacheMaxEntries)
	})

	t.Run("absent fields keep existing values", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{LocalDSN: "fieldsync.db", TickInterval: 42 * time.Second}
		parseJson(cfg)

		assert.Equal(t, "fieldsync.db", cfg.LocalDSN)
		assert.Equal(t, 42*time.Second, cfg.TickInterval)
		assert.Equal(t, "HANDHELD_07", cfg.DeviceID)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			CentralDSN:   "defaults:1234",
			TickInterval: 42 * time.Second,
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.CentralDSN)
		assert.Equal(t, 42*time.Second, cfg.TickInterval)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
