package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment,
// after loading a .env file if one sits next to the working directory.
// A missing .env is not an error; deployments that configure the unit
// through systemd environment directives simply skip it.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	setString(&cfg.LocalDSN, "FIELDSYNC_LOCAL_DSN")
	setString(&cfg.CentralDSN, "FIELDSYNC_CENTRAL_DSN")
	setString(&cfg.DeviceID, "FIELDSYNC_DEVICE_ID")
	setString(&cfg.EvidenceDir, "FIELDSYNC_EVIDENCE_DIR")
	setString(&cfg.ProbeHost, "FIELDSYNC_PROBE_HOST")
	setString(&cfg.StatusFilePath, "FIELDSYNC_STATUS_FILE")
	setString(&cfg.LogFilePath, "FIELDSYNC_LOG_FILE")

	setDuration(&cfg.ProbeTimeout, "FIELDSYNC_PROBE_TIMEOUT")
	setDuration(&cfg.StoreTimeout, "FIELDSYNC_STORE_TIMEOUT")
	setDuration(&cfg.CacheTTL, "FIELDSYNC_CACHE_TTL")
	setDuration(&cfg.TickInterval, "FIELDSYNC_TICK_INTERVAL")
	setDuration(&cfg.MinSyncInterval, "FIELDSYNC_MIN_SYNC_INTERVAL")
	setDuration(&cfg.MaxSyncStaleness, "FIELDSYNC_MAX_SYNC_STALENESS")

	setInt(&cfg.CacheMaxEntries, "FIELDSYNC_CACHE_MAX_ENTRIES")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
