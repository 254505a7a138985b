package config

import (
	"encoding/json"
	"os"

	"github.com/jicmugot16/fieldsync/internal/flagx"
	"github.com/jicmugot16/fieldsync/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It
// relies on timex.Duration so intervals can be written either as
// strings like "300s" or as integer nanoseconds; after parsing, values
// are copied into the runtime Config.
type JsonConfig struct {
	LocalDSN         *string         `json:"local_dsn"`
	CentralDSN       *string         `json:"central_dsn"`
	DeviceID         *string         `json:"device_id"`
	EvidenceDir      *string         `json:"evidence_dir"`
	ProbeHost        *string         `json:"probe_host"`
	ProbeTimeout     *timex.Duration `json:"probe_timeout"`
	StoreTimeout     *timex.Duration `json:"store_timeout"`
	CacheTTL         *timex.Duration `json:"cache_ttl"`
	CacheMaxEntries  *int            `json:"cache_max_entries"`
	TickInterval     *timex.Duration `json:"tick_interval"`
	MinSyncInterval  *timex.Duration `json:"min_sync_interval"`
	MaxSyncStaleness *timex.Duration `json:"max_sync_staleness"`
	StatusFilePath   *string         `json:"status_file"`
	LogFilePath      *string         `json:"log_file"`
}

// parseJson overlays Config with values loaded from a JSON file named
// by the -c/-config flags. Absent file path means no JSON layer; only
// fields present in the document override the config.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.LocalDSN != nil {
		cfg.LocalDSN = *jc.LocalDSN
	}
	if jc.CentralDSN != nil {
		cfg.CentralDSN = *jc.CentralDSN
	}
	if jc.DeviceID != nil {
		cfg.DeviceID = *jc.DeviceID
	}
	if jc.EvidenceDir != nil {
		cfg.EvidenceDir = *jc.EvidenceDir
	}
	if jc.ProbeHost != nil {
		cfg.ProbeHost = *jc.ProbeHost
	}
	if jc.ProbeTimeout != nil {
		cfg.ProbeTimeout = jc.ProbeTimeout.Duration
	}
	if jc.StoreTimeout != nil {
		cfg.StoreTimeout = jc.StoreTimeout.Duration
	}
	if jc.CacheTTL != nil {
		cfg.CacheTTL = jc.CacheTTL.Duration
	}
	if jc.CacheMaxEntries != nil {
		cfg.CacheMaxEntries = *jc.CacheMaxEntries
	}
	if jc.TickInterval != nil {
		cfg.TickInterval = jc.TickInterval.Duration
	}
	if jc.MinSyncInterval != nil {
		cfg.MinSyncInterval = jc.MinSyncInterval.Duration
	}
	if jc.MaxSyncStaleness != nil {
		cfg.MaxSyncStaleness = jc.MaxSyncStaleness.Duration
	}
	if jc.StatusFilePath != nil {
		cfg.StatusFilePath = *jc.StatusFilePath
	}
	if jc.LogFilePath != nil {
		cfg.LogFilePath = *jc.LogFilePath
	}
}
