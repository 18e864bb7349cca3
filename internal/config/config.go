package config

import "fmt"

// Server carries the listener address for the external Query/Ingestion/Alert
// API surfaces (the transport itself is an external collaborator, out of
// this module's scope; only the bind address is configuration).
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Ontology locates the seed sensor catalog. An empty Path means use the
// embedded default catalog.
type Ontology struct {
	Path string `yaml:"path"`
}

// Config is the process-wide configuration, per spec §6's configuration
// option list, plus the Server and Ontology blocks every deployment needs.
type Config struct {
	Version int `yaml:"version"`

	LLMEndpoint string `yaml:"llm_endpoint"`
	LLMModel    string `yaml:"llm_model"`
	LLMAPIKey   string `yaml:"llm_api_key"`

	StoreURL string `yaml:"store_url"`

	IngestBatchSize       int `yaml:"ingest_batch_size"`
	IngestFlushIntervalMs int `yaml:"ingest_flush_interval_ms"`

	SessionTTLMin     int `yaml:"session_ttl_min"`
	SessionRetainDays int `yaml:"session_retain_days"`
	AlertSuppressSec  int `yaml:"alert_suppress_sec"`

	LogLevel string `yaml:"log_level"`

	Server   Server   `yaml:"server"`
	Ontology Ontology `yaml:"ontology"`
}

// defaults mirror spec §6: ingest_batch_size=100, ingest_flush_interval_ms=2000,
// session_ttl_min=30, session_retain_days=7, alert_suppress_sec=300.
func defaults() Config {
	return Config{
		IngestBatchSize:       100,
		IngestFlushIntervalMs: 2000,
		SessionTTLMin:         30,
		SessionRetainDays:     7,
		AlertSuppressSec:      300,
		LogLevel:              "info",
		Server:                Server{Host: "0.0.0.0", Port: 8080},
	}
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Load reads, resolves $include directives for, and decodes the config file
// at path, applying defaults for any field the file leaves zero-valued.
func Load(path string) (*Config, error) {
	raw, err := LoadRaw(path)
	if err != nil {
		return nil, err
	}

	cfg := defaults()
	applied, err := decodeRawConfig(raw)
	if err != nil {
		return nil, err
	}
	mergeDefaults(&cfg, applied)

	if err := ValidateVersion(cfg.Version); err != nil {
		return nil, err
	}
	if !validLogLevels[cfg.LogLevel] {
		return nil, fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", cfg.LogLevel)
	}
	return &cfg, nil
}

// mergeDefaults overlays the decoded config's non-zero fields onto base,
// leaving base's defaults in place wherever the file was silent.
func mergeDefaults(base *Config, applied *Config) {
	if applied.Version != 0 {
		base.Version = applied.Version
	}
	if applied.LLMEndpoint != "" {
		base.LLMEndpoint = applied.LLMEndpoint
	}
	if applied.LLMModel != "" {
		base.LLMModel = applied.LLMModel
	}
	if applied.LLMAPIKey != "" {
		base.LLMAPIKey = applied.LLMAPIKey
	}
	if applied.StoreURL != "" {
		base.StoreURL = applied.StoreURL
	}
	if applied.IngestBatchSize != 0 {
		base.IngestBatchSize = applied.IngestBatchSize
	}
	if applied.IngestFlushIntervalMs != 0 {
		base.IngestFlushIntervalMs = applied.IngestFlushIntervalMs
	}
	if applied.SessionTTLMin != 0 {
		base.SessionTTLMin = applied.SessionTTLMin
	}
	if applied.SessionRetainDays != 0 {
		base.SessionRetainDays = applied.SessionRetainDays
	}
	if applied.AlertSuppressSec != 0 {
		base.AlertSuppressSec = applied.AlertSuppressSec
	}
	if applied.LogLevel != "" {
		base.LogLevel = applied.LogLevel
	}
	if applied.Server.Host != "" {
		base.Server.Host = applied.Server.Host
	}
	if applied.Server.Port != 0 {
		base.Server.Port = applied.Server.Port
	}
	if applied.Ontology.Path != "" {
		base.Ontology.Path = applied.Ontology.Path
	}
}
