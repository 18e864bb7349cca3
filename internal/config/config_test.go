package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_AppliesDefaultsForOmittedFields(t *testing.T) {
	path := writeTempConfig(t, "version: 1\nllm_model: gpt-test\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.IngestBatchSize != 100 {
		t.Errorf("IngestBatchSize = %d, want 100", cfg.IngestBatchSize)
	}
	if cfg.IngestFlushIntervalMs != 2000 {
		t.Errorf("IngestFlushIntervalMs = %d, want 2000", cfg.IngestFlushIntervalMs)
	}
	if cfg.SessionTTLMin != 30 || cfg.SessionRetainDays != 7 || cfg.AlertSuppressSec != 300 {
		t.Errorf("session/alert defaults not applied: %+v", cfg)
	}
	if cfg.LLMModel != "gpt-test" {
		t.Errorf("LLMModel = %q, want gpt-test", cfg.LLMModel)
	}
}

func TestLoad_RejectsInvalidLogLevel(t *testing.T) {
	path := writeTempConfig(t, "version: 1\nlog_level: verbose\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an invalid log_level")
	}
}

func TestLoad_RejectsMissingVersion(t *testing.T) {
	path := writeTempConfig(t, "llm_model: gpt-test\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error when version is missing")
	}
}

func TestLoad_OverridesDefaultsExplicitly(t *testing.T) {
	path := writeTempConfig(t, "version: 1\ningest_batch_size: 50\nserver:\n  port: 9090\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.IngestBatchSize != 50 {
		t.Errorf("IngestBatchSize = %d, want 50", cfg.IngestBatchSize)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want default 0.0.0.0", cfg.Server.Host)
	}
}
