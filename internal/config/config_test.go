package config

import (
	"os"
	"testing"
)

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP:  HTTPConfig{Port: 0},
		Store: StoreConfig{Driver: "memory"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_UnknownStoreDriver(t *testing.T) {
	cfg := Config{
		HTTP:  HTTPConfig{Port: 8080},
		Store: StoreConfig{Driver: "postgres"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown store driver")
	}

	expected := `store.driver must be "memory" or "redis", got "postgres"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_RedisRequiresAddrs(t *testing.T) {
	cfg := Config{
		HTTP:  HTTPConfig{Port: 8080},
		Store: StoreConfig{Driver: "redis"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for redis driver without addrs")
	}
}

func TestValidate_MemoryNeedsNoAddrs(t *testing.T) {
	cfg := Config{
		HTTP:  HTTPConfig{Port: 8080},
		Store: StoreConfig{Driver: "memory"},
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 180 {
		t.Errorf("expected WriteTimeoutSec=180, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("expected store driver memory, got %q", cfg.Store.Driver)
	}
	if cfg.Store.KeyPrefix != "tenderlens:" {
		t.Errorf("expected key prefix tenderlens:, got %q", cfg.Store.KeyPrefix)
	}
	if cfg.Retrieval.TopK != 5 {
		t.Errorf("expected TopK=5, got %d", cfg.Retrieval.TopK)
	}
	if cfg.Generation.Model != "llama3.2" {
		t.Errorf("expected default model llama3.2, got %q", cfg.Generation.Model)
	}
	if cfg.Generation.TimeoutSec != 120 {
		t.Errorf("expected TimeoutSec=120, got %d", cfg.Generation.TimeoutSec)
	}
	if cfg.Generation.MaxNoticeChars != 200 {
		t.Errorf("expected MaxNoticeChars=200, got %d", cfg.Generation.MaxNoticeChars)
	}
	if cfg.Generation.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("unexpected default base url %q", cfg.Generation.BaseURL)
	}
	if len(cfg.CORS.Origins) == 0 {
		t.Error("expected default CORS origins")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TL_TEST_MODEL", "qwen2.5")

	in := []byte("model: ${TL_TEST_MODEL}\nurl: ${TL_TEST_MISSING:-http://fallback}\n")
	out := string(expandEnvVars(in))

	want := "model: qwen2.5\nurl: http://fallback\n"
	if out != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", out, want)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(dir+"/config", 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := `
http:
  port: 9090
generation:
  force_mock: true
  max_notice_chars: 150
`
	if err := os.WriteFile(dir+"/config/test.yaml", []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(wd) }()

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if !cfg.Generation.ForceMock {
		t.Error("expected force_mock=true")
	}
	if cfg.Generation.MaxNoticeChars != 150 {
		t.Errorf("expected MaxNoticeChars=150, got %d", cfg.Generation.MaxNoticeChars)
	}
	// Defaults still applied for unset fields.
	if cfg.Retrieval.TopK != 5 {
		t.Errorf("expected TopK default 5, got %d", cfg.Retrieval.TopK)
	}
}
