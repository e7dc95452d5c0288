package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error without jwt secret")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected 24h token ttl, got %v", cfg.TokenTTL)
	}
	if cfg.KafkaTopic != "message-sent" {
		t.Fatalf("expected default topic, got %q", cfg.KafkaTopic)
	}
	if cfg.WriteWait != 10*time.Second || cfg.PongWait != 60*time.Second {
		t.Fatalf("unexpected websocket timings: %v / %v", cfg.WriteWait, cfg.PongWait)
	}
}

func TestLoad_FromFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
port: "9090"
jwt_secret: from-file
mongo_db: messaging
redis_addr: localhost:6379
token_ttl_hours: 2
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Port != "9090" || cfg.JWTSecret != "from-file" || cfg.MongoDB != "messaging" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("redis addr not applied: %q", cfg.RedisAddr)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Fatalf("expected 2h ttl, got %v", cfg.TokenTTL)
	}
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Fatalf("missing file must fall back to defaults, got: %v", err)
	}
}
