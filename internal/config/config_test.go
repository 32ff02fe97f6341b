package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8009" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.AIDifficulty != "normal" || cfg.IdleTTL != 30*time.Minute {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Log.MaxSizeMB != 100 || cfg.Log.MaxBackups != 3 {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
	if cfg.AIDelayScale != 1 || cfg.TurnLimit != 100 || cfg.CORSOrigins != "*" {
		t.Errorf("unexpected engine defaults: %+v", cfg)
	}
	if cfg.AccessTokenTTL != 15*time.Minute || cfg.RefreshTokenTTL != 7*24*time.Hour {
		t.Errorf("unexpected token defaults: %v / %v", cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SENGOKU_DATA_DIR", "/srv/scenario")
	t.Setenv("SENGOKU_AI_DIFFICULTY", "aggressive")
	t.Setenv("SESSION_IDLE_TTL", "90s")
	t.Setenv("LOG_FILE", "/var/log/sengoku.log")
	t.Setenv("LOG_FILE_BACKUPS", "7")
	t.Setenv("SENGOKU_AI_DELAY_SCALE", "0")
	t.Setenv("DEV_MODE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9000" || cfg.DataDir != "/srv/scenario" || cfg.AIDifficulty != "aggressive" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.IdleTTL != 90*time.Second {
		t.Errorf("IdleTTL = %v", cfg.IdleTTL)
	}
	if cfg.Log.File != "/var/log/sengoku.log" || cfg.Log.MaxBackups != 7 {
		t.Errorf("log overrides not applied: %+v", cfg.Log)
	}
	if cfg.AIDelayScale != 0 || !cfg.DevMode {
		t.Errorf("AIDelayScale = %v, DevMode = %v", cfg.AIDelayScale, cfg.DevMode)
	}
}

func TestLoadRejectsNegativeValues(t *testing.T) {
	tests := []struct{ key, value string }{
		{"SENGOKU_AI_DELAY_SCALE", "-1"},
		{"SENGOKU_TURN_LIMIT", "-5"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("SESSION_IDLE_TTL", "soon")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error for bad duration")
	}
	if !strings.Contains(err.Error(), "parse env") {
		t.Errorf("err = %v", err)
	}
}
