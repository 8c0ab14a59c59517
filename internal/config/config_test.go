package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("default port = %q", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("default driver = %q", cfg.Database.Driver)
	}
	if cfg.Invite.DefaultTTLHours != 24 || cfg.Invite.MaxTTLHours != 720 {
		t.Errorf("invite defaults = %+v", cfg.Invite)
	}
	if cfg.System.LogRetentionDays != 30 {
		t.Errorf("log retention = %d", cfg.System.LogRetentionDays)
	}
}

func TestLoad_PartialFileFilled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "9000"
invite:
  default_ttl_hours: 48
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Errorf("port = %q, expected 9000", cfg.Server.Port)
	}
	if cfg.Invite.DefaultTTLHours != 48 {
		t.Errorf("invite ttl = %d, expected 48", cfg.Invite.DefaultTTLHours)
	}
	// Unset fields fall back to defaults.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("host = %q", cfg.Server.Host)
	}
	if cfg.JWT.ExpireHour != 24 {
		t.Errorf("jwt expire = %d", cfg.JWT.ExpireHour)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("INVITE_DEFAULT_TTL_HOURS", "12")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("driver = %q", cfg.Database.Driver)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("secret = %q", cfg.JWT.Secret)
	}
	if cfg.Invite.DefaultTTLHours != 12 {
		t.Errorf("invite ttl = %d", cfg.Invite.DefaultTTLHours)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Port = "8181"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Server.Port != "8181" {
		t.Errorf("port = %q after reload", loaded.Server.Port)
	}
}
