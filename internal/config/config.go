package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	LDAP     LDAPConfig     `yaml:"ldap"`
	Invite   InviteConfig   `yaml:"invite"`
	System   SystemConfig   `yaml:"system"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

type JWTConfig struct {
	Secret            string `yaml:"secret"`
	ExpireHour        int    `yaml:"expire_hour"`
	RefreshExpireHour int    `yaml:"refresh_expire_hour"`
}

type LDAPConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	BaseDN       string `yaml:"base_dn"`
	BindDN       string `yaml:"bind_dn"`
	BindPassword string `yaml:"bind_password"`
	UserFilter   string `yaml:"user_filter"`
	UseSSL       bool   `yaml:"use_ssl"`
}

// InviteConfig bounds invite lifetimes.
type InviteConfig struct {
	DefaultTTLHours int `yaml:"default_ttl_hours"`
	MaxTTLHours     int `yaml:"max_ttl_hours"`
}

// SystemConfig holds housekeeping settings.
type SystemConfig struct {
	LogRetentionDays  int `yaml:"log_retention_days"`
	InvitePurgeDays   int `yaml:"invite_purge_days"`    // hard-delete invites this long past expiry
	LockRowRetainDays int `yaml:"lock_row_retain_days"` // hard-delete released lock rows after this
}

var GlobalConfig *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, err
		}
		cfg = &fileCfg
	}

	cfg.applyDefaults()
	cfg.overrideFromEnv()
	GlobalConfig = cfg
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "idms.db",
		},
		JWT: JWTConfig{
			Secret:            "idms-secret-key-change-in-production",
			ExpireHour:        24,
			RefreshExpireHour: 720,
		},
		LDAP: LDAPConfig{
			Enabled:    false,
			Port:       389,
			UserFilter: "(uid=%s)",
		},
		Invite: InviteConfig{
			DefaultTTLHours: 24,
			MaxTTLHours:     720,
		},
		System: SystemConfig{
			LogRetentionDays:  30,
			InvitePurgeDays:   30,
			LockRowRetainDays: 7,
		},
	}
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == "" {
		c.Server.Port = d.Server.Port
	}
	if c.Server.Mode == "" {
		c.Server.Mode = d.Server.Mode
	}
	if c.Database.Driver == "" {
		c.Database.Driver = d.Database.Driver
	}
	if c.Database.DSN == "" {
		c.Database.DSN = d.Database.DSN
	}
	if c.JWT.Secret == "" {
		c.JWT.Secret = d.JWT.Secret
	}
	if c.JWT.ExpireHour <= 0 {
		c.JWT.ExpireHour = d.JWT.ExpireHour
	}
	if c.JWT.RefreshExpireHour <= 0 {
		c.JWT.RefreshExpireHour = d.JWT.RefreshExpireHour
	}
	if c.LDAP.Port <= 0 {
		c.LDAP.Port = d.LDAP.Port
	}
	if c.LDAP.UserFilter == "" {
		c.LDAP.UserFilter = d.LDAP.UserFilter
	}
	if c.Invite.DefaultTTLHours <= 0 {
		c.Invite.DefaultTTLHours = d.Invite.DefaultTTLHours
	}
	if c.Invite.MaxTTLHours <= 0 {
		c.Invite.MaxTTLHours = d.Invite.MaxTTLHours
	}
	if c.System.LogRetentionDays == 0 {
		c.System.LogRetentionDays = d.System.LogRetentionDays
	}
	if c.System.InvitePurgeDays == 0 {
		c.System.InvitePurgeDays = d.System.InvitePurgeDays
	}
	if c.System.LockRowRetainDays == 0 {
		c.System.LockRowRetainDays = d.System.LockRowRetainDays
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if hours := os.Getenv("INVITE_DEFAULT_TTL_HOURS"); hours != "" {
		if v, err := strconv.Atoi(hours); err == nil && v > 0 {
			c.Invite.DefaultTTLHours = v
		}
	}
}

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}
