package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | prod
		Env      string `yaml:"env"`
		LogLevel string `yaml:"log_level"`
		Name     string `yaml:"name"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Storage struct {
		// memory | postgres
		Driver   string `yaml:"driver"`
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxConns        int    `yaml:"max_conns"`
			MinConns        int    `yaml:"min_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		// memory | redis
		Kind  string `yaml:"kind"`
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	JWT struct {
		// Clave simétrica de firma. Obligatoria (env JWT_SECRET_KEY).
		SecretKey string `yaml:"secret_key"`
		// HS256 | HS384 | HS512
		Algorithm string `yaml:"algorithm"`
		// Minutos de vida del access token. Default 30.
		AccessTTLMinutes int `yaml:"access_ttl_minutes"`
		// Días de vida del refresh token. Default 7.
		RefreshTTLDays int `yaml:"refresh_ttl_days"`
		// Minutos de vida del token de SSO launch. Default 5.
		SSOTTLMinutes int `yaml:"sso_ttl_minutes"`
	} `yaml:"jwt"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Login   struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`
	} `yaml:"rate"`

	Bootstrap struct {
		AdminEmail    string `yaml:"admin_email"`
		AdminPassword string `yaml:"admin_password"`
		AdminName     string `yaml:"admin_name"`
	} `yaml:"bootstrap"`
}

// Load lee el YAML (path vacío ⇒ solo defaults + env), aplica defaults,
// pisa con variables de entorno y valida.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.Name == "" {
		c.App.Name = "idocracy"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "2m"
	}
	if c.JWT.Algorithm == "" {
		c.JWT.Algorithm = "HS256"
	}
	if c.JWT.AccessTTLMinutes == 0 {
		c.JWT.AccessTTLMinutes = 30
	}
	if c.JWT.RefreshTTLDays == 0 {
		c.JWT.RefreshTTLDays = 7
	}
	if c.JWT.SSOTTLMinutes == 0 {
		c.JWT.SSOTTLMinutes = 5
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "1m"
	}

	c.applyEnvOverrides()

	// validate string durations
	if c.Storage.Postgres.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(c.Storage.Postgres.ConnMaxLifetime); err != nil {
			return nil, err
		}
	}
	if _, err := time.ParseDuration(c.Rate.Login.Window); err != nil {
		return nil, err
	}
	if _, err := time.ParseDuration(c.Cache.Memory.DefaultTTL); err != nil {
		return nil, err
	}

	if c.JWT.SecretKey == "" {
		return nil, fmt.Errorf("config: jwt.secret_key vacío (setear JWT_SECRET_KEY)")
	}
	if c.Storage.Driver == "postgres" && c.Storage.DSN == "" {
		return nil, fmt.Errorf("config: storage.dsn requerido con driver postgres")
	}

	return &c, nil
}

// AccessTTL devuelve el TTL del access token como duración.
func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.JWT.AccessTTLMinutes) * time.Minute
}

// RefreshTTL devuelve el TTL del refresh token como duración.
func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.JWT.RefreshTTLDays) * 24 * time.Hour
}

// SSOTTL devuelve el TTL del token de SSO launch como duración.
func (c *Config) SSOTTL() time.Duration {
	return time.Duration(c.JWT.SSOTTLMinutes) * time.Minute
}

// LoginRateWindow devuelve la ventana del rate limit de login.
func (c *Config) LoginRateWindow() time.Duration {
	d, _ := time.ParseDuration(c.Rate.Login.Window)
	return d
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.App.LogLevel = v
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = v
	}
	if v, ok := getEnvStr("DATABASE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("JWT_SECRET_KEY"); ok {
		c.JWT.SecretKey = v
	}
	if v, ok := getEnvStr("JWT_ALGORITHM"); ok {
		c.JWT.Algorithm = v
	}
	if v, ok := getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES"); ok {
		c.JWT.AccessTTLMinutes = v
	}
	if v, ok := getEnvInt("REFRESH_TOKEN_EXPIRE_DAYS"); ok {
		c.JWT.RefreshTTLDays = v
	}
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvStr("BOOTSTRAP_ADMIN_EMAIL"); ok {
		c.Bootstrap.AdminEmail = v
	}
	if v, ok := getEnvStr("BOOTSTRAP_ADMIN_PASSWORD"); ok {
		c.Bootstrap.AdminPassword = v
	}
	if v, ok := getEnvStr("BOOTSTRAP_ADMIN_NAME"); ok {
		c.Bootstrap.AdminName = v
	}
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}
