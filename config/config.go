package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/benedict-erwin/auth-gateway/pkg/auth"
)

// Service roles served by the binary
const (
	ModeAuth    = "auth-service"
	ModeGateway = "gateway"
)

// EnvPrefix is prepended to every environment override, e.g. AUTHGW_JWT_SECRET
const EnvPrefix = "AUTHGW"

type (
	app struct {
		Name     string `json:"name" mapstructure:"name"`
		Env      string `json:"env" mapstructure:"env"`
		Port     int    `json:"port" mapstructure:"port"`
		Timezone string `json:"timezone" mapstructure:"timezone"`
		Version  string `json:"version" mapstructure:"version"`
		LogLevel string `json:"log_level" mapstructure:"log_level"`
	}

	// JWT holds the token protocol settings shared by the issuer and every verifier
	JWT struct {
		Secret           string        `json:"secret" mapstructure:"secret"`
		TTL              time.Duration `json:"ttl" mapstructure:"ttl"`
		Issuer           string        `json:"issuer" mapstructure:"issuer"`
		Audience         string        `json:"audience" mapstructure:"audience"`
		ClockSkewSeconds int           `json:"clock_skew_seconds" mapstructure:"clock_skew_seconds"`
	}

	security struct {
		BypassPaths []string `json:"bypass_paths" mapstructure:"bypass_paths"`
	}

	users struct {
		Store      string        `json:"store" mapstructure:"store"` // "redis" or "memory"
		CacheSize  int           `json:"cache_size" mapstructure:"cache_size"`
		CacheTTL   time.Duration `json:"cache_ttl" mapstructure:"cache_ttl"`
		BcryptCost int           `json:"bcrypt_cost" mapstructure:"bcrypt_cost"`
	}

	redis struct {
		Mode     string `json:"mode" mapstructure:"mode"` // "single", "cluster"
		Host     string `json:"host" mapstructure:"host"`
		Port     int    `json:"port" mapstructure:"port"`
		Password string `json:"password" mapstructure:"password"`
		DB       int    `json:"db" mapstructure:"db"`
		Cluster  struct {
			Nodes    []string `json:"nodes" mapstructure:"nodes"`
			Password string   `json:"password" mapstructure:"password"`
		} `json:"cluster" mapstructure:"cluster"`
	}

	asynq struct {
		Enabled     bool `json:"enabled" mapstructure:"enabled"`
		Concurrency int  `json:"concurrency" mapstructure:"concurrency"`
		DB          int  `json:"db" mapstructure:"db"`
		PoolSize    int  `json:"pool_size" mapstructure:"pool_size"`
	}

	influxDb struct {
		Enabled bool `json:"enabled" mapstructure:"enabled"`
		// Version selection - determines which InfluxDB implementation to use
		Version    string        `json:"version" mapstructure:"version"` // "v2-oss" or "v3-core"
		URL        string        `json:"url" mapstructure:"url"`
		Org        string        `json:"org,omitempty" mapstructure:"org"` // v2-oss only
		Token      string        `json:"token" mapstructure:"token"`
		Bucket     string        `json:"bucket" mapstructure:"bucket"`
		AuthScheme string        `json:"auth_scheme,omitempty" mapstructure:"auth_scheme"` // v3-core only
		Timeout    time.Duration `json:"timeout" mapstructure:"timeout"`
	}

	geoip struct {
		Enabled   bool          `json:"enabled" mapstructure:"enabled"`
		CityDB    string        `json:"city_db" mapstructure:"city_db"`
		ASNDB     string        `json:"asn_db" mapstructure:"asn_db"`
		CacheSize int           `json:"cache_size" mapstructure:"cache_size"`
		CacheTTL  time.Duration `json:"cache_ttl" mapstructure:"cache_ttl"`
	}

	gateway struct {
		Upstreams []string      `json:"upstreams" mapstructure:"upstreams"`
		Timeout   time.Duration `json:"timeout" mapstructure:"timeout"`
	}

	Config struct {
		App      app      `json:"app" mapstructure:"app"`
		JWT      JWT      `json:"jwt" mapstructure:"jwt"`
		Security security `json:"security" mapstructure:"security"`
		Users    users    `json:"users" mapstructure:"users"`
		Redis    redis    `json:"redis" mapstructure:"redis"`
		Asynq    asynq    `json:"asynq" mapstructure:"asynq"`
		InfluxDB influxDb `json:"influxdb" mapstructure:"influxdb"`
		GeoIP    geoip    `json:"geoip" mapstructure:"geoip"`
		Gateway  gateway  `json:"gateway" mapstructure:"gateway"`
	}

	// RedisConfig is an alias for the internal redis struct for external access
	RedisConfig = redis

	// InfluxDBConfig is an alias for the internal influxDb struct for external access
	InfluxDBConfig = influxDb

	// GeoIPConfig is an alias for the internal geoip struct for external access
	GeoIPConfig = geoip
)

var cfg *Config

// Init loads configuration from the .config file in the working directory and the environment
func Init() error {
	loaded, err := Load("")
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// Load reads configuration from path (or ./.config.json when empty), applies
// AUTHGW_* environment overrides and validates the result.
// A missing config file is not an error: defaults and environment are enough.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".config")
		v.SetConfigType("json")
		v.AddConfigPath("./")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	loaded := &Config{}
	if err := v.Unmarshal(loaded); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := loaded.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return loaded, nil
}

// setDefaults registers every key so environment overrides resolve without a config file
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "auth-gateway")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.timezone", "UTC")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("jwt.issuer", "auth-service")
	v.SetDefault("jwt.audience", "gateway")
	v.SetDefault("jwt.clock_skew_seconds", 60)

	v.SetDefault("security.bypass_paths", []string{
		"/auth/register",
		"/auth/login",
		"/health/*",
	})

	v.SetDefault("users.store", "redis")
	v.SetDefault("users.cache_size", 1024)
	v.SetDefault("users.cache_ttl", time.Minute)
	v.SetDefault("users.bcrypt_cost", 10)

	v.SetDefault("redis.mode", "single")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cluster.nodes", []string{})
	v.SetDefault("redis.cluster.password", "")

	v.SetDefault("asynq.enabled", false)
	v.SetDefault("asynq.concurrency", 4)
	v.SetDefault("asynq.db", 0)
	v.SetDefault("asynq.pool_size", 10)

	v.SetDefault("influxdb.enabled", false)
	v.SetDefault("influxdb.version", "v2-oss")
	v.SetDefault("influxdb.url", "http://localhost:8086")
	v.SetDefault("influxdb.org", "")
	v.SetDefault("influxdb.token", "")
	v.SetDefault("influxdb.bucket", "auth_events")
	v.SetDefault("influxdb.auth_scheme", "")
	v.SetDefault("influxdb.timeout", 5*time.Second)

	v.SetDefault("geoip.enabled", false)
	v.SetDefault("geoip.city_db", "./storage/geoip/GeoLite2-City.mmdb")
	v.SetDefault("geoip.asn_db", "")
	v.SetDefault("geoip.cache_size", 4096)
	v.SetDefault("geoip.cache_ttl", time.Hour)

	v.SetDefault("gateway.upstreams", []string{"http://localhost:8081"})
	v.SetDefault("gateway.timeout", 10*time.Second)
}

// Validate checks the settings that must be right before the process starts serving
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid app.port: %d", c.App.Port)
	}
	if err := c.JWT.validate(); err != nil {
		return err
	}
	switch c.Users.Store {
	case "redis", "memory":
	default:
		return fmt.Errorf("unsupported users.store: %q", c.Users.Store)
	}
	return nil
}

// validate applies the token protocol rules owned by pkg/auth
func (j JWT) validate() error {
	if err := j.AuthConfig().Validate(); err != nil {
		return fmt.Errorf("jwt: %w", err)
	}
	return nil
}

// AuthConfig converts the JWT section into the value object consumed by pkg/auth
func (j JWT) AuthConfig() auth.Config {
	return auth.Config{
		SigningKey: []byte(j.Secret),
		TTL:        j.TTL,
		Issuer:     j.Issuer,
		Audience:   j.Audience,
		ClockSkew:  time.Duration(j.ClockSkewSeconds) * time.Second,
	}
}

// Get returns the current configuration instance
func Get() *Config {
	return cfg
}

// Set replaces the current configuration instance (used by tests and tooling)
func Set(c *Config) {
	cfg = c
}
