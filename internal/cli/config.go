package cli

import (
	stderrors "errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/zoomtree/pkg/errors"
	"github.com/matzehuels/zoomtree/pkg/httputil"
	"github.com/matzehuels/zoomtree/pkg/server"
	"github.com/matzehuels/zoomtree/pkg/source"
)

// Cache backends.
const (
	cacheBackendFile  = "file"
	cacheBackendRedis = "redis"
	cacheBackendNone  = "none"
)

// Config is the TOML configuration file.
//
//	[render]
//	width = 1400
//	formats = ["svg", "png"]
//
//	[cache]
//	backend = "redis"
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[mongo]
//	uri = "mongodb://localhost:27017"
type Config struct {
	Render RenderConfig       `toml:"render"`
	Serve  ServeConfig        `toml:"serve"`
	Cache  CacheConfig        `toml:"cache"`
	HTTP   HTTPConfig         `toml:"http"`
	Mongo  source.MongoConfig `toml:"mongo"`
}

// RenderConfig holds defaults for render, serve and explore.
type RenderConfig struct {
	Type     string   `toml:"type"`
	DataPath string   `toml:"data_path"`
	Width    float64  `toml:"width"`
	Height   float64  `toml:"height"`
	Scale    float64  `toml:"scale"`
	Formats  []string `toml:"formats"`
	Palette  []string `toml:"palette"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	Addr       string        `toml:"addr"`
	SessionTTL time.Duration `toml:"session_ttl"`
	MaxViews   int           `toml:"max_views"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend string      `toml:"backend"` // file (default), redis or none
	Dir     string      `toml:"dir"`
	Scope   string      `toml:"scope"` // key prefix shared by every backend
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// HTTPConfig tunes remote dataset downloads.
type HTTPConfig struct {
	Attempts int           `toml:"attempts"`
	Timeout  time.Duration `toml:"timeout"`
	MaxBytes int64         `toml:"max_bytes"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Serve: ServeConfig{Addr: server.DefaultAddr},
		Cache: CacheConfig{Backend: cacheBackendFile},
	}
}

// LoadConfig reads path over the defaults. A missing file is an error only
// if required is set.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !required && stderrors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		if stderrors.Is(err, fs.ErrNotExist) {
			return cfg, errors.Wrap(errors.ErrCodeInvalidPath, err, "config file not found: %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidInput, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "", cacheBackendFile, cacheBackendRedis, cacheBackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid cache backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == cacheBackendRedis && c.Cache.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache.redis.addr is required for the redis backend")
	}
	return nil
}

// client builds the dataset download client.
func (h HTTPConfig) client() *httputil.Client {
	c := httputil.NewClient()
	if h.Attempts > 0 {
		c.Attempts = h.Attempts
	}
	if h.Timeout > 0 {
		c.HTTP = &http.Client{Timeout: h.Timeout}
	}
	if h.MaxBytes > 0 {
		c.MaxBytes = h.MaxBytes
	}
	return c
}
