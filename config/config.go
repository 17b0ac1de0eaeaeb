package config

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
	defaultAPIPrefix          = "/api"
	defaultMetricsPath        = "/metrics"
	defaultRequestTimeout     = 10 * time.Second
	defaultConfigName         = "config"
)

// DefaultSearchDirs lists the directories searched for config.yaml, relative to the working directory.
// Explicit directories passed to Load replace this list.
var DefaultSearchDirs = []string{defaultPath, "config", "../config", "../../config"}

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		APIPrefix          string `json:"apiPrefix" yaml:"apiPrefix"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
			// RequestTimeout bounds each request's context, and with it every storage
			// call and queued hash computation the request makes.
			RequestTimeout time.Duration `json:"requestTimeout" yaml:"requestTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	Migration *MigrationConfig `json:"migration" yaml:"migration"`

	// SecretKey.Access signs and verifies session tokens. Required.
	SecretKey struct {
		Access string `json:"access" yaml:"access"`
	} `json:"secretKey" yaml:"secretKey"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	PasswordStrength *PasswordStrengthConfig `json:"passwordStrength" yaml:"passwordStrength"`

	Metrics *MetricsConfig `json:"metrics" yaml:"metrics"`
}

// MigrationConfig controls schema migrations.
type MigrationConfig struct {
	// AutoMigrate applies pending migrations when the server starts.
	AutoMigrate bool `json:"autoMigrate" yaml:"autoMigrate"`
}

// AuthConfig defines authentication-related configuration
type AuthConfig struct {
	Argon2 Argon2Config `json:"argon2" yaml:"argon2"`

	// MaxConcurrentHashes caps simultaneous argon2 computations (memory bound).
	MaxConcurrentHashes int `json:"maxConcurrentHashes" yaml:"maxConcurrentHashes"`

	// UniformLoginErrors reports unknown emails and corrupt hashes as invalid credentials.
	UniformLoginErrors bool `json:"uniformLoginErrors" yaml:"uniformLoginErrors"`
}

// Argon2Config holds the argon2id work factor used for new hashes.
type Argon2Config struct {
	Memory      uint32 `json:"memory" yaml:"memory"` // KiB
	Iterations  uint32 `json:"iterations" yaml:"iterations"`
	Parallelism uint8  `json:"parallelism" yaml:"parallelism"`
	SaltLength  uint32 `json:"saltLength" yaml:"saltLength"`
	KeyLength   uint32 `json:"keyLength" yaml:"keyLength"`
}

// PasswordStrengthConfig defines password strength requirements
type PasswordStrengthConfig struct {
	MinLength        int  `json:"minLength" yaml:"minLength"`
	RequireUppercase bool `json:"requireUppercase" yaml:"requireUppercase"`
	RequireLowercase bool `json:"requireLowercase" yaml:"requireLowercase"`
	RequireNumbers   bool `json:"requireNumbers" yaml:"requireNumbers"`
	RequireSpecial   bool `json:"requireSpecial" yaml:"requireSpecial"`
	MaxLength        int  `json:"maxLength" yaml:"maxLength"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// MetricsConfig controls the Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path" yaml:"path"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		searchPaths = searchPaths[:0]
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			if !filepath.IsAbs(path) {
				path = filepath.Join(pwd, path)
			}
			searchPaths = append(searchPaths, path)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: POSTGRES_SSLMODE -> postgres.sslMode (not postgres.sslmode)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	return Load(DefaultSearchDirs...)
}

// Load reads config.yaml from the given directories (plus the working directory),
// applies environment overrides and defaults, and validates required settings.
func Load(dirs ...string) (*Config, error) {
	cfg, err := LoadWithEnv[Config](defaultConfigName, dirs...)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	// Build replicas from environment variables (POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, etc.)
	cfg.Postgres.Replicas = buildReplicasFromEnv()

	return cfg, nil
}

// Validate reports missing settings the process cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SecretKey.Access) == "" {
		return errors.New("secretKey.access (token signing secret) must be configured")
	}
	if c.Postgres == nil {
		return errors.New("postgres connection must be configured")
	}
	if strings.TrimSpace(masterHost(c.Postgres)) == "" {
		return errors.New("postgres.master.host must be configured")
	}

	return nil
}

// RequestTimeout returns the configured per-request deadline or the default.
func (c *Config) RequestTimeout() time.Duration {
	if c.HTTP.Timeouts.RequestTimeout > 0 {
		return c.HTTP.Timeouts.RequestTimeout
	}

	return defaultRequestTimeout
}

// masterHost reads postgres.master.host whether the master block is held by value or pointer.
func masterHost(conn *postgres.DBConn) string {
	master := structField(reflect.ValueOf(conn), "master")
	host := structField(master, "host")
	if host.Kind() != reflect.String {
		return ""
	}

	return host.String()
}

// structField finds the field decoded from key, matching tags first and then the
// field name case-insensitively, as the config decoder does.
func structField(v reflect.Value, key string) reflect.Value {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}
	}

	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		for _, tag := range []string{"mapstructure", "yaml", "json"} {
			if name, _, _ := strings.Cut(field.Tag.Get(tag), ","); strings.EqualFold(name, key) {
				return reflect.Indirect(v.Field(i))
			}
		}
		if strings.EqualFold(field.Name, key) {
			return reflect.Indirect(v.Field(i))
		}
	}

	return reflect.Value{}
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if cfg.HTTP.APIPrefix == "" {
		cfg.HTTP.APIPrefix = defaultAPIPrefix
	}
	if cfg.HTTP.Timeouts.RequestTimeout <= 0 {
		cfg.HTTP.Timeouts.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}
	cfg.Auth.Argon2 = cfg.Auth.Argon2.WithDefaults()
	if cfg.Auth.MaxConcurrentHashes <= 0 {
		cfg.Auth.MaxConcurrentHashes = runtime.NumCPU()
	}
	if cfg.PasswordStrength == nil {
		cfg.PasswordStrength = &PasswordStrengthConfig{MinLength: 8, MaxLength: 128}
	}
	if cfg.Metrics != nil && cfg.Metrics.Path == "" {
		cfg.Metrics.Path = defaultMetricsPath
	}
}

// WithDefaults fills zero fields with the OWASP-recommended argon2id parameters.
func (a Argon2Config) WithDefaults() Argon2Config {
	if a.Memory == 0 {
		a.Memory = 64 * 1024
	}
	if a.Iterations == 0 {
		a.Iterations = 1
	}
	if a.Parallelism == 0 {
		a.Parallelism = 4
	}
	if a.SaltLength == 0 {
		a.SaltLength = 16
	}
	if a.KeyLength == 0 {
		a.KeyLength = 32
	}

	return a
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
// Example: POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, POSTGRES_REPLICAS_0_USERNAME, POSTGRES_REPLICAS_0_PASSWORD
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			// No more replicas or incomplete configuration.
			break
		}

		replica := postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		}

		replicas = append(replicas, replica)
	}

	return replicas
}
