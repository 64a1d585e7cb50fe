// Package config loads the ResearchFlow configuration from defaults, an
// optional YAML file, and environment variable overrides, in that order.
//
// Usage:
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("config.yaml").
//	    WithEnvPrefix("RESEARCHFLOW").
//	    Load()
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/BaSui01/researchflow/llm/providers/groq"
	"github.com/BaSui01/researchflow/search"
)

// Config is the complete ResearchFlow configuration.
type Config struct {
	// Tavily configures the search adapter.
	Tavily search.Config `yaml:"tavily"`

	// Groq configures the text-generation adapter.
	Groq groq.Config `yaml:"groq"`

	// Pipeline tunes the research pipeline itself.
	Pipeline PipelineConfig `yaml:"pipeline"`

	// Cache configures the optional Redis search-result cache.
	Cache CacheConfig `yaml:"cache"`

	// Log configures logging.
	Log LogConfig `yaml:"log"`
}

// PipelineConfig tunes pipeline behavior.
type PipelineConfig struct {
	// ContextBudget caps the research context tokens in the draft prompt.
	ContextBudget int `yaml:"context_budget"`
}

// CacheConfig configures the search-result cache.
type CacheConfig struct {
	Enabled       bool          `yaml:"enabled"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `yaml:"ttl"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Development switches zap to its development config.
	Development bool `yaml:"development"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Tavily: search.Config{
			MaxResults:    5,
			SearchDepth:   "basic",
			Timeout:       15 * time.Second,
			RatePerMinute: 30,
		},
		Groq: groq.Config{
			Model:   "mixtral-8x7b-32768",
			Timeout: 60 * time.Second,
		},
		Pipeline: PipelineConfig{ContextBudget: 6000},
		Cache: CacheConfig{
			RedisAddr: "localhost:6379",
			TTL:       30 * time.Minute,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Validate checks that the collaborator credentials are present.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Tavily.APIKey) == "" {
		return fmt.Errorf("tavily api_key is required")
	}
	if strings.TrimSpace(c.Groq.APIKey) == "" {
		return fmt.Errorf("groq api_key is required")
	}
	return nil
}

// Loader builds a Config from defaults, file, and environment.
type Loader struct {
	configPath string
	envPrefix  string
}

// NewLoader creates a loader with the default env prefix.
func NewLoader() *Loader {
	return &Loader{envPrefix: "RESEARCHFLOW"}
}

// WithConfigPath sets the YAML file to load. An empty path skips the file.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix sets the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Load resolves the configuration: defaults, then YAML file, then env.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	if l.configPath != "" {
		data, err := os.ReadFile(l.configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnv(reflect.ValueOf(cfg).Elem(), l.envPrefix); err != nil {
		return nil, fmt.Errorf("apply env overrides: %w", err)
	}

	return cfg, nil
}

// applyEnv walks the config struct and overrides fields from environment
// variables named <prefix>_<FIELD_PATH>, where the path segments are the
// yaml tag names uppercased (e.g. RESEARCHFLOW_TAVILY_API_KEY).
func applyEnv(v reflect.Value, prefix string) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := strings.Split(field.Tag.Get("yaml"), ",")[0]
		if tag == "" || tag == "-" {
			tag = strings.ToLower(field.Name)
		}
		key := prefix + "_" + strings.ToUpper(tag)

		fv := v.Field(i)
		if fv.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Duration(0)) {
			if err := applyEnv(fv, key); err != nil {
				return err
			}
			continue
		}

		raw, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		if err := setField(fv, raw); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func setField(fv reflect.Value, raw string) error {
	switch fv.Interface().(type) {
	case time.Duration:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		fv.SetInt(int64(d))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		fv.SetFloat(f)
	default:
		return fmt.Errorf("unsupported field kind: %s", fv.Kind())
	}
	return nil
}
