package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type CORSConfig struct {
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
	ExposeHeaders    []string `mapstructure:"expose_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

// UpstreamConfig describes the completion server the bridge forwards to.
type UpstreamConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	CompletionPath string        `mapstructure:"completion_path"`
	APIKey         string        `mapstructure:"api_key"`
	Protocol       string        `mapstructure:"protocol"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	// ResponseField, when set, is probed before the built-in extraction
	// strategies. The upstream's completion-text field name is not fixed,
	// so it has to stay configurable.
	ResponseField string `mapstructure:"response_field"`
}

type DefaultsConfig struct {
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float32 `mapstructure:"temperature"`
}

const (
	ProtocolGeneric = "generic"
	ProtocolOpenAI  = "openai"
)

// LoadConfig reads the yaml config file and overlays environment variables
// (BRIDGE_ prefixed, dots replaced with underscores). Either path may be
// empty or point at a missing file; environment-only deployments are supported.
func LoadConfig(configPath string, envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	v := viper.New()
	v.SetDefault("server.port", "8080")
	v.SetDefault("upstream.completion_path", "/v1/completions")
	v.SetDefault("upstream.protocol", ProtocolGeneric)
	v.SetDefault("upstream.timeout", "60s")
	v.SetDefault("upstream.max_retries", 0)
	v.SetDefault("defaults.model", "smallcloud/Refact-1_6B-fim")
	v.SetDefault("defaults.max_tokens", 200)
	v.SetDefault("defaults.temperature", 0.7)

	v.SetEnvPrefix("BRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Keys without defaults are invisible to Unmarshal unless bound.
	for _, key := range []string{"upstream.base_url", "upstream.api_key", "upstream.response_field"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Upstream.BaseURL) == "" {
		return errors.New("upstream base URL is required (upstream.base_url or BRIDGE_UPSTREAM_BASE_URL)")
	}
	if c.Upstream.Protocol != ProtocolGeneric && c.Upstream.Protocol != ProtocolOpenAI {
		return errors.New("upstream protocol must be \"generic\" or \"openai\"")
	}
	if c.Upstream.Timeout <= 0 {
		return errors.New("upstream timeout must be positive")
	}
	if c.Upstream.MaxRetries < 0 || c.Upstream.MaxRetries > 1 {
		return errors.New("upstream max_retries must be 0 or 1")
	}
	return nil
}
