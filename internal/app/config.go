package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete terminal configuration, loadable from
// environment variables (POS_ prefix), flags, or YAML config files.
type Config struct {
	APIURL   string        `usage:"Back-office API root URL (POS_API_URL)" flag:"api-url"`
	APIToken string        `usage:"Bearer token for the API session (POS_API_TOKEN)" flag:"api-token"`
	StoreID  string        `default:"" usage:"Preselected store for this register" flag:"store-id"`
	Timeout  time.Duration `default:"0s" usage:"Per-request timeout; 0 keeps the transport default"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies fallbacks for unprefixed deployment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "POS",
		Files:     []string{"config.yaml", "/etc/pos/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyEnvFallbacks()

	if cfg.APIURL == "" {
		return nil, errors.New("API URL is required: set POS_API_URL or API_URL")
	}
	if cfg.APIToken == "" {
		return nil, errors.New("API token is required: set POS_API_TOKEN or API_TOKEN")
	}

	return &cfg, nil
}

// applyEnvFallbacks maps the unprefixed environment names used by the hosted
// back-office deployments to the POS_-prefixed configuration.
func (c *Config) applyEnvFallbacks() {
	if c.APIURL == "" {
		if v := os.Getenv("API_URL"); v != "" {
			c.APIURL = v
		}
	}
	if c.APIToken == "" {
		if v := os.Getenv("API_TOKEN"); v != "" {
			c.APIToken = v
		}
	}
}
