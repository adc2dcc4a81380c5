package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_BASE_URL is the running server, e.g. http://localhost:8080. The
	// suites are skipped when it is empty.
	BaseURL string `envconfig:"E2E_BASE_URL"`
	// E2E_DEBUG_JSON dumps every request and response body
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
	// E2E_PASSWORD is used for every account the scenarios create
	Password string `envconfig:"E2E_PASSWORD" default:"e2e-secret"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
