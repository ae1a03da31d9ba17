package main

import (
	"errors"
	"os"

	"jagriti-backend/lib/configutil"
	"jagriti-backend/lib/scrapers/jagriti"
	"jagriti-backend/services/casetracker"
)

type Config struct {
	// host:port the HTTP API binds to
	Listen  string                `json:"listen"`
	Debug   bool                  `json:"debug"`
	Client  jagriti.ClientOptions `json:"client"`
	Service casetracker.Options   `json:"service"`
}

// readConfig loads config.json5, falling back to JAGRITI_* environment
// variables when the file is absent.
func readConfig(path string) (Config, error) {
	config, err := configutil.ReadConfig[Config](path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{
			Listen: configutil.Env("JAGRITI_LISTEN", "127.0.0.1:8130"),
			Debug:  configutil.EnvBool("JAGRITI_DEBUG", false),
			Client: jagriti.OptionsFromEnv(),
			Service: casetracker.Options{
				EnableBrowser:       configutil.EnvBool("JAGRITI_ENABLE_BROWSER", false),
				StaticStateFallback: configutil.EnvBool("JAGRITI_STATIC_STATES", false),
				Browser:             jagriti.BrowserOptionsFromEnv(),
			},
		}, nil
	}
	if err != nil {
		return Config{}, err
	}
	if config.Listen == "" {
		config.Listen = "127.0.0.1:8130"
	}
	return config, nil
}
