package app

import (
	"net/http"
	"os"

	"go.uber.org/zap"

	"locshare/internal/netmon"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home     string          // config directory, e.g. $HOME/.locshare
	RelayURL string          // relay base URL, e.g. http://127.0.0.1:8080
	HTTP     *http.Client    // optional; defaults to http.DefaultClient
	Logger   *zap.Logger     // optional; defaults to zap.NewNop()
	Notifier netmon.Notifier // optional network-down signal sink
}

// getEnv reads key from the environment with a default.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// FromEnv fills unset Config fields from the environment.
func (c Config) FromEnv() Config {
	if c.RelayURL == "" {
		c.RelayURL = getEnv("LOCSHARE_RELAY_URL", "http://127.0.0.1:8080")
	}
	if c.Home == "" {
		c.Home = os.Getenv("LOCSHARE_HOME")
	}
	return c
}
