// Package config loads runtime settings from the environment with sane
// defaults for local development.
package config

import "os"

// Config carries every tunable the binaries read.
type Config struct {
	// APIBaseURL is the REST backend.
	APIBaseURL string
	// WSEndpoint is the realtime endpoint.
	WSEndpoint string
	// WSToken authenticates the realtime connection; empty for anonymous.
	WSToken string
	// KeystoreDir is where encrypted wallets are kept.
	KeystoreDir string
	// TokenRefreshSpec is the cron spec for the token list reload.
	TokenRefreshSpec string
	// PortfolioRefreshSpec is the cron spec for the portfolio reload.
	PortfolioRefreshSpec string
	// DevServerAddr is where the mock backend listens.
	DevServerAddr string
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		APIBaseURL:           getenv("LAUNCH_API_URL", "https://launch.meme"),
		WSEndpoint:           getenv("LAUNCH_WS_URL", "wss://launch.meme/connection/websocket"),
		WSToken:              os.Getenv("LAUNCH_WS_TOKEN"),
		KeystoreDir:          getenv("LAUNCH_KEYSTORE_DIR", "configs/keystore"),
		TokenRefreshSpec:     os.Getenv("LAUNCH_TOKEN_REFRESH_SPEC"),
		PortfolioRefreshSpec: os.Getenv("LAUNCH_PORTFOLIO_REFRESH_SPEC"),
		DevServerAddr:        getenv("LAUNCH_DEVSERVER_ADDR", ":8080"),
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
