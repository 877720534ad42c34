package config

import "os"

const (
	// DefaultGitHubAPIBaseURL is the public GitHub REST API endpoint
	DefaultGitHubAPIBaseURL = "https://api.github.com"

	// EnvProduction suppresses error details in API responses
	EnvProduction = "production"
)

type Config struct {
	Port             string
	Env              string
	GitHubToken      string
	GitHubAPIBaseURL string
}

func Load() (*Config, error) {
	return &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		GitHubToken:      getEnv("GITHUB_TOKEN", ""),
		GitHubAPIBaseURL: getEnv("GITHUB_API_BASE_URL", DefaultGitHubAPIBaseURL),
	}, nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
