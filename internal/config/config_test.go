package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITHUB_API_BASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Empty(t, cfg.GitHubToken)
	assert.Equal(t, DefaultGitHubAPIBaseURL, cfg.GitHubAPIBaseURL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("ENV", "production")
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("GITHUB_API_BASE_URL", "https://github.example.com/api")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "ghp_test", cfg.GitHubToken)
	assert.Equal(t, "https://github.example.com/api", cfg.GitHubAPIBaseURL)
	assert.True(t, cfg.IsProduction())
}
