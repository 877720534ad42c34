package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	apperrors "github.com/devrank/devrank/internal/errors"
	"github.com/devrank/devrank/internal/metrics"
)

const (
	eventsPerPage = 50
	reposPerPage  = 100

	defaultTimeout = 30 * time.Second
)

// Client talks to the GitHub REST API. It is a thin boundary adapter:
// it translates HTTP outcomes into the application error taxonomy and
// performs no caching or retries.
type Client struct {
	client  *http.Client
	baseURL string
	logger  *logrus.Logger
}

// ClientOption allows configuring the GitHub client
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL (used by tests)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.client = httpClient
	}
}

// NewClient creates a new GitHub client. An empty token is valid and
// falls back to unauthenticated requests at GitHub's lower rate limits.
func NewClient(token string, logger *logrus.Logger, opts ...ClientOption) *Client {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
	} else {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = defaultTimeout

	client := &Client{
		client:  httpClient,
		baseURL: "https://api.github.com",
		logger:  logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// GetUserEvents returns the most recent public events for a user,
// one fixed page of up to 50 entries, most recent first.
func (c *Client) GetUserEvents(ctx context.Context, username string) ([]Event, error) {
	path := fmt.Sprintf("/users/%s/events/public?per_page=%d", username, eventsPerPage)

	var events []Event
	if err := c.get(ctx, "user_events", path, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetUserRepos returns a user's public repositories, one fixed page
// of up to 100 entries.
func (c *Client) GetUserRepos(ctx context.Context, username string) ([]Repository, error) {
	path := fmt.Sprintf("/users/%s/repos?per_page=%d&type=public", username, reposPerPage)

	var repos []Repository
	if err := c.get(ctx, "user_repos", path, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// GetRepoLanguages returns the language byte counts for one repository
func (c *Client) GetRepoLanguages(ctx context.Context, owner, repo string) (LanguageBytes, error) {
	path := fmt.Sprintf("/repos/%s/%s/languages", owner, repo)

	var languages LanguageBytes
	if err := c.get(ctx, "repo_languages", path, &languages); err != nil {
		return nil, err
	}
	return languages, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return apperrors.NewUpstreamError("failed to create request", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.GitHubRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		c.logger.WithError(err).WithField("path", path).Warn("GitHub request failed")
		return apperrors.NewUpstreamError("GitHub API request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.GitHubRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return apperrors.NewUpstreamError("failed to read GitHub response", err)
	}

	if err := c.checkStatus(resp, body); err != nil {
		metrics.GitHubRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		metrics.GitHubRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return apperrors.NewUpstreamError("failed to decode GitHub response", err)
	}

	metrics.GitHubRequestsTotal.WithLabelValues(endpoint, "success").Inc()
	return nil
}

func (c *Client) checkStatus(resp *http.Response, body []byte) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NewNotFoundError("resource not found on GitHub", nil)
	case resp.StatusCode == http.StatusForbidden && isRateLimited(resp, body):
		return apperrors.NewRateLimitError("GitHub API rate limit exceeded", nil)
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.NewUpstreamError("GitHub authentication failed", nil)
	default:
		return apperrors.NewUpstreamError(
			fmt.Sprintf("GitHub API returned status %d", resp.StatusCode), nil)
	}
}

// isRateLimited distinguishes quota exhaustion from other 403s. GitHub
// sets X-RateLimit-Remaining to 0 on primary limits and mentions the
// limit in the message body on secondary ones.
func isRateLimited(resp *http.Response, body []byte) bool {
	if resp.Header.Get("X-RateLimit-Remaining") == "0" {
		return true
	}
	return strings.Contains(strings.ToLower(string(body)), "rate limit")
}
