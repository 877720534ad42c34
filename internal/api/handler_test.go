package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/devrank/devrank/internal/errors"
	"github.com/devrank/devrank/internal/language"
	"github.com/devrank/devrank/internal/leaderboard"
	"github.com/devrank/devrank/internal/service"
)

// MockRankingService is a mock implementation of RankingService
type MockRankingService struct {
	mock.Mock
}

func (m *MockRankingService) RankUsers(ctx context.Context, usernames []string) service.RankResult {
	args := m.Called(ctx, usernames)
	return args.Get(0).(service.RankResult)
}

func (m *MockRankingService) Projects(ctx context.Context, username string) ([]service.Project, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.Project), args.Error(1)
}

func (m *MockRankingService) LanguageDistribution(ctx context.Context, username string) (language.Percentages, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(language.Percentages), args.Error(1)
}

func (m *MockRankingService) TopUsers(limit int) []leaderboard.Entry {
	args := m.Called(limit)
	return args.Get(0).([]leaderboard.Entry)
}

func setupTestRouter(t *testing.T) (*gin.Engine, *MockRankingService) {
	gin.SetMode(gin.TestMode)

	mockSvc := new(MockRankingService)
	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil)) // Discard logs during tests

	handler := NewHandler(mockSvc, logger, false)
	return SetupRouter(handler, logger), mockSvc
}

func performRequest(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRankUsers(t *testing.T) {
	t.Run("returns 201 with leaderboard", func(t *testing.T) {
		router, mockSvc := setupTestRouter(t)

		mockSvc.On("RankUsers", mock.Anything, []string{"torvalds", "octocat"}).
			Return(service.RankResult{
				Leaderboard: []service.RankedUser{
					{Username: "torvalds", Score: 150},
					{Username: "octocat", Score: 42},
				},
			})

		body := []byte(`{"usernames": ["torvalds", "octocat"]}`)
		w := performRequest(router, "POST", "/users", body)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp, "leaderboard")
		// failed is omitted when empty
		assert.NotContains(t, resp, "failed")
	})

	t.Run("includes failed users", func(t *testing.T) {
		router, mockSvc := setupTestRouter(t)

		mockSvc.On("RankUsers", mock.Anything, mock.Anything).
			Return(service.RankResult{
				Leaderboard: []service.RankedUser{{Username: "octocat", Score: 42}},
				Failed: []service.FailedUser{
					{Username: "ghost", Error: "resource not found on GitHub"},
				},
			})

		body := []byte(`{"usernames": ["octocat", "ghost"]}`)
		w := performRequest(router, "POST", "/users", body)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp service.RankResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Failed, 1)
		assert.Equal(t, "ghost", resp.Failed[0].Username)
	})

	t.Run("rejects empty username list", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w := performRequest(router, "POST", "/users", []byte(`{"usernames": []}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Validation failed", resp.Error)
	})

	t.Run("rejects invalid handles", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		for _, username := range []string{"-leading", "trailing-", "has space", "way-too-long-username-far-beyond-the-39-character-limit"} {
			body, _ := json.Marshal(map[string][]string{"usernames": {username}})
			w := performRequest(router, "POST", "/users", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, "username %q should be rejected", username)
		}
	})

	t.Run("rejects missing body", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w := performRequest(router, "POST", "/users", []byte(`{}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetProjects(t *testing.T) {
	t.Run("returns project list", func(t *testing.T) {
		router, mockSvc := setupTestRouter(t)

		lang := "Go"
		mockSvc.On("Projects", mock.Anything, "octocat").Return([]service.Project{
			{Name: "hello-world", StargazersCount: 80, PrimaryLanguage: &lang},
			{Name: "notes", StargazersCount: 3},
		}, nil)

		w := performRequest(router, "GET", "/users/octocat/projects", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var projects []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &projects))
		require.Len(t, projects, 2)
		assert.Equal(t, "hello-world", projects[0]["name"])
		assert.Equal(t, float64(80), projects[0]["stargazers_count"])
		assert.Nil(t, projects[1]["primary_language"])
	})

	t.Run("user not found", func(t *testing.T) {
		router, mockSvc := setupTestRouter(t)

		mockSvc.On("Projects", mock.Anything, "ghost").
			Return(nil, apperrors.NewNotFoundError("resource not found on GitHub", nil))

		w := performRequest(router, "GET", "/users/ghost/projects", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rate limited", func(t *testing.T) {
		router, mockSvc := setupTestRouter(t)

		mockSvc.On("Projects", mock.Anything, "octocat").
			Return(nil, apperrors.NewRateLimitError("GitHub API rate limit exceeded", nil))

		w := performRequest(router, "GET", "/users/octocat/projects", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("upstream failure is a 500", func(t *testing.T) {
		router, mockSvc := setupTestRouter(t)

		mockSvc.On("Projects", mock.Anything, "octocat").
			Return(nil, apperrors.NewUpstreamError("GitHub API returned status 502", nil))

		w := performRequest(router, "GET", "/users/octocat/projects", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Internal server error", resp.Error)
	})

	t.Run("invalid username in path", func(t *testing.T) {
		router, mockSvc := setupTestRouter(t)

		w := performRequest(router, "GET", "/users/-bad-/projects", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockSvc.AssertNotCalled(t, "Projects", mock.Anything, mock.Anything)
	})
}

func TestGetLanguages(t *testing.T) {
	router, mockSvc := setupTestRouter(t)

	mockSvc.On("LanguageDistribution", mock.Anything, "octocat").
		Return(language.Percentages{"Go": "70.00%", "Rust": "30.00%"}, nil)

	w := performRequest(router, "GET", "/users/octocat/languages", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "70.00%", resp["Go"])
	assert.Equal(t, "30.00%", resp["Rust"])
}

func TestGetLeaderboard(t *testing.T) {
	t.Run("default limit", func(t *testing.T) {
		router, mockSvc := setupTestRouter(t)

		mockSvc.On("TopUsers", leaderboard.DefaultLimit).Return([]leaderboard.Entry{
			{Username: "torvalds", Score: 150},
			{Username: "octocat", Score: 42},
		})

		w := performRequest(router, "GET", "/leaderboard", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp LeaderboardResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Count)
		require.Len(t, resp.Users, 2)
		assert.Equal(t, "torvalds", resp.Users[0].Username)
	})

	t.Run("explicit limit", func(t *testing.T) {
		router, mockSvc := setupTestRouter(t)

		mockSvc.On("TopUsers", 3).Return([]leaderboard.Entry{})

		w := performRequest(router, "GET", "/leaderboard?limit=3", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertCalled(t, "TopUsers", 3)
	})

	t.Run("invalid limit", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w := performRequest(router, "GET", "/leaderboard?limit=abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = performRequest(router, "GET", "/leaderboard?limit=0", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUnknownRoute(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := performRequest(router, "GET", "/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Route not found", resp["error"])
	assert.Equal(t, "/nope", resp["path"])
}

func TestHealth(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := performRequest(router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDHeader(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := performRequest(router, "GET", "/health", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
