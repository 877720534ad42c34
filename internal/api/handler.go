package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	apperrors "github.com/devrank/devrank/internal/errors"
	"github.com/devrank/devrank/internal/language"
	"github.com/devrank/devrank/internal/leaderboard"
	"github.com/devrank/devrank/internal/service"
	"github.com/devrank/devrank/internal/utils"
)

// RankingService defines the operations the handlers depend on
type RankingService interface {
	// RankUsers scores a batch of users and updates the leaderboard
	RankUsers(ctx context.Context, usernames []string) service.RankResult

	// Projects lists a user's public repositories
	Projects(ctx context.Context, username string) ([]service.Project, error)

	// LanguageDistribution computes a user's language percentages
	LanguageDistribution(ctx context.Context, username string) (language.Percentages, error)

	// TopUsers returns the highest-scoring leaderboard entries
	TopUsers(limit int) []leaderboard.Entry
}

type Handler struct {
	svc        RankingService
	logger     *logrus.Logger
	production bool
}

func NewHandler(svc RankingService, logger *logrus.Logger, production bool) *Handler {
	return &Handler{
		svc:        svc,
		logger:     logger,
		production: production,
	}
}

// RankUsersRequest is the POST /users body
type RankUsersRequest struct {
	Usernames []string `json:"usernames" binding:"required,min=1,max=100,dive,githubusername"`
}

// LeaderboardResponse is the GET /leaderboard body
type LeaderboardResponse struct {
	Count int                 `json:"count"`
	Users []leaderboard.Entry `json:"users"`
}

// ErrorResponse is the shape of every error body
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// RankUsers godoc
// @Summary Rank GitHub users by impact score
// @Description Scores each user from their recent public activity and updates the leaderboard. Users that fail are reported separately and do not abort the batch.
// @Tags users
// @Accept json
// @Produce json
// @Param request body RankUsersRequest true "Usernames to rank"
// @Success 201 {object} service.RankResult
// @Failure 400 {object} ErrorResponse
// @Router /users [post]
func (h *Handler) RankUsers(c *gin.Context) {
	var req RankUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidationError(c, err)
		return
	}

	result := h.svc.RankUsers(c.Request.Context(), req.Usernames)
	c.JSON(http.StatusCreated, result)
}

// GetProjects godoc
// @Summary List a user's public repositories
// @Tags users
// @Produce json
// @Param username path string true "GitHub username"
// @Success 200 {array} service.Project
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /users/{username}/projects [get]
func (h *Handler) GetProjects(c *gin.Context) {
	username, ok := h.usernameParam(c)
	if !ok {
		return
	}

	projects, err := h.svc.Projects(c.Request.Context(), username)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// GetLanguages godoc
// @Summary Language distribution across a user's repositories
// @Tags users
// @Produce json
// @Param username path string true "GitHub username"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /users/{username}/languages [get]
func (h *Handler) GetLanguages(c *gin.Context) {
	username, ok := h.usernameParam(c)
	if !ok {
		return
	}

	languages, err := h.svc.LanguageDistribution(c.Request.Context(), username)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, languages)
}

// GetLeaderboard godoc
// @Summary Top ranked users
// @Tags leaderboard
// @Produce json
// @Param limit query int false "Number of users to return" default(10)
// @Success 200 {object} LeaderboardResponse
// @Failure 400 {object} ErrorResponse
// @Router /leaderboard [get]
func (h *Handler) GetLeaderboard(c *gin.Context) {
	limit := leaderboard.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	users := h.svc.TopUsers(limit)
	c.JSON(http.StatusOK, LeaderboardResponse{
		Count: len(users),
		Users: users,
	})
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) usernameParam(c *gin.Context) (string, bool) {
	username := c.Param("username")
	if !utils.IsValidUsername(username) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Validation failed",
			Details: []ValidationDetail{{
				Field:   "username",
				Message: "Invalid GitHub username format",
			}},
		})
		return "", false
	}
	return username, true
}

// ValidationDetail describes one rejected field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (h *Handler) respondValidationError(c *gin.Context, err error) {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		details := make([]ValidationDetail, 0, len(verrs))
		for _, verr := range verrs {
			details = append(details, ValidationDetail{
				Field:   verr.Field(),
				Message: validationMessage(verr),
			})
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Validation failed",
			Details: details,
		})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
}

func validationMessage(verr validator.FieldError) string {
	switch verr.Tag() {
	case "required":
		return "At least one username is required"
	case "min":
		return "At least one username is required"
	case "max":
		return "Cannot process more than 100 users at once"
	case "githubusername":
		return "Invalid GitHub username format"
	default:
		return "Invalid value"
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status := apperrors.StatusCode(err)
	if status == http.StatusInternalServerError {
		h.logger.WithError(err).WithField(requestIDKey, c.GetString(requestIDKey)).Error("Unexpected error")
		resp := ErrorResponse{Error: "Internal server error"}
		if !h.production {
			resp.Details = err.Error()
		}
		c.JSON(status, resp)
		return
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
