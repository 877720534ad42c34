package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/devrank/devrank/internal/utils"
)

// @title DevRank API
// @version 1.0
// @description Ranks GitHub users by an impact score derived from their public activity
// @host localhost:8080
// @BasePath /
// @schemes http https

// SetupRouter configures the API routes and middleware
func SetupRouter(h *Handler, logger *logrus.Logger) *gin.Engine {
	registerUsernameValidation()

	r := gin.New()
	r.Use(RequestID(), RequestLogger(logger), Metrics(), gin.Recovery())

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", h.Health)

	r.POST("/users", h.RankUsers)
	r.GET("/users/:username/projects", h.GetProjects)
	r.GET("/users/:username/languages", h.GetLanguages)
	r.GET("/leaderboard", h.GetLeaderboard)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Route not found",
			"path":  c.Request.URL.Path,
		})
	})

	return r
}

func registerUsernameValidation() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("githubusername", func(fl validator.FieldLevel) bool {
			return utils.IsValidUsername(fl.Field().String())
		})
	}
}
