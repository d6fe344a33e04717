package api

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/lukeperry/ssu-career-connect/internal/metrics"
	log "github.com/sirupsen/logrus"
)

func init() {
	// Report validation failures by json name so they match the request body.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

func NewRouter(handler *MatchHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), loggingMiddleware(), metricsMiddleware())

	router.GET("/health", handler.Health)
	handler.RegisterRoutes(router.Group("/api/v1"))

	return router
}

func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"client_ip": c.ClientIP(),
			"status":    c.Writer.Status(),
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"duration":  time.Since(start),
		})
		if c.Writer.Status() >= 400 {
			entry.Warn("HTTP request failed")
		} else {
			entry.Debug("HTTP request")
		}
	}
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsCounter.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
