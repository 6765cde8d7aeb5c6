package api

import (
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"metrodash/server/config"
)

func SetupRoutes(router *gin.Engine, store Store, cfg *config.Config, logger *logrus.Logger) error {
	handler, err := NewHandler(store, cfg.Dashboard, logger)
	if err != nil {
		return err
	}

	router.Use(RequestID(), RequestLogger(handler.logger), Locale(handler.defaultLocale))

	router.GET("/", handler.DashboardPage)
	router.GET("/select", handler.Select)
	router.GET("/properties", handler.PropertiesPage)
	router.GET("/predictions", handler.PredictionsPage)
	router.GET("/about", handler.AboutPage)
	router.GET("/chart.png", handler.ChartPNG)
	router.GET("/export.xlsx", handler.ExportXLSX)

	corsCfg := cors.DefaultConfig()
	if slices.Contains(cfg.Server.AllowedOrigins, "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
	}
	corsCfg.AllowMethods = []string{"GET", "OPTIONS"}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Accept-Language", requestIDHeader)
	corsCfg.ExposeHeaders = []string{requestIDHeader}

	api := router.Group("/api", cors.New(corsCfg))
	{
		api.GET("/dashboard", handler.GetDashboard)
		api.GET("/regions", handler.GetRegions)
		api.GET("/states", handler.GetStates)
		api.GET("/years", handler.GetYears)
		api.GET("/properties", handler.GetProperties)
		api.GET("/forecast", handler.GetForecast)
		api.GET("/health", handler.Health)
	}

	router.NoRoute(func(c *gin.Context) {
		handler.renderError(c, http.StatusNotFound, "Page not found.")
	})

	return nil
}
