package api

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"metrodash/server/config"
	"metrodash/server/internal/dashboard"
	"metrodash/server/internal/forecast"
	"metrodash/server/internal/locale"
	"metrodash/server/internal/viewstate"
)

// maxForecastMonths caps the months query parameter of the forecast API.
const maxForecastMonths = 120

// Store is everything the handlers read from the database.
type Store interface {
	dashboard.Store
	Ping(ctx context.Context) error
}

type Handler struct {
	store         Store
	service       *dashboard.Service
	logger        *logrus.Logger
	cfg           config.DashboardConfig
	defaultLocale language.Tag
	pages         map[string]*template.Template
}

func NewHandler(store Store, cfg config.DashboardConfig, logger *logrus.Logger) (*Handler, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	defaultLocale, ok := locale.Parse(cfg.DefaultLocale)
	if !ok {
		logger.WithField("locale", cfg.DefaultLocale).Warn("Unsupported default locale, using en-US")
	}

	return &Handler{
		store:         store,
		service:       dashboard.NewService(store, logger),
		logger:        logger,
		cfg:           cfg,
		defaultLocale: defaultLocale,
		pages:         pages,
	}, nil
}

func (h *Handler) lang(c *gin.Context) language.Tag {
	return requestLocale(c, h.defaultLocale)
}

func (h *Handler) GetDashboard(c *gin.Context) {
	q := viewstate.FromValues(c.Request.URL.Query())

	d, err := h.service.Load(c.Request.Context(), q, h.lang(c))
	if err != nil {
		h.logger.WithError(err).Error("Failed to load dashboard")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	c.JSON(http.StatusOK, d)
}

func (h *Handler) GetRegions(c *gin.Context) {
	regions, err := h.service.Regions(c.Request.Context(), c.Query("state"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to get regions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get regions"})
		return
	}

	c.JSON(http.StatusOK, regions)
}

func (h *Handler) GetStates(c *gin.Context) {
	states, err := h.service.States(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get states")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get states"})
		return
	}

	c.JSON(http.StatusOK, states)
}

func (h *Handler) GetYears(c *gin.Context) {
	years, err := h.service.Years(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get years")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get years"})
		return
	}

	c.JSON(http.StatusOK, years)
}

func (h *Handler) GetProperties(c *gin.Context) {
	listing, err := h.service.Properties(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get properties"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

func (h *Handler) GetForecast(c *gin.Context) {
	q := viewstate.FromValues(c.Request.URL.Query())
	months := h.forecastMonths(c)

	p, err := h.service.Forecast(c.Request.Context(), q, months, h.lang(c))
	if errors.Is(err, forecast.ErrInsufficientData) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not enough history to forecast this region"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to forecast region")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to forecast region"})
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *Handler) forecastMonths(c *gin.Context) int {
	months, err := strconv.Atoi(c.DefaultQuery("months", strconv.Itoa(h.cfg.ForecastMonths)))
	if err != nil || months <= 0 {
		return h.cfg.ForecastMonths
	}
	if months > maxForecastMonths {
		return maxForecastMonths
	}
	return months
}

func (h *Handler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.logger.WithError(err).Error("Database health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
