package api

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"metrodash/server/internal/chart"
	"metrodash/server/internal/export"
	"metrodash/server/internal/forecast"
	"metrodash/server/internal/viewstate"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func selectionQuery(sel viewstate.Selection) template.URL {
	// Built by url.Values.Encode, so it is already a safe query string.
	return template.URL(viewstate.ToQueryString(sel))
}

// DashboardPage renders the single-year chart and the twelve month panels.
func (h *Handler) DashboardPage(c *gin.Context) {
	q := viewstate.FromValues(c.Request.URL.Query())

	d, err := h.service.Load(c.Request.Context(), q, h.lang(c))
	if err != nil {
		h.logger.WithError(err).Error("Failed to load dashboard")
		h.renderError(c, http.StatusInternalServerError, "The dashboard could not be loaded. Please try again later.")
		return
	}

	h.render(c, http.StatusOK, "dashboard", pageData{
		Active: "home",
		Query:  selectionQuery(d.Selection),
		Data:   d,
	})
}

// Select applies one selector change and redirects to the resulting page.
// The form carries the current region and year; change names the selector
// the user touched.
func (h *Handler) Select(c *gin.Context) {
	values := c.Request.URL.Query()
	q := viewstate.FromValues(values)

	var ev viewstate.Event
	switch viewstate.EventKind(values.Get("change")) {
	case viewstate.StateChanged:
		ev = viewstate.Event{Kind: viewstate.StateChanged, Value: values.Get("state")}
	case viewstate.RegionChanged:
		ev = viewstate.Event{Kind: viewstate.RegionChanged, Value: q.RegionID}
	case viewstate.YearChanged:
		ev = viewstate.Event{Kind: viewstate.YearChanged, Value: q.Year}
	}

	sel, err := h.service.Transition(c.Request.Context(), q, ev)
	if err != nil {
		h.logger.WithError(err).Error("Failed to apply selection")
		h.renderError(c, http.StatusInternalServerError, "The selection could not be applied. Please try again later.")
		return
	}

	c.Redirect(http.StatusSeeOther, "/?"+viewstate.ToQueryString(sel))
}

func (h *Handler) PropertiesPage(c *gin.Context) {
	listing, err := h.service.Properties(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get properties")
		h.renderError(c, http.StatusInternalServerError, "The listings could not be loaded. Please try again later.")
		return
	}

	h.render(c, http.StatusOK, "properties", pageData{Active: "properties", Data: listing})
}

func (h *Handler) PredictionsPage(c *gin.Context) {
	q := viewstate.FromValues(c.Request.URL.Query())

	p, err := h.service.Forecast(c.Request.Context(), q, h.cfg.ForecastMonths, h.lang(c))
	if errors.Is(err, forecast.ErrInsufficientData) {
		h.renderError(c, http.StatusNotFound, "There is not enough history for this region to make a prediction.")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to forecast region")
		h.renderError(c, http.StatusInternalServerError, "The prediction could not be computed. Please try again later.")
		return
	}

	h.render(c, http.StatusOK, "predictions", pageData{
		Active: "predictions",
		Query:  selectionQuery(p.Selection),
		Data:   p,
	})
}

func (h *Handler) AboutPage(c *gin.Context) {
	h.render(c, http.StatusOK, "about", pageData{Active: "about"})
}

// ChartPNG renders the single-year chart of the selection as an image.
func (h *Handler) ChartPNG(c *gin.Context) {
	q := viewstate.FromValues(c.Request.URL.Query())

	d, err := h.service.Load(c.Request.Context(), q, h.lang(c))
	if err != nil {
		h.logger.WithError(err).Error("Failed to load dashboard")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chart data"})
		return
	}

	var buf bytes.Buffer
	err = chart.RenderPNG(&buf, d.Yearly, h.cfg.ChartWidth, h.cfg.ChartHeight)
	if errors.Is(err, chart.ErrEmptySeries) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No data for this selection"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to render chart")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render chart"})
		return
	}

	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// ExportXLSX serves the selection as a spreadsheet download.
func (h *Handler) ExportXLSX(c *gin.Context) {
	q := viewstate.FromValues(c.Request.URL.Query())

	d, err := h.service.Load(c.Request.Context(), q, h.lang(c))
	if err != nil {
		h.logger.WithError(err).Error("Failed to load dashboard")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load export data"})
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, d.Workbook()); err != nil {
		h.logger.WithError(err).Error("Failed to write workbook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}

	filename := fmt.Sprintf("metro-%s-%s.xlsx", d.Selection.RegionID, d.Selection.Year)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
