package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"metrodash/server/internal/locale"
	"metrodash/server/internal/models"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pageNames = []string{"dashboard", "properties", "predictions", "about", "error"}

// pageData is what every page template receives. Data holds the page
// specific view.
type pageData struct {
	Active    string
	Locale    language.Tag
	Query     template.URL
	Copyright int
	Data      any
}

type errorView struct {
	Status  int
	Message string
}

var funcMap = template.FuncMap{
	"amount": func(tag language.Tag, v float64) string {
		return locale.FormatAmount(tag, v)
	},
	"date": func(tag language.Tag, t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return locale.FormatDate(tag, t)
	},
	"regionID": func(r models.Region) string {
		return strconv.FormatInt(r.RegionID, 10)
	},
}

// parsePages builds one template per page, each on top of the shared
// layout.
func parsePages() (map[string]*template.Template, error) {
	base, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFiles, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout: %w", err)
		}
		if pages[name], err = clone.ParseFS(templateFiles, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
	}
	return pages, nil
}

// render executes the page into a buffer first so a template error never
// leaves a half written page.
func (h *Handler) render(c *gin.Context, status int, name string, data pageData) {
	tmpl, ok := h.pages[name]
	if !ok {
		h.logger.WithField("template", name).Error("Unknown template")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	data.Locale = requestLocale(c, h.defaultLocale)
	data.Copyright = time.Now().Year()

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.WithError(err).WithField("template", name).Error("Failed to render template")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (h *Handler) renderError(c *gin.Context, status int, message string) {
	h.render(c, status, "error", pageData{Data: errorView{Status: status, Message: message}})
}
