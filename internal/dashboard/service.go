// Package dashboard loads and shapes everything a page needs for one
// selection.
package dashboard

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"metrodash/server/internal/chart"
	"metrodash/server/internal/export"
	"metrodash/server/internal/forecast"
	"metrodash/server/internal/models"
	"metrodash/server/internal/shaping"
	"metrodash/server/internal/viewstate"
)

// Store is the read side of the record store.
type Store interface {
	GetAllProperties(ctx context.Context) ([]models.Property, error)
	GetMetroRecords(ctx context.Context, regionID int64) ([]models.MetroRecord, error)
	GetDistinctYears(ctx context.Context) ([]int, error)
	GetRegions(ctx context.Context) ([]models.Region, error)
}

type Service struct {
	store  Store
	logger *logrus.Logger
}

func NewService(store Store, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{store: store, logger: logger}
}

// MonthPanel is one calendar month across every year of the region.
type MonthPanel struct {
	Month   string          `json:"month"`
	Records int             `json:"records"`
	Series  chart.Series    `json:"series"`
	Config  chart.BarConfig `json:"chart"`
	Summary shaping.Summary `json:"summary"`
}

func (p MonthPanel) HasData() bool {
	return p.Records > 0
}

// Dashboard is the data behind the main page.
type Dashboard struct {
	Selection  viewstate.Selection `json:"selection"`
	States     []string            `json:"states"`
	Regions    []models.Region     `json:"regions"`
	Years      []int               `json:"years"`
	RegionName string              `json:"region_name"`
	Title      string              `json:"title"`

	// YearRecords are the region's records dated in the selected year.
	YearRecords  []models.MetroRecord `json:"records"`
	Yearly       chart.Series         `json:"yearly"`
	YearlyConfig chart.BarConfig      `json:"yearly_chart"`
	Months       [12]MonthPanel       `json:"months"`
}

// Load reads the region's records, the year list and the region list
// concurrently and shapes them for the selection in q. Any failed read
// fails the load.
func (s *Service) Load(ctx context.Context, q viewstate.Query, tag language.Tag) (*Dashboard, error) {
	var (
		records []models.MetroRecord
		years   []int
		regions []models.Region
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		id, err := parseRegionID(q.RegionID)
		if err != nil {
			return err
		}
		records, err = s.store.GetMetroRecords(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		years, err = s.store.GetDistinctYears(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		regions, err = s.store.GetRegions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	ctrl := viewstate.NewController(regions)
	sel := ctrl.Initialize(q.RegionID, q.Year)

	switch {
	case !sel.HasRegion():
		records = nil
	case sel.RegionID != q.RegionID:
		s.logger.WithFields(logrus.Fields{
			"requested_region": q.RegionID,
			"region":           sel.RegionID,
		}).Info("Unknown region requested, using fallback")

		id, err := parseRegionID(sel.RegionID)
		if err != nil {
			return nil, err
		}
		if records, err = s.store.GetMetroRecords(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to load dashboard: %w", err)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"region":  sel.RegionID,
		"year":    sel.Year,
		"records": len(records),
	}).Debug("Loaded metro records")

	return build(ctrl, years, records, tag), nil
}

func build(ctrl *viewstate.Controller, years []int, records []models.MetroRecord, tag language.Tag) *Dashboard {
	sel := ctrl.Selection()
	label := chart.FormatLabel(tag)

	regionName := ""
	if region, ok := ctrl.ActiveRegion(); ok {
		regionName = region.RegionName
	}

	d := &Dashboard{
		Selection:   sel,
		States:      ctrl.States(),
		Regions:     ctrl.AvailableRegions(),
		Years:       shaping.DescendingYears(years),
		RegionName:  regionName,
		Title:       YearTitle(sel.Year, regionName),
		YearRecords: shaping.FilterByYear(records, sel.YearInt()),
	}
	d.Yearly = chart.CostSeries(d.YearRecords, d.Title, label)
	d.YearlyConfig = chart.NewBarConfig(d.Yearly)

	for i, bucket := range shaping.BucketByMonth(records) {
		series := chart.CostSeries(bucket, "", label)
		d.Months[i] = MonthPanel{
			Month:   shaping.MonthNames[i],
			Records: len(bucket),
			Series:  series,
			Config:  chart.NewBarConfig(series),
			Summary: shaping.Summarize(bucket),
		}
	}
	return d
}

// YearTitle is the heading of the single-year chart.
func YearTitle(year, regionName string) string {
	if regionName == "" {
		regionName = "Unknown"
	}
	return fmt.Sprintf("Prices in %s (%s)", year, regionName)
}

// Transition applies ev to the selection in q and returns the selection to
// navigate to. A state without regions keeps the previous selection.
func (s *Service) Transition(ctx context.Context, q viewstate.Query, ev viewstate.Event) (viewstate.Selection, error) {
	regions, err := s.store.GetRegions(ctx)
	if err != nil {
		return viewstate.Selection{}, fmt.Errorf("failed to load regions: %w", err)
	}

	ctrl := viewstate.NewController(regions)
	prev := ctrl.Initialize(q.RegionID, q.Year)
	next := ctrl.Apply(ev)
	if !next.HasRegion() {
		s.logger.WithField("state", ev.Value).Info("State has no regions, keeping selection")
		return prev, nil
	}
	return next, nil
}

// Regions returns all regions, or those of state when it is not empty.
func (s *Service) Regions(ctx context.Context, state string) ([]models.Region, error) {
	regions, err := s.store.GetRegions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load regions: %w", err)
	}
	if state == "" {
		return regions, nil
	}
	return shaping.RegionsForState(regions, state), nil
}

func (s *Service) States(ctx context.Context) ([]string, error) {
	regions, err := s.store.GetRegions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load regions: %w", err)
	}
	return shaping.DistinctStates(regions), nil
}

func (s *Service) Years(ctx context.Context) ([]int, error) {
	years, err := s.store.GetDistinctYears(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load years: %w", err)
	}
	return shaping.DescendingYears(years), nil
}

// Listing is the property page.
type Listing struct {
	Properties []models.Property `json:"properties"`
	Series     chart.Series      `json:"series"`
	Config     chart.BarConfig   `json:"chart"`
}

const listingTitle = "Listing prices"

func (s *Service) Properties(ctx context.Context) (*Listing, error) {
	props, err := s.store.GetAllProperties(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load properties: %w", err)
	}
	series := chart.PriceSeries(props, listingTitle)
	return &Listing{
		Properties: props,
		Series:     series,
		Config:     chart.NewBarConfig(series),
	}, nil
}

// Prediction is a region's trend projection.
type Prediction struct {
	Selection  viewstate.Selection `json:"selection"`
	RegionName string              `json:"region_name"`
	Projection forecast.Projection `json:"projection"`
	Series     chart.Series        `json:"series"`
	Config     chart.BarConfig     `json:"chart"`
}

// Forecast projects the selected region months ahead. It returns
// forecast.ErrInsufficientData when the region has fewer than two months
// of history.
func (s *Service) Forecast(ctx context.Context, q viewstate.Query, months int, tag language.Tag) (*Prediction, error) {
	regions, err := s.store.GetRegions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load regions: %w", err)
	}

	ctrl := viewstate.NewController(regions)
	sel := ctrl.Initialize(q.RegionID, q.Year)
	region, ok := ctrl.ActiveRegion()
	if !ok {
		return nil, forecast.ErrInsufficientData
	}

	records, err := s.store.GetMetroRecords(ctx, region.RegionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load metro records: %w", err)
	}

	projection, err := forecast.Project(records, months)
	if err != nil {
		return nil, err
	}

	series := chart.ToSeries(projection.Projected,
		func(p forecast.Point) any { return p.Date },
		func(p forecast.Point) any { return p.Value },
		chart.FormatLabel(tag),
	)
	series.Label = fmt.Sprintf("Projected prices (%s)", region.RegionName)

	return &Prediction{
		Selection:  sel,
		RegionName: region.RegionName,
		Projection: projection,
		Series:     series,
		Config:     chart.NewBarConfig(series),
	}, nil
}

func parseRegionID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid region id %q: %w", raw, err)
	}
	return id, nil
}

// Workbook converts d for the spreadsheet export.
func (d *Dashboard) Workbook() export.Workbook {
	wb := export.Workbook{
		RegionName: d.RegionName,
		Year:       d.Selection.YearInt(),
		Records:    d.YearRecords,
	}
	for i, p := range d.Months {
		wb.Months[i] = p.Summary
	}
	return wb
}
