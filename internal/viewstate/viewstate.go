// Package viewstate holds the dashboard selection (state, region, year),
// keeps the region consistent with the state, and encodes the selection
// in the page URL.
package viewstate

import (
	"strconv"

	"metrodash/server/internal/models"
	"metrodash/server/internal/shaping"
)

const (
	DefaultRegionID = "394463"
	DefaultYear     = "2024"
)

// Selection is the current filter state. State is derived from the region
// and never travels in the URL.
type Selection struct {
	State    string `json:"state"`
	RegionID string `json:"region_id"`
	Year     string `json:"year"`
}

// HasRegion reports whether a region is selected. It is false after a
// change to a state without regions.
func (s Selection) HasRegion() bool {
	return s.RegionID != ""
}

// YearInt returns the selected year as a number, or the default year.
func (s Selection) YearInt() int {
	if y, ok := parseYear(s.Year); ok {
		return y
	}
	y, _ := parseYear(DefaultYear)
	return y
}

type EventKind string

const (
	StateChanged  EventKind = "state"
	RegionChanged EventKind = "region"
	YearChanged   EventKind = "year"
)

// Event is a user change to one selector.
type Event struct {
	Kind  EventKind
	Value string
}

// Controller owns a Selection. Transitions return copies; nothing the
// controller returns aliases its internal state.
type Controller struct {
	regions []models.Region
	current Selection
}

func NewController(regions []models.Region) *Controller {
	return &Controller{regions: append([]models.Region(nil), regions...)}
}

// Initialize resolves the starting selection. An unknown region falls back
// to the first known region, a missing year to DefaultYear.
func (c *Controller) Initialize(initialRegionID, initialYear string) Selection {
	sel := Selection{Year: initialYear}
	if sel.Year == "" {
		sel.Year = DefaultYear
	}

	if region, ok := c.findRegion(initialRegionID); ok {
		sel.RegionID = formatID(region.RegionID)
		sel.State = region.StateName
	} else if len(c.regions) > 0 {
		sel.RegionID = formatID(c.regions[0].RegionID)
		sel.State = c.regions[0].StateName
	}

	c.current = sel
	return sel
}

// OnStateChange selects state and the first region located in it. When the
// state has no regions the selection keeps the state with no region.
func (c *Controller) OnStateChange(state string) Selection {
	c.current.State = state
	c.current.RegionID = ""
	if regions := shaping.RegionsForState(c.regions, state); len(regions) > 0 {
		c.current.RegionID = formatID(regions[0].RegionID)
	}
	return c.current
}

// OnRegionChange selects a region without touching the state. Callers only
// offer regions of the current state.
func (c *Controller) OnRegionChange(regionID string) Selection {
	c.current.RegionID = regionID
	return c.current
}

func (c *Controller) OnYearChange(year string) Selection {
	c.current.Year = year
	return c.current
}

// Apply dispatches ev to the matching transition. Unknown kinds leave the
// selection as it is.
func (c *Controller) Apply(ev Event) Selection {
	switch ev.Kind {
	case StateChanged:
		return c.OnStateChange(ev.Value)
	case RegionChanged:
		return c.OnRegionChange(ev.Value)
	case YearChanged:
		return c.OnYearChange(ev.Value)
	default:
		return c.current
	}
}

func (c *Controller) Selection() Selection {
	return c.current
}

// States lists the selectable states.
func (c *Controller) States() []string {
	return shaping.DistinctStates(c.regions)
}

// AvailableRegions lists the regions of the selected state.
func (c *Controller) AvailableRegions() []models.Region {
	return shaping.RegionsForState(c.regions, c.current.State)
}

// ActiveRegion returns the selected region, if it is known.
func (c *Controller) ActiveRegion() (models.Region, bool) {
	return c.findRegion(c.current.RegionID)
}

func (c *Controller) findRegion(id string) (models.Region, bool) {
	for _, r := range c.regions {
		if formatID(r.RegionID) == id {
			return r, true
		}
	}
	return models.Region{}, false
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
