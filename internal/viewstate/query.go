package viewstate

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	ParamRegionID = "regionId"
	ParamYear     = "year"
)

// Query is the part of a Selection carried by the URL.
type Query struct {
	RegionID string
	Year     string
}

// ToQueryString encodes the region and year of sel. The state is left out:
// it is derived from the region when the page loads.
func ToQueryString(sel Selection) string {
	v := url.Values{}
	if sel.RegionID != "" {
		v.Set(ParamRegionID, sel.RegionID)
	}
	if sel.Year != "" {
		v.Set(ParamYear, sel.Year)
	}
	return v.Encode()
}

// FromQueryString decodes a raw query string. Unparseable input decodes to
// the defaults.
func FromQueryString(raw string) Query {
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return Query{RegionID: DefaultRegionID, Year: DefaultYear}
	}
	return FromValues(values)
}

// FromValues decodes parsed query values. A region id that is not a
// positive integer or a year that is not four digits is replaced by its
// default. Whether the region exists is checked later by Initialize.
func FromValues(values url.Values) Query {
	q := Query{RegionID: DefaultRegionID, Year: DefaultYear}

	if raw := strings.TrimSpace(values.Get(ParamRegionID)); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			q.RegionID = strconv.FormatInt(id, 10)
		}
	}
	if raw := strings.TrimSpace(values.Get(ParamYear)); raw != "" {
		if _, ok := parseYear(raw); ok {
			q.Year = raw
		}
	}
	return q
}

func parseYear(raw string) (int, bool) {
	if len(raw) != 4 {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	y, err := strconv.Atoi(raw)
	return y, err == nil
}
