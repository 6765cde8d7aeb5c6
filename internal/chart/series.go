// Package chart turns row sets into co-indexed label/value series and
// renders them, either as a Chart.js payload for the browser or as a PNG.
package chart

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"metrodash/server/internal/locale"
	"metrodash/server/internal/models"
)

// Series is one plottable sequence. Labels[i] belongs to Values[i].
type Series struct {
	Label  string    `json:"label"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

func (s Series) Len() int {
	return len(s.Values)
}

func (s Series) Empty() bool {
	return len(s.Values) == 0
}

// Selector extracts one field from a row.
type Selector[T any] func(T) any

// LabelFunc renders an x value as an axis label.
type LabelFunc func(any) string

// ToSeries maps each row to a label from x and a value from y, keeping the
// row order. Values that are not numbers become 0.
func ToSeries[T any](rows []T, x, y Selector[T], label LabelFunc) Series {
	if label == nil {
		label = defaultLabel
	}

	s := Series{
		Labels: make([]string, len(rows)),
		Values: make([]float64, len(rows)),
	}
	for i, row := range rows {
		s.Labels[i] = label(x(row))
		s.Values[i] = toNumber(y(row))
	}
	return s
}

// Field builds a Selector that reads the named field. Structs are matched
// by json tag first and Go field name second; map[string]any rows by key.
// A missing field selects nil.
func Field[T any](name string) Selector[T] {
	return func(row T) any {
		return lookup(reflect.ValueOf(row), name)
	}
}

// FromFields is ToSeries with fields named instead of selected.
func FromFields[T any](rows []T, xField, yField string, label LabelFunc) Series {
	return ToSeries(rows, Field[T](xField), Field[T](yField), label)
}

// PriceSeries charts listings by address, cheapest first. The input slice
// is left in its original order.
func PriceSeries(props []models.Property, title string) Series {
	sorted := slices.Clone(props)
	slices.SortStableFunc(sorted, func(a, b models.Property) int {
		switch {
		case a.Price < b.Price:
			return -1
		case a.Price > b.Price:
			return 1
		default:
			return 0
		}
	})

	s := ToSeries(sorted,
		func(p models.Property) any { return p.Address },
		func(p models.Property) any { return p.Price },
		nil,
	)
	s.Label = title
	return s
}

// CostSeries charts metro rows by date.
func CostSeries(records []models.MetroRecord, title string, label LabelFunc) Series {
	s := ToSeries(records,
		func(r models.MetroRecord) any { return r.Date },
		func(r models.MetroRecord) any { return r.AvgCost },
		label,
	)
	s.Label = title
	return s
}

// FormatLabel renders dates as short numeric dates in tag and anything else
// with fmt.
func FormatLabel(tag language.Tag) LabelFunc {
	return func(v any) string {
		switch t := v.(type) {
		case time.Time:
			return locale.FormatDate(tag, t)
		case *time.Time:
			if t != nil {
				return locale.FormatDate(tag, *t)
			}
			return ""
		default:
			return defaultLabel(v)
		}
	}
}

func defaultLabel(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func lookup(v reflect.Value, name string) any {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil
		}
		val := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
		if !val.IsValid() {
			return nil
		}
		return val.Interface()
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if tag == name {
				return v.Field(i).Interface()
			}
		}
		if f, ok := t.FieldByName(name); ok && f.IsExported() {
			return v.FieldByIndex(f.Index).Interface()
		}
	}
	return nil
}

func toNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	case *float64:
		if n != nil {
			return *n
		}
	}
	return 0
}
