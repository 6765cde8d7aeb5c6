package models

import "time"

// MetroRecord is one monthly average home value observation for a region.
type MetroRecord struct {
	ID         int64     `json:"id" db:"id"`
	RegionID   int64     `json:"region_id" db:"region_id"`
	SizeRank   int       `json:"size_rank" db:"size_rank"`
	RegionName string    `json:"region_name" db:"region_name"`
	StateName  string    `json:"state_name" db:"state_name"`
	Date       time.Time `json:"date" db:"date"`
	AvgCost    float64   `json:"avg_cost" db:"avg_cost"`
}

// Region is a metro area. Many MetroRecords reference one Region through RegionID.
type Region struct {
	RegionID   int64  `json:"region_id" db:"region_id"`
	RegionName string `json:"region_name" db:"region_name"`
	StateName  string `json:"state_name" db:"state_name"`
}
