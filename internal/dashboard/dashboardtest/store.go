// Package dashboardtest provides a mock dashboard.Store for tests.
package dashboardtest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"metrodash/server/internal/models"
)

// MockStore is a testify mock of dashboard.Store. It also answers Ping so
// it can stand in for the HTTP layer's store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetAllProperties(ctx context.Context) ([]models.Property, error) {
	args := m.Called(ctx)
	props, _ := args.Get(0).([]models.Property)
	return props, args.Error(1)
}

func (m *MockStore) GetMetroRecords(ctx context.Context, regionID int64) ([]models.MetroRecord, error) {
	args := m.Called(ctx, regionID)
	records, _ := args.Get(0).([]models.MetroRecord)
	return records, args.Error(1)
}

func (m *MockStore) GetDistinctYears(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	years, _ := args.Get(0).([]int)
	return years, args.Error(1)
}

func (m *MockStore) GetRegions(ctx context.Context) ([]models.Region, error) {
	args := m.Called(ctx)
	regions, _ := args.Get(0).([]models.Region)
	return regions, args.Error(1)
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
