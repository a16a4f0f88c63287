package storagemock

import (
	"context"

	"github.com/Malindup2/WattWise-sub000/pkg/storage"
	"github.com/Malindup2/WattWise-sub000/pkg/types"
	"github.com/stretchr/testify/mock"
)

type MockDatabase struct {
	mock.Mock
}

var _ storage.Database = (*MockDatabase)(nil)

func (m *MockDatabase) GetDailySummary(ctx context.Context, userID, date string) (types.DailyUsageSummary, error) {
	args := m.Called(ctx, userID, date)
	if len(args) > 0 {
		return args.Get(0).(types.DailyUsageSummary), args.Error(1)
	}
	return types.DailyUsageSummary{}, nil
}

func (m *MockDatabase) PutDailySummary(ctx context.Context, userID, date string, summary types.DailyUsageSummary) error {
	args := m.Called(ctx, userID, date, summary)
	return args.Error(0)
}

func (m *MockDatabase) DeleteDailySummary(ctx context.Context, userID, date string) error {
	args := m.Called(ctx, userID, date)
	return args.Error(0)
}

func (m *MockDatabase) GetDailySummaryRange(ctx context.Context, userID, start, end string) ([]types.DailyUsageSummary, error) {
	args := m.Called(ctx, userID, start, end)
	if len(args) > 0 {
		return args.Get(0).([]types.DailyUsageSummary), args.Error(1)
	}
	return nil, nil
}

func (m *MockDatabase) GetLatestUsageDate(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockDatabase) Close() error {
	args := m.Called()
	return args.Error(0)
}
