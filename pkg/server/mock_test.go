package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/Malindup2/WattWise-sub000/pkg/storage"
	"github.com/Malindup2/WattWise-sub000/pkg/types"
)

// mockStorage is a minimal in-memory Database for handler tests.
type mockStorage struct {
	mu   sync.Mutex
	docs map[string]types.DailyUsageSummary

	failGet error
}

var _ storage.Database = (*mockStorage)(nil)

func newMockStorage() *mockStorage {
	return &mockStorage{docs: make(map[string]types.DailyUsageSummary)}
}

func (m *mockStorage) GetDailySummary(ctx context.Context, userID, date string) (types.DailyUsageSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return types.DailyUsageSummary{}, m.failGet
	}
	s, ok := m.docs[userID+"_"+date]
	if !ok {
		return types.DailyUsageSummary{}, fmt.Errorf("%w: %s/%s", storage.ErrSummaryNotFound, userID, date)
	}
	return s, nil
}

func (m *mockStorage) PutDailySummary(ctx context.Context, userID, date string, summary types.DailyUsageSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[userID+"_"+date] = summary
	return nil
}

func (m *mockStorage) DeleteDailySummary(ctx context.Context, userID, date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, userID+"_"+date)
	return nil
}

func (m *mockStorage) GetDailySummaryRange(ctx context.Context, userID, start, end string) ([]types.DailyUsageSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	startT, err := types.ParseDate(start)
	if err != nil {
		return nil, err
	}
	endT, err := types.ParseDate(end)
	if err != nil {
		return nil, err
	}
	var out []types.DailyUsageSummary
	for t := startT; !t.After(endT); t = t.AddDate(0, 0, 1) {
		if s, ok := m.docs[userID+"_"+t.Format(types.DateLayout)]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStorage) GetLatestUsageDate(ctx context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest string
	for k, s := range m.docs {
		if k == userID+"_"+s.Date && s.Date > latest {
			latest = s.Date
		}
	}
	return latest, nil
}

func (m *mockStorage) Close() error { return nil }

// stubPredict returns a fixed prediction or error.
type stubPredict struct {
	kwh float64
	err error
}

func (p *stubPredict) PredictNextDay(ctx context.Context, userID string, history []float64) (float64, error) {
	return p.kwh, p.err
}
