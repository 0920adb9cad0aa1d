package recommendations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "main/internal/domain/entity/analysis"
	"main/internal/domain/entity/market"
	interfaces "main/internal/domain/interfaces"
)

type fakeStore struct {
	latest *domain.StoredRecommendation
	list   []domain.Record
	err    error

	gotMarketID string
	gotLimit    int
	closed      bool
}

func (f *fakeStore) UpsertMarket(ctx context.Context, briefing market.BriefingDocument) (int64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeStore) StoreRecommendation(ctx context.Context, marketID int64, runID string, rec *domain.TradeRecommendation) (int64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeStore) StoreAgentSignals(ctx context.Context, marketID, recommendationID int64, signals []domain.AgentSignal) error {
	return errors.New("not implemented")
}

func (f *fakeStore) RecordAnalysis(ctx context.Context, marketID int64, record domain.Record) error {
	return errors.New("not implemented")
}

func (f *fakeStore) GetLatestRecommendation(ctx context.Context, marketID string) (*domain.StoredRecommendation, error) {
	f.gotMarketID = marketID
	return f.latest, f.err
}

func (f *fakeStore) ListAnalyses(ctx context.Context, marketID string, limit int) ([]domain.Record, error) {
	f.gotMarketID = marketID
	f.gotLimit = limit
	return f.list, f.err
}

func (f *fakeStore) Close() { f.closed = true }

func TestGetLatestRecommendation(t *testing.T) {
	stored := &domain.StoredRecommendation{
		ID:       3,
		MarketID: "mkt-1",
		RunID:    "run-1",
		Recommendation: domain.TradeRecommendation{
			Action:      domain.ActionLongYes,
			GeneratedAt: time.Now(),
		},
	}
	store := &fakeStore{latest: stored}
	svc := NewService(store)

	got, err := svc.GetLatestRecommendation(context.Background(), "mkt-1")
	require.NoError(t, err)
	assert.Same(t, stored, got)
	assert.Equal(t, "mkt-1", store.gotMarketID)
}

func TestGetLatestRecommendationEmptyID(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	_, err := svc.GetLatestRecommendation(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyMarketID)
	assert.Empty(t, store.gotMarketID)
}

func TestGetLatestRecommendationNotFoundPassesThrough(t *testing.T) {
	store := &fakeStore{err: interfaces.ErrRecommendationNotFound}
	svc := NewService(store)

	_, err := svc.GetLatestRecommendation(context.Background(), "mkt-1")
	assert.ErrorIs(t, err, interfaces.ErrRecommendationNotFound)
}

func TestListAnalyses(t *testing.T) {
	records := []domain.Record{
		{RunID: "run-2", Status: domain.RunStatusCompleted},
		{RunID: "run-1", Status: domain.RunStatusFailed},
	}
	store := &fakeStore{list: records}
	svc := NewService(store)

	got, err := svc.ListAnalyses(context.Background(), "mkt-1", 10)
	require.NoError(t, err)
	assert.Equal(t, records, got)
	assert.Equal(t, 10, store.gotLimit)
}

func TestListAnalysesValidation(t *testing.T) {
	svc := NewService(&fakeStore{})

	_, err := svc.ListAnalyses(context.Background(), "", 10)
	assert.ErrorIs(t, err, ErrEmptyMarketID)

	_, err = svc.ListAnalyses(context.Background(), "mkt-1", 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = svc.ListAnalyses(context.Background(), "mkt-1", -5)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestCloseClosesStore(t *testing.T) {
	store := &fakeStore{}
	NewService(store).Close()
	assert.True(t, store.closed)
}
