package recommendations

import (
	"context"
	"errors"

	domain "main/internal/domain/entity/analysis"
	interfaces "main/internal/domain/interfaces"
)

var (
	ErrEmptyMarketID = errors.New("market id is empty")
	ErrInvalidLimit  = errors.New("limit must be positive")
)

type Service struct {
	store interfaces.AnalysisStore
}

func NewService(store interfaces.AnalysisStore) *Service {
	return &Service{store: store}
}

func (s *Service) GetLatestRecommendation(ctx context.Context, marketID string) (*domain.StoredRecommendation, error) {
	if marketID == "" {
		return nil, ErrEmptyMarketID
	}
	return s.store.GetLatestRecommendation(ctx, marketID)
}

func (s *Service) ListAnalyses(ctx context.Context, marketID string, limit int) ([]domain.Record, error) {
	if marketID == "" {
		return nil, ErrEmptyMarketID
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	return s.store.ListAnalyses(ctx, marketID, limit)
}

func (s *Service) Close() {
	s.store.Close()
}
