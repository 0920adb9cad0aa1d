// Package venue talks to the prediction-market venue's public REST API and
// maps its market payloads into briefing documents.
package venue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"main/internal/config"
	"main/internal/domain/entity/analysis"
	"main/internal/domain/entity/market"
	interfaces "main/internal/domain/interfaces"
)

// marketPayload is the venue's wire representation of one market.
type marketPayload struct {
	ID                 string   `json:"id"`
	ConditionID        string   `json:"condition_id"`
	EventType          string   `json:"event_type"`
	Question           string   `json:"question"`
	ResolutionCriteria string   `json:"resolution_criteria"`
	EndDate            string   `json:"end_date"`
	Probability        float64  `json:"probability"`
	LiquidityScore     float64  `json:"liquidity_score"`
	BestBid            float64  `json:"best_bid"`
	BestAsk            float64  `json:"best_ask"`
	Volume24h          float64  `json:"volume_24h"`
	Volatility         string   `json:"volatility"`
	Catalysts          []string `json:"catalysts"`
}

// Client implements the market data provider against the venue REST API.
type Client struct {
	http   *resty.Client
	logger *logrus.Logger
}

func NewClient(cfg config.VenueConfig, logger *logrus.Logger) *Client {
	c := resty.New()
	c.SetBaseURL(cfg.BaseURL)
	c.SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)
	c.SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		c.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}
	return &Client{http: c, logger: logger}
}

// FetchBriefing loads one market and maps it to a briefing document. Every
// failure mode is classified into the ingestion error taxonomy so the caller
// can tell retryable venue trouble from a bad market id or a bad payload.
func (c *Client) FetchBriefing(ctx context.Context, marketID string) (market.BriefingDocument, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/markets/" + marketID)
	if err != nil {
		return market.BriefingDocument{}, analysis.NewIngestionError(analysis.IngestionAPIUnavailable, marketID, err)
	}
	if code := classifyStatus(resp.StatusCode()); code != "" {
		c.logger.WithFields(logrus.Fields{
			"market_id": marketID,
			"status":    resp.StatusCode(),
		}).Warn("venue rejected market fetch")
		return market.BriefingDocument{}, analysis.NewIngestionError(code, marketID,
			fmt.Errorf("venue returned status %d", resp.StatusCode()))
	}

	var payload marketPayload
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return market.BriefingDocument{}, analysis.NewIngestionError(analysis.IngestionValidationFailed, marketID,
			fmt.Errorf("decode market payload: %w", err))
	}

	briefing, err := payload.toBriefing()
	if err != nil {
		return market.BriefingDocument{}, analysis.NewIngestionError(analysis.IngestionValidationFailed, marketID, err)
	}
	if err := briefing.Validate(); err != nil {
		return market.BriefingDocument{}, analysis.NewIngestionError(analysis.IngestionValidationFailed, marketID, err)
	}
	return briefing, nil
}

// ListActiveMarkets returns venue markets at or above minLiquidity, newest
// first, up to limit. Used by the scanner to pick analysis candidates.
func (c *Client) ListActiveMarkets(ctx context.Context, minLiquidity float64, limit int) ([]interfaces.MarketSummary, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"active":        "true",
			"liquidity_min": strconv.FormatFloat(minLiquidity, 'f', -1, 64),
			"limit":         strconv.Itoa(limit),
		}).
		Get("/markets")
	if err != nil {
		return nil, fmt.Errorf("list markets: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("list markets: venue returned status %d", resp.StatusCode())
	}

	var payloads []marketPayload
	if err := json.Unmarshal(resp.Body(), &payloads); err != nil {
		return nil, fmt.Errorf("decode market listing: %w", err)
	}

	out := make([]interfaces.MarketSummary, 0, len(payloads))
	for _, p := range payloads {
		if p.LiquidityScore < minLiquidity {
			continue
		}
		out = append(out, interfaces.MarketSummary{
			MarketID:       p.ID,
			Question:       p.Question,
			Probability:    p.Probability,
			LiquidityScore: p.LiquidityScore,
			Volume24h:      p.Volume24h,
		})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (p marketPayload) toBriefing() (market.BriefingDocument, error) {
	expires, err := time.Parse(time.RFC3339, p.EndDate)
	if err != nil {
		return market.BriefingDocument{}, fmt.Errorf("market %s: parse end date %q: %w", p.ID, p.EndDate, err)
	}

	spread := p.BestAsk - p.BestBid
	if spread < 0 {
		spread = 0
	}

	volatility := market.VolatilityMedium
	if p.Volatility != "" {
		volatility, err = market.NewVolatilityRegime(p.Volatility)
		if err != nil {
			return market.BriefingDocument{}, fmt.Errorf("market %s: %w", p.ID, err)
		}
	}

	return market.BriefingDocument{
		MarketID:           p.ID,
		ConditionID:        p.ConditionID,
		EventType:          p.EventType,
		Question:           p.Question,
		ResolutionCriteria: p.ResolutionCriteria,
		ExpiresAt:          expires,
		MarketProbability:  p.Probability,
		LiquidityScore:     p.LiquidityScore,
		BidAskSpread:       spread,
		Volatility:         volatility,
		Volume24h:          p.Volume24h,
		Catalysts:          p.Catalysts,
	}, nil
}

// classifyStatus maps a venue HTTP status to an ingestion error code, or ""
// for a usable response.
func classifyStatus(status int) analysis.IngestionErrorCode {
	switch {
	case status == http.StatusOK:
		return ""
	case status == http.StatusNotFound, status == http.StatusBadRequest:
		return analysis.IngestionInvalidMarketID
	case status == http.StatusTooManyRequests:
		return analysis.IngestionRateLimitExceeded
	default:
		return analysis.IngestionAPIUnavailable
	}
}
