package broker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/config"
	domain "main/internal/domain/entity/analysis"
)

func TestNewConsumerRequiresURL(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	_, err := NewConsumer(config.RabbitMQConfig{}, nil, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url")
}

func TestHandleDeliveryMalformedPayloads(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	consumer := &Consumer{logger: logger}

	cases := []struct {
		name string
		body []byte
	}{
		{"not json", []byte("{not json")},
		{"empty body", nil},
		{"missing request", []byte(`{}`)},
		{"null request", []byte(`{"analysis_request": null}`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := consumer.handleDelivery(context.Background(), &amqp.Delivery{Body: tc.body})
			assert.ErrorIs(t, err, errBadMessage)
		})
	}
}

func TestRequeueable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "venue unavailable retries",
			err:  domain.NewIngestionError(domain.IngestionAPIUnavailable, "mkt-1", errors.New("503")),
			want: true,
		},
		{
			name: "rate limit retries",
			err:  domain.NewIngestionError(domain.IngestionRateLimitExceeded, "mkt-1", nil),
			want: true,
		},
		{
			name: "invalid market id does not retry",
			err:  domain.NewIngestionError(domain.IngestionInvalidMarketID, "mkt-1", nil),
			want: false,
		},
		{
			name: "validation failure does not retry",
			err:  domain.NewIngestionError(domain.IngestionValidationFailed, "mkt-1", nil),
			want: false,
		},
		{
			name: "insufficient data does not retry",
			err:  domain.NewRecommendationError(domain.RecommendationInsufficientData, domain.StageAgentExecution, nil),
			want: false,
		},
		{
			name: "consensus failure does not retry",
			err:  domain.NewRecommendationError(domain.RecommendationConsensusFailed, domain.StageConsensus, nil),
			want: false,
		},
		{
			name: "step budget does not retry",
			err:  domain.ErrStepBudgetExceeded,
			want: false,
		},
		{
			name: "wrapped step budget does not retry",
			err:  fmt.Errorf("signal_fusion: %w", domain.ErrStepBudgetExceeded),
			want: false,
		},
		{
			name: "storage failure retries",
			err:  errors.New("record analysis run-1: connection refused"),
			want: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, requeueable(tc.err))
		})
	}
}
