package azureml

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/autovalue/internal/config"
	"github.com/mamadbah2/autovalue/internal/domain/models"
)

// ErrNotConfigured is returned when the inference endpoint URL or API key is
// missing. The check happens at call time so the server still boots without
// ML credentials.
var ErrNotConfigured = errors.New("azure ml endpoint credentials are not configured")

// inferenceColumns is the fixed column order the deployed model expects.
// The leading id column is part of the model schema but not of the form, so
// a synthetic zero is sent in its place.
var inferenceColumns = []string{"id", "brand", "model", "mileage", "year", "enpower", "envolume", "fuel_type", "transmission"}

// Client exposes the price-prediction operation used by the valuation
// pipeline.
type Client interface {
	PredictPrice(ctx context.Context, features models.CarFeatures) (float64, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	endpoint   string
	configured bool
}

// NewClient builds an inference client using the provided configuration
// values.
func NewClient(cfg config.MLConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("azureml-model-deployment", cfg.Deployment).
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		endpoint:   cfg.EndpointURL,
		configured: cfg.Configured(),
	}
}

type inferenceRequest struct {
	InputData inferenceInput `json:"input_data"`
}

type inferenceInput struct {
	Columns []string `json:"columns"`
	Data    [][]any  `json:"data"`
}

// PredictPrice submits one tabular row to the deployed model and returns the
// raw predicted price. The model answers with a JSON array holding one
// prediction per input row.
func (c *APIClient) PredictPrice(ctx context.Context, features models.CarFeatures) (float64, error) {
	if !c.configured {
		return 0, ErrNotConfigured
	}

	payload := inferenceRequest{
		InputData: inferenceInput{
			Columns: inferenceColumns,
			Data: [][]any{{
				0,
				features.Brand,
				features.Model,
				features.Mileage,
				features.Year,
				features.EnginePower,
				features.EngineVolume,
				features.FuelType,
				features.Transmission,
			}},
		},
	}

	var predictions []float64
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&predictions).
		Post(c.endpoint)
	if err != nil {
		return 0, fmt.Errorf("call ai model endpoint: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return 0, fmt.Errorf("request to ai model failed with status %d: %s", resp.StatusCode(), resp.String())
	}

	if len(predictions) == 0 {
		return 0, errors.New("ai model returned no predictions")
	}

	return predictions[0], nil
}
