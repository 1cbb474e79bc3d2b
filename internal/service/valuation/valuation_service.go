package valuation

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/autovalue/internal/domain/models"
	"github.com/mamadbah2/autovalue/internal/repository/mongodb"
	"github.com/mamadbah2/autovalue/pkg/clients/azureml"
	"github.com/mamadbah2/autovalue/pkg/clients/blobstore"
)

// InvalidInputError reports a form field that failed numeric validation.
// Parse failures abort the request before any external call is made instead
// of leaking unparsed values into the inference payload.
type InvalidInputError struct {
	Field string
	Value string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid value %q for field %s: a whole number is required", e.Value, e.Field)
}

// Service orchestrates the estimate pipeline: image upload, price
// inference, persistence. Each step is a hard dependency on the previous
// one succeeding; there are no retries.
type Service struct {
	blobs     blobstore.Store
	estimator azureml.Client
	repo      mongodb.Repository
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new valuation service instance.
func NewService(blobs blobstore.Store, estimator azureml.Client, repo mongodb.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		blobs:     blobs,
		estimator: estimator,
		repo:      repo,
		logger:    logger,
		now:       time.Now,
	}
}

// Estimate runs one submission end to end and returns the persisted record.
// If inference or persistence fails after the image upload succeeded, the
// uploaded blob is deleted on a best-effort basis so no orphan is left
// behind.
func (s *Service) Estimate(ctx context.Context, form models.EstimateForm, fileName string, image []byte) (models.CarValuation, error) {
	features, err := parseFeatures(form)
	if err != nil {
		return models.CarValuation{}, err
	}

	blobName := fmt.Sprintf("%s-%s", uuid.NewString(), fileName)
	imageURL, err := s.blobs.Upload(ctx, blobName, image)
	if err != nil {
		return models.CarValuation{}, fmt.Errorf("upload car photo: %w", err)
	}
	s.logger.Info("car photo uploaded", zap.String("blob", blobName), zap.String("url", imageURL))

	rawPrice, err := s.estimator.PredictPrice(ctx, features)
	if err != nil {
		s.cleanupBlob(ctx, blobName)
		return models.CarValuation{}, fmt.Errorf("predict price: %w", err)
	}

	estimatedPrice := int(math.Round(rawPrice))
	if estimatedPrice < 0 {
		s.cleanupBlob(ctx, blobName)
		return models.CarValuation{}, fmt.Errorf("model returned a negative price: %f", rawPrice)
	}

	car := models.CarValuation{
		ID:             uuid.NewString(),
		Brand:          features.Brand,
		Model:          features.Model,
		FuelType:       features.FuelType,
		Transmission:   features.Transmission,
		EnginePower:    features.EnginePower,
		EngineVolume:   features.EngineVolume,
		Year:           features.Year,
		Mileage:        features.Mileage,
		EstimatedPrice: estimatedPrice,
		ImageURL:       imageURL,
		CreatedAt:      s.now().UTC().Format(time.RFC3339),
	}

	if err := s.repo.CreateCar(ctx, car); err != nil {
		s.cleanupBlob(ctx, blobName)
		return models.CarValuation{}, fmt.Errorf("persist car valuation: %w", err)
	}

	s.logger.Info("car valuation stored",
		zap.String("id", car.ID),
		zap.String("brand", car.Brand),
		zap.String("model", car.Model),
		zap.Int("estimated_price", car.EstimatedPrice))

	return car, nil
}

// ListCars returns every stored valuation, newest first.
func (s *Service) ListCars(ctx context.Context) ([]models.CarValuation, error) {
	cars, err := s.repo.ListCars(ctx)
	if err != nil {
		return nil, fmt.Errorf("list car valuations: %w", err)
	}
	return cars, nil
}

func (s *Service) cleanupBlob(ctx context.Context, blobName string) {
	if err := s.blobs.Delete(ctx, blobName); err != nil {
		s.logger.Warn("failed to clean up uploaded blob", zap.String("blob", blobName), zap.Error(err))
	}
}

func parseFeatures(form models.EstimateForm) (models.CarFeatures, error) {
	year, err := parseField("year", form.Year)
	if err != nil {
		return models.CarFeatures{}, err
	}
	mileage, err := parseField("mileage", form.Mileage)
	if err != nil {
		return models.CarFeatures{}, err
	}
	enpower, err := parseField("enpower", form.EnginePower)
	if err != nil {
		return models.CarFeatures{}, err
	}
	envolume, err := parseField("envolume", form.EngineVolume)
	if err != nil {
		return models.CarFeatures{}, err
	}

	return models.CarFeatures{
		Brand:        form.Brand,
		Model:        form.Model,
		Year:         year,
		Mileage:      mileage,
		EnginePower:  enpower,
		EngineVolume: envolume,
		FuelType:     form.FuelType,
		Transmission: form.Transmission,
	}, nil
}

func parseField(field, value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &InvalidInputError{Field: field, Value: value}
	}
	return n, nil
}
