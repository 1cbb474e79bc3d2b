package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/autovalue/internal/domain/models"
	"github.com/mamadbah2/autovalue/internal/server/handlers"
	"github.com/mamadbah2/autovalue/internal/server/router"
	summarysvc "github.com/mamadbah2/autovalue/internal/service/summary"
	valuationsvc "github.com/mamadbah2/autovalue/internal/service/valuation"
	"github.com/mamadbah2/autovalue/pkg/clients/openai"
)

type stubBlobStore struct {
	uploads int
	deletes int
}

func (s *stubBlobStore) Upload(_ context.Context, name string, _ []byte) (string, error) {
	s.uploads++
	return "https://example.blob.core.windows.net/cars/" + name, nil
}

func (s *stubBlobStore) Delete(_ context.Context, _ string) error {
	s.deletes++
	return nil
}

type stubEstimator struct {
	price float64
	err   error
	calls int
}

func (s *stubEstimator) PredictPrice(_ context.Context, _ models.CarFeatures) (float64, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return s.price, nil
}

type stubRepo struct {
	created []models.CarValuation
	cars    []models.CarValuation
	listErr error
}

func (s *stubRepo) CreateCar(_ context.Context, car models.CarValuation) error {
	s.created = append(s.created, car)
	return nil
}

func (s *stubRepo) ListCars(_ context.Context) ([]models.CarValuation, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.cars, nil
}

type stubChatClient struct {
	configured bool
	deployment string
	reply      string
	err        error
	calls      int
}

func (s *stubChatClient) CreateChatCompletion(_ context.Context, _ openai.ChatRequest) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubChatClient) Configured() bool   { return s.configured }
func (s *stubChatClient) Deployment() string { return s.deployment }

type testEnv struct {
	engine    *gin.Engine
	blobs     *stubBlobStore
	estimator *stubEstimator
	repo      *stubRepo
	chat      *stubChatClient
}

func newTestEnv() *testEnv {
	env := &testEnv{
		blobs:     &stubBlobStore{},
		estimator: &stubEstimator{price: 10000},
		repo:      &stubRepo{},
		chat:      &stubChatClient{configured: true, deployment: "gpt-4o", reply: "Good value."},
	}

	valuationSvc := valuationsvc.NewService(env.blobs, env.estimator, env.repo, nil)
	summarySvc := summarysvc.NewService(env.chat, nil)

	env.engine = router.New(
		handlers.NewPagesHandler(),
		handlers.NewValuationHandler(valuationSvc, nil),
		handlers.NewSummaryHandler(summarySvc, nil),
		nil,
	)
	return env
}

func estimateFields() map[string]string {
	return map[string]string{
		"brand":        "Toyota",
		"model":        "Camry",
		"year":         "2019",
		"mileage":      "45000",
		"enpower":      "150",
		"envolume":     "2000",
		"fuel_type":    "petrol",
		"transmission": "auto",
	}
}

func multipartBody(t *testing.T, fields map[string]string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if withFile {
		part, err := writer.CreateFormFile("file-upload", "photo.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func doEstimate(t *testing.T, env *testEnv, fields map[string]string, withFile bool) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, fields, withFile)
	req := httptest.NewRequest(http.MethodPost, "/api/estimate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)
	return rec
}

func TestEstimateSuccess(t *testing.T) {
	env := newTestEnv()
	env.estimator.price = 15230.7

	rec := doEstimate(t, env, estimateFields(), true)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string              `json:"message"`
		Data    models.CarValuation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "Estimation successful!", resp.Message)
	assert.Equal(t, 15231, resp.Data.EstimatedPrice)
	assert.Equal(t, "Toyota", resp.Data.Brand)
	assert.NotEmpty(t, resp.Data.ID)
	assert.NotEmpty(t, resp.Data.ImageURL)
	assert.NotEmpty(t, resp.Data.CreatedAt)

	require.Len(t, env.repo.created, 1)
	assert.Equal(t, resp.Data, env.repo.created[0])
}

func TestEstimateMissingFileHasNoSideEffects(t *testing.T) {
	env := newTestEnv()

	rec := doEstimate(t, env, estimateFields(), false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"File is required."}`, rec.Body.String())

	assert.Zero(t, env.blobs.uploads)
	assert.Zero(t, env.estimator.calls)
	assert.Empty(t, env.repo.created)
}

func TestEstimateMissingRequiredField(t *testing.T) {
	env := newTestEnv()

	fields := estimateFields()
	delete(fields, "brand")

	rec := doEstimate(t, env, fields, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing required car details")
	assert.Zero(t, env.estimator.calls)
}

func TestEstimateRejectsNonNumericField(t *testing.T) {
	env := newTestEnv()

	fields := estimateFields()
	fields["mileage"] = "lots"

	rec := doEstimate(t, env, fields, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "mileage")
	assert.Zero(t, env.estimator.calls)
	assert.Empty(t, env.repo.created)
}

func TestEstimateUpstreamFailure(t *testing.T) {
	env := newTestEnv()
	env.estimator.err = errors.New("request to ai model failed with status 503")

	rec := doEstimate(t, env, estimateFields(), true)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to process estimation.", resp.Error)
	assert.Contains(t, resp.Details, "status 503")

	// The uploaded image is cleaned up when inference fails.
	assert.Equal(t, 1, env.blobs.uploads)
	assert.Equal(t, 1, env.blobs.deletes)
}

func TestListCars(t *testing.T) {
	env := newTestEnv()
	env.repo.cars = []models.CarValuation{
		{ID: "2", Brand: "BMW", CreatedAt: "2026-02-01T00:00:00Z"},
		{ID: "1", Brand: "Audi", CreatedAt: "2026-01-01T00:00:00Z"},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/cars", nil)
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []models.CarValuation `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "2", resp.Items[0].ID)
	assert.Equal(t, "1", resp.Items[1].ID)

	// Repeating the request with no intervening writes yields an identical body.
	rec2 := httptest.NewRecorder()
	env.engine.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/api/cars", nil))
	assert.Equal(t, rec.Body.String(), rec2.Body.String())
}

func TestListCarsFailure(t *testing.T) {
	env := newTestEnv()
	env.repo.listErr = errors.New("store unreachable")

	req := httptest.NewRequest(http.MethodGet, "/api/cars", nil)
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch car data"}`, rec.Body.String())
}

func TestUIPagesRender(t *testing.T) {
	env := newTestEnv()

	for _, path := range []string{"/", "/cars"} {
		rec := httptest.NewRecorder()
		env.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html", path)
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv()

	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
