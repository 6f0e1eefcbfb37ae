package handlers_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/heartwise/cardio-be/internal/api"
	"github.com/heartwise/cardio-be/internal/auth"
	"github.com/heartwise/cardio-be/internal/database"
	"github.com/heartwise/cardio-be/internal/places"
	"github.com/heartwise/cardio-be/internal/predictor"
	"github.com/heartwise/cardio-be/internal/services"
	"github.com/stretchr/testify/require"
)

// stubModel counts invocations so tests can prove the classifier is never
// run on invalid input.
type stubModel struct {
	outcome int
	calls   int
	last    [predictor.FeatureCount]float64
}

func (m *stubModel) Predict(features [predictor.FeatureCount]float64) int {
	m.calls++
	m.last = features
	return m.outcome
}

type stubPlaces struct {
	results []json.RawMessage
	err     error
}

func (p *stubPlaces) NearbyHospitals(ctx context.Context, latitude, longitude float64) ([]json.RawMessage, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.results, nil
}

var _ places.Provider = (*stubPlaces)(nil)

type testEnv struct {
	server    *httptest.Server
	db        *sql.DB
	model     *stubModel
	places    *stubPlaces
	uploadDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		db:        db,
		model:     &stubModel{outcome: 0},
		places:    &stubPlaces{results: []json.RawMessage{}},
		uploadDir: t.TempDir(),
	}

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	router := api.NewRouter(tokens,
		services.NewUserService(db),
		services.NewPredictionService(db),
		env.model, env.places, env.uploadDir)

	env.server = httptest.NewServer(router)
	t.Cleanup(env.server.Close)
	return env
}

// doJSON issues a request with an optional bearer token and JSON body and
// decodes the JSON response.
func (env *testEnv) doJSON(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, env.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := env.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

// register creates an account and returns its token.
func (env *testEnv) register(t *testing.T, email, password string) string {
	t.Helper()

	status, body := env.doJSON(t, http.MethodPost, "/register", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, status)
	token, ok := body["token"].(string)
	require.True(t, ok, "register response must carry a token")
	return token
}

var errStubUpstream = errors.New("stub upstream failure")
