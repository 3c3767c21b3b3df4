package pet

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PawPulse/internal/database"
	"PawPulse/internal/directory"
	"PawPulse/internal/geminiservice"
	"PawPulse/internal/geocode"
	"PawPulse/internal/responsecache"
)

/* ====================================================================
                   		Fakes
==================================================================== */

type fakeProvider struct {
	calls atomic.Int32
	reply string
	err   error
	mu    sync.Mutex
	last  geminiservice.GenerateRequest
}

func (f *fakeProvider) Generate(_ context.Context, req geminiservice.GenerateRequest) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.last = req
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	if f.reply != "" {
		return f.reply, nil
	}
	return "analysis: " + req.Model, nil
}

type fakeRecords struct {
	mu          sync.Mutex
	pets        []database.CreatePetParams
	records     []database.CreateHealthRecordParams
	predictions []database.CreateHealthPredictionParams
	petErr      error
	list        []database.HealthPrediction
}

func newUUID() pgtype.UUID {
	return pgtype.UUID{Bytes: uuid.New(), Valid: true}
}

func (f *fakeRecords) CreatePet(_ context.Context, arg database.CreatePetParams) (database.Pet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.petErr != nil {
		return database.Pet{}, f.petErr
	}
	f.pets = append(f.pets, arg)
	return database.Pet{ID: newUUID(), Name: arg.Name, Species: arg.Species}, nil
}

func (f *fakeRecords) CreateHealthRecord(_ context.Context, arg database.CreateHealthRecordParams) (database.HealthRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, arg)
	return database.HealthRecord{ID: newUUID(), PetID: arg.PetID}, nil
}

func (f *fakeRecords) CreateHealthPrediction(_ context.Context, arg database.CreateHealthPredictionParams) (database.HealthPrediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.predictions = append(f.predictions, arg)
	return database.HealthPrediction{ID: newUUID(), HealthRecordID: arg.HealthRecordID, Severity: arg.Severity}, nil
}

func (f *fakeRecords) ListHealthPredictionsByPet(context.Context, pgtype.UUID) ([]database.HealthPrediction, error) {
	return f.list, nil
}

type fakeGeocoder struct {
	loc geocode.Location
	err error
}

func (f fakeGeocoder) Geocode(context.Context, string) (geocode.Location, error) {
	return f.loc, f.err
}

type fakeDirectory struct {
	got directory.SearchParams
	err error
}

func (f *fakeDirectory) SearchOrganizations(_ context.Context, p directory.SearchParams) ([]directory.Organization, error) {
	f.got = p
	if f.err != nil {
		return nil, f.err
	}
	if strings.TrimSpace(p.Location) == "" {
		return nil, directory.ErrMissingLocation
	}
	return []directory.Organization{{ID: "CA1", Name: "Bay Rescue"}}, nil
}

type fakePhotos struct {
	filename    string
	contentType string
}

func (f *fakePhotos) Upload(_ context.Context, filename, contentType string, _ []byte) (string, error) {
	f.filename, f.contentType = filename, contentType
	return "1710491400000-" + filename, nil
}

/* ====================================================================
                   		Helpers
==================================================================== */

type testEnv struct {
	e        *echo.Echo
	provider *fakeProvider
	handler  *Handler
}

func newEnv(t *testing.T, deps Deps) *testEnv {
	t.Helper()
	provider := &fakeProvider{}
	store, err := responsecache.NewMemoryStore(64)
	require.NoError(t, err)
	deps.AI = geminiservice.NewGateway(provider, responsecache.New(store))

	h := NewHandler(deps)
	e := echo.New()
	passthrough := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	h.RegisterRoutes(e.Group("/api"), passthrough)

	return &testEnv{e: e, provider: provider, handler: h}
}

func (env *testEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

/* ====================================================================
                   		Analyses
==================================================================== */

func TestAnalyzeSymptoms_CachesRepeatRequests(t *testing.T) {
	env := newEnv(t, Deps{})
	env.provider.reply = "See a vet within 24 hours."

	for i := 0; i < 2; i++ {
		rec, body := env.do(t, http.MethodPost, "/api/analyze/symptoms", `{"symptoms":"limping and not eating"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "See a vet within 24 hours.", body["analysis"])
	}
	assert.EqualValues(t, 1, env.provider.calls.Load())
}

func TestAnalyzeHandlers_ValidationIs400(t *testing.T) {
	env := newEnv(t, Deps{})

	cases := map[string]string{
		"/api/analyze/symptoms":  `{"symptoms":"   "}`,
		"/api/analyze/first-aid": `{}`,
		"/api/analyze/media":     `{"media":"data:image/png,abc"}`,
		"/api/analyze/audio":     `{"audio":"not a data url"}`,
		"/api/analyze/plant":     `{"image":""}`,
		"/api/recipes":           `{"ingredients":[]}`,
		"/api/memorials":         `{"species":"cat"}`,
		"/api/growth":            `{"breed":"Beagle","age":3,"weight":0}`,
	}
	for path, body := range cases {
		t.Run(path, func(t *testing.T) {
			rec, _ := env.do(t, http.MethodPost, path, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.EqualValues(t, 0, env.provider.calls.Load())
}

func TestAnalyzeHandlers_ProviderFailureIs502(t *testing.T) {
	env := newEnv(t, Deps{})
	env.provider.err = errors.New("upstream exploded")

	rec, body := env.do(t, http.MethodPost, "/api/analyze/behavior", `{"behavior":"digging"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, analysisFailedMsg, body["error"])
	assert.NotContains(t, rec.Body.String(), "exploded")
}

func TestAnalyzeMedia(t *testing.T) {
	env := newEnv(t, Deps{})
	media := "data:video/mp4;base64," + base64.StdEncoding.EncodeToString([]byte("clip"))

	rec, body := env.do(t, http.MethodPost, "/api/analyze/media", `{"media":"`+media+`","is_video":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["analysis"])
	assert.Equal(t, "video/mp4", env.provider.last.Attachment.MIMEType)
}

func TestStructuredEndpoints(t *testing.T) {
	env := newEnv(t, Deps{})

	rec, body := env.do(t, http.MethodPost, "/api/recipes", `{"ingredients":["pumpkin","oats"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["recipe"])

	rec, body = env.do(t, http.MethodPost, "/api/memorials", `{"name":"Max","species":"Labrador","years":12,"description":"loved the beach"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["memorial"])

	rec, body = env.do(t, http.MethodPost, "/api/growth", `{"species":"dog","breed":"Beagle","age":6,"weight":7.5,"height":30}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["analysis"])
	assert.Contains(t, env.provider.last.Prompt, "Height: 30.0 cm")
}

/* ====================================================================
                   		Location and Directory
==================================================================== */

func TestAnalyzeLocation(t *testing.T) {
	env := newEnv(t, Deps{Geocoder: fakeGeocoder{loc: geocode.Location{Latitude: 37.77, Longitude: -122.42, Address: "San Francisco, CA, USA"}}})

	rec, body := env.do(t, http.MethodPost, "/api/locations/analyze", `{"address":"sf"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["analysis"])
	loc := body["location"].(map[string]any)
	assert.Equal(t, "San Francisco, CA, USA", loc["address"])
	assert.Contains(t, env.provider.last.Prompt, "San Francisco, CA, USA")
}

func TestAnalyzeLocation_Errors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		env := newEnv(t, Deps{})
		rec, _ := env.do(t, http.MethodPost, "/api/locations/analyze", `{"address":"sf"}`)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("address not found", func(t *testing.T) {
		env := newEnv(t, Deps{Geocoder: fakeGeocoder{err: geocode.ErrNotFound}})
		rec, body := env.do(t, http.MethodPost, "/api/locations/analyze", `{"address":"atlantis"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Address not found", body["error"])
		assert.EqualValues(t, 0, env.provider.calls.Load())
	})

	t.Run("geocoder failure", func(t *testing.T) {
		env := newEnv(t, Deps{Geocoder: fakeGeocoder{err: errors.New("quota")}})
		rec, _ := env.do(t, http.MethodPost, "/api/locations/analyze", `{"address":"sf"}`)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestAdoptionCenters(t *testing.T) {
	dir := &fakeDirectory{}
	env := newEnv(t, Deps{Directory: dir})

	rec, body := env.do(t, http.MethodGet, "/api/adoption-centers?location=Oakland&distance=25", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["organizations"], 1)
	assert.Equal(t, 25, dir.got.Distance)
	assert.Equal(t, 0, dir.got.Limit)

	rec, _ = env.do(t, http.MethodGet, "/api/adoption-centers", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/adoption-centers?location=x&limit=ten", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	dir.err = errors.New("petfinder down")
	rec, _ = env.do(t, http.MethodGet, "/api/adoption-centers?location=Oakland", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAdoptionCenters_NotConfigured(t *testing.T) {
	env := newEnv(t, Deps{})
	rec, _ := env.do(t, http.MethodGet, "/api/adoption-centers?location=Oakland", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
