package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Strut/internal/auth"
	"Strut/internal/config"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const examplePayload = `{
  "name": "Hsb2103001",
  "group": "test",
  "fasteners": [
    {"name": "fast1", "shear_allowable": 18500, "tension_allowable": 12000, "y": -70, "z": 35},
    {"name": "fast2", "shear_allowable": 18500, "tension_allowable": 12000, "y": -40, "z": 35},
    {"name": "fast3", "shear_allowable": 18500, "tension_allowable": 12000, "y": -40, "z": 15},
    {"name": "fast4", "shear_allowable": 18500, "tension_allowable": 12000, "y": -60, "z": 15}
  ],
  "forces": {"fx": 10000, "fy": 12000, "fz": -2000},
  "moments": {"mx": -240000, "my": 200000, "mz": 0},
  "application_point": {"x": 30}
}`

func newServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	cfg := &config.Config{TokenKey: "secret", RateLimit: 100, RateBurst: 100, MaxIterations: 10}
	r := mux.NewRouter()
	HandleList(r, cfg)
	srv := httptest.NewServer(CORS(r))
	t.Cleanup(srv.Close)

	tok, err := (&auth.Authenv{JWTkey: []byte(cfg.TokenKey)}).IssueToken("test", time.Hour)
	require.NoError(t, err)
	return srv, tok
}

func TestRoutesRequireToken(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Post(srv.URL+"/api/tools/fasteners/calc", "application/json", strings.NewReader(examplePayload))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCalcRoute(t *testing.T) {
	srv, tok := newServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/tools/fasteners/calc?iterate=true", strings.NewReader(examplePayload))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/tools/fasteners/calc", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
}

// gorilla/mux answers 404 rather than 405 once a subrouter holds more than
// one route, so a wrong method on an API path is simply not found.
func TestWrongMethodNotRouted(t *testing.T) {
	srv, tok := newServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/tools/fasteners/calc", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
