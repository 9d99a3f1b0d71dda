package server

import (
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"monochrome/internal/auth"
	"monochrome/internal/config"
	"monochrome/internal/palette"
	"monochrome/internal/service"
	"monochrome/internal/store"
	"monochrome/internal/stylesheet"
	"monochrome/internal/ui"
)

func TestMain(m *testing.M) {
	ui.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type fixture struct {
	handler http.Handler
	repo    *store.MemoryRepository
}

func newFixture(t *testing.T, whitelist ...string) *fixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	users, err := auth.NewUserStoreFromConfig(auth.UsersConfig{
		Users: []auth.User{
			{Username: "Alice", PasswordHash: string(hash), Enabled: true},
			{Username: "bob", PasswordHash: string(hash), Enabled: true, RateLimitRPM: 12},
			{Username: "carol", PasswordHash: string(hash), Enabled: false},
		},
		IPWhitelist: whitelist,
	}, 0)
	require.NoError(t, err)

	renderer, err := stylesheet.NewRenderer(stylesheet.Scheme{})
	require.NoError(t, err)

	repo := store.NewMemoryRepository()
	gen := &palette.Generator{Source: rand.New(rand.NewPCG(1, 2))}
	svc := service.New(repo, renderer, gen)

	cfg := &config.Config{
		Listen:     ":0",
		TimeoutSec: 5,
		Env:        &config.EnvConfig{AllowedOrigin: "*"},
	}

	return &fixture{handler: NewServer(cfg, svc, users).Handler(), repo: repo}
}

func (f *fixture) do(t *testing.T, method, path, user string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if user != "" {
		req.SetBasicAuth(user, "secret")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/palette", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")
	resp := decode(t, rec)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)

	req := httptest.NewRequest(http.MethodGet, "/api/palette", nil)
	req.SetBasicAuth("alice", "wrong")
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Disabled users are unknown
	rec = f.do(t, http.MethodGet, "/api/palette", "carol", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetPalette_GeneratesAndKeeps(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/palette", "alice", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	require.True(t, resp.Success)

	var view struct {
		Palette palette.Palette       `json:"palette"`
		Scheme  stylesheet.Descriptor `json:"scheme"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &view))

	assert.True(t, view.Palette.Consistent())
	assert.Equal(t, stylesheet.DefaultSlug, view.Scheme.Slug)
	assert.Equal(t, []palette.Color{view.Palette.BaseColor}, view.Scheme.Colors)

	// Username case does not change the identity
	again := f.do(t, http.MethodGet, "/api/palette", "ALICE", nil, "")
	require.Equal(t, http.StatusOK, again.Code)
	assert.JSONEq(t, rec.Body.String(), again.Body.String())
}

func TestSetBase_Form(t *testing.T) {
	f := newFixture(t)

	form := url.Values{"color": {"#E0E0E0"}}.Encode()
	rec := f.do(t, http.MethodPost, "/api/palette", "alice", strings.NewReader(form), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusOK, rec.Code)

	var cmd struct {
		CSS  string `json:"css"`
		Base string `json:"base"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &cmd))
	assert.Equal(t, "#e0e0e0", cmd.Base)
	assert.Contains(t, cmd.CSS, "#6e6e6e")
	assert.Contains(t, cmd.CSS, "#9d9d9d")

	stored, err := f.repo.Get(t.Context(), "alice")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, palette.Assemble(palette.Validate("#e0e0e0")), *stored)
}

func TestSetBase_JSON(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/palette", "alice", strings.NewReader(`{"color":"not-a-color"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)

	var cmd struct {
		Base string `json:"base"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &cmd))
	assert.Equal(t, "#000000", cmd.Base)
}

func TestSetBase_MalformedBody(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/palette", "alice", strings.NewReader(`{"color":`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode(t, rec)
	assert.False(t, resp.Success)

	stored, err := f.repo.Get(t.Context(), "alice")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestRandomize(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/palette/randomize", "alice", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var cmd struct {
		CSS  string `json:"css"`
		Base string `json:"base"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &cmd))
	assert.True(t, palette.IsValid(cmd.Base))
	assert.Contains(t, cmd.CSS, cmd.Base)

	stored, err := f.repo.Get(t.Context(), "alice")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, cmd.Base, stored.BaseColor.String())
}

func TestStylesheetAndReset(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/palette.css", "alice", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	assert.Contains(t, rec.Body.String(), "body.admin-color-mymono")

	stored, err := f.repo.Get(t.Context(), "alice")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Contains(t, rec.Body.String(), stored.BaseColor.String())

	rec = f.do(t, http.MethodDelete, "/api/palette", "alice", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode(t, rec).Success)

	stored, err = f.repo.Get(t.Context(), "alice")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestPickerStyles_NoAuth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/picker.css", "", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	assert.Contains(t, rec.Body.String(), "mymono-color-option")
}

func TestRateLimit(t *testing.T) {
	f := newFixture(t)

	// 12 rpm allows a burst of 5
	for i := 0; i < 5; i++ {
		rec := f.do(t, http.MethodGet, "/api/palette", "bob", nil, "")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}

	rec := f.do(t, http.MethodGet, "/api/palette", "bob", nil, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.False(t, decode(t, rec).Success)

	// Other users keep their own budget
	rec = f.do(t, http.MethodGet, "/api/palette", "alice", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIPAllowList(t *testing.T) {
	f := newFixture(t, "10.0.0.0/8")

	req := httptest.NewRequest(http.MethodGet, "/api/palette", nil)
	req.RemoteAddr = "192.0.2.1:4321"
	req.SetBasicAuth("alice", "secret")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/palette", nil)
	req.RemoteAddr = "10.1.2.3:4321"
	req.SetBasicAuth("alice", "secret")
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/palette", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestStats(t *testing.T) {
	f := newFixture(t)

	f.do(t, http.MethodPost, "/api/palette/randomize", "alice", nil, "")
	f.do(t, http.MethodGet, "/api/palette", "", nil, "")

	rec := f.do(t, http.MethodGet, "/api/stats", "", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats StatsResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &stats))
	assert.Equal(t, int64(2), stats.Requests)
	assert.Equal(t, int64(1), stats.Commands)
	assert.Equal(t, 100.0, stats.SuccessRate)
}

func TestStats_SuccessRate(t *testing.T) {
	s := newStats()
	assert.Equal(t, 100.0, s.SuccessRate())

	s.Record(http.MethodGet, http.StatusOK)
	s.Record(http.MethodPost, http.StatusInternalServerError)
	assert.Equal(t, 50.0, s.SuccessRate())
	assert.Equal(t, int64(0), s.Snapshot().Commands)
}
