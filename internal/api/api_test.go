package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/battingstats/internal/api"
	"github.com/mcoot/battingstats/internal/api/apierr"
	"github.com/mcoot/battingstats/internal/api/response"
	"github.com/mcoot/battingstats/internal/factory"
	"github.com/mcoot/battingstats/internal/model"
	"github.com/mcoot/battingstats/internal/services/players"
	"github.com/mcoot/battingstats/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T, opts ...factory.TestOption) *testServer {
	t.Helper()

	app := factory.NewTestApp(opts...)

	router := api.NewRouter(api.RouterConfig{
		Logger:        testutil.NopLogger(),
		AuthService:   app.AuthService,
		PlayerService: app.PlayerService,
		Metrics:       app.Metrics,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// login logs in and returns the session cookie value
func (ts *testServer) login(t *testing.T, username, password string) string {
	t.Helper()

	rr := ts.request(http.MethodPost, "/login", map[string]string{"username": username, "password": password}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	cookie := sessionCookie(rr)
	require.NotNil(t, cookie, "login for %s set no session cookie", username)
	return cookie.Value
}

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	return nil
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}

func ortiz() map[string]any {
	return map[string]any{"name": "Ortiz", "position": "DH", "avg": ".285", "obp": ".380", "slg": ".552"}
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decode[response.Health](t, rr).Status)
}

func TestFirstLoginRegistersAndUserReturnsAccount(t *testing.T) {
	ts := newTestServer(t)
	ts.app.MockRandom.QueueID("acct-alice")

	rr := ts.request(http.MethodPost, "/login", map[string]string{"username": "alice", "password": "pw1"}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[response.LoginResponse](t, rr)
	assert.True(t, resp.Success)
	assert.Equal(t, "New account created successfully! You are now logged in.", resp.Message)
	assert.Equal(t, "/dashboard", resp.Redirect)

	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: cookie.Value})
	userRR := httptest.NewRecorder()
	ts.handler.ServeHTTP(userRR, req)

	require.Equal(t, http.StatusOK, userRR.Code)
	user := decode[response.User](t, userRR)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "acct-alice", user.UserID)
}

func TestSecondLoginAuthenticates(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "alice", "pw1")

	rr := ts.request(http.MethodPost, "/login", map[string]string{"username": "alice", "password": "pw1"}, "")
	resp := decode[response.LoginResponse](t, rr)
	assert.True(t, resp.Success)
	assert.Equal(t, "Login successful!", resp.Message)
}

func TestWrongPasswordIsNotAnHTTPError(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "alice", "pw1")

	rr := ts.request(http.MethodPost, "/login", map[string]string{"username": "alice", "password": "wrong"}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[response.LoginResponse](t, rr)
	assert.False(t, resp.Success)
	assert.Equal(t, "Incorrect password. Please try again.", resp.Message)
	assert.Empty(t, resp.Redirect)
	assert.Nil(t, sessionCookie(rr))
}

func TestLoginAcceptsFormBody(t *testing.T) {
	ts := newTestServer(t)

	form := url.Values{"username": {"alice"}, "password": {"pw1"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[response.LoginResponse](t, rr).Success)
	assert.NotNil(t, sessionCookie(rr))
}

func TestLoginRejectsBadInput(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/login", map[string]string{"username": "  ", "password": "pw"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decode[apierr.ErrorResponse](t, rr).Error.Code)
}

func TestUserWithoutSessionRedirectsToLogin(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/user", nil, "")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))

	rr = ts.request(http.MethodGet, "/user", nil, "sess_stale")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestPlayersRequireSession(t *testing.T) {
	ts := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/players"},
		{http.MethodPost, "/players"},
		{http.MethodPut, "/players/p1"},
		{http.MethodDelete, "/players/p1"},
	} {
		rr := ts.request(tc.method, tc.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, apierr.CodeUnauthorized, decode[apierr.ErrorResponse](t, rr).Error.Code)
	}
}

func TestCreateComputesOPSAndReturnsListing(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "alice", "pw1")

	rr := ts.request(http.MethodPost, "/players", ortiz(), token)
	require.Equal(t, http.StatusOK, rr.Code)

	listing := decode[[]model.PlayerRecord](t, rr)
	require.Len(t, listing, 1)
	assert.Equal(t, "Ortiz", listing[0].Name)
	assert.Equal(t, model.PositionDesignatedHitter, listing[0].Position)
	assert.Equal(t, 0.932, listing[0].OPS)
	assert.Nil(t, listing[0].UpdatedAt)

	// Numbers are accepted as well as strings
	rr = ts.request(http.MethodPost, "/players", map[string]any{
		"name": "Ramirez", "position": "lf", "avg": 0.312, "obp": 0.411, "slg": 0.585,
	}, token)
	require.Equal(t, http.StatusOK, rr.Code)

	listing = decode[[]model.PlayerRecord](t, rr)
	require.Len(t, listing, 2)
	assert.Equal(t, "Ortiz", listing[0].Name)
	assert.Equal(t, "Ramirez", listing[1].Name)
	assert.Equal(t, 0.996, listing[1].OPS)
}

func TestListStartsEmpty(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "alice", "pw1")

	rr := ts.request(http.MethodGet, "/players", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestCreateValidationFailure(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "alice", "pw1")

	body := ortiz()
	body["obp"] = "1.001"
	body["position"] = "QB"
	rr := ts.request(http.MethodPost, "/players", body, token)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	resp := decode[apierr.ErrorResponse](t, rr)
	assert.Equal(t, apierr.CodeValidationFailed, resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "obp")
	assert.Contains(t, resp.Error.Fields, "position")

	rr = ts.request(http.MethodGet, "/players", nil, token)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestUpdateAndDelete(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "alice", "pw1")
	ts.app.MockRandom.QueueID("rec-1")
	ts.request(http.MethodPost, "/players", ortiz(), token)

	body := ortiz()
	body["avg"] = ".300"
	body["slg"] = ".600"
	rr := ts.request(http.MethodPut, "/players/rec-1", body, token)
	require.Equal(t, http.StatusOK, rr.Code)

	listing := decode[[]model.PlayerRecord](t, rr)
	require.Len(t, listing, 1)
	assert.Equal(t, 0.3, listing[0].AVG)
	assert.Equal(t, 0.98, listing[0].OPS)
	assert.NotNil(t, listing[0].UpdatedAt)

	rr = ts.request(http.MethodDelete, "/players/rec-1", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())

	// Deleting again is not an error
	rr = ts.request(http.MethodDelete, "/players/rec-1", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAccountsCannotTouchEachOthersRecords(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.login(t, "alice", "pw1")
	bob := ts.login(t, "bob", "pw2")
	ts.app.MockRandom.QueueID("rec-alice")
	ts.request(http.MethodPost, "/players", ortiz(), alice)

	rr := ts.request(http.MethodGet, "/players", nil, bob)
	assert.JSONEq(t, "[]", rr.Body.String())

	body := ortiz()
	body["name"] = "Hijacked"
	rr = ts.request(http.MethodPut, "/players/rec-alice", body, bob)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())

	rr = ts.request(http.MethodDelete, "/players/rec-alice", nil, bob)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/players", nil, alice)
	listing := decode[[]model.PlayerRecord](t, rr)
	require.Len(t, listing, 1)
	assert.Equal(t, "Ortiz", listing[0].Name)
}

func TestReportPolicyReturnsNotFound(t *testing.T) {
	ts := newTestServer(t, factory.WithMissingRecordPolicy(players.MissingRecordReport))
	token := ts.login(t, "alice", "pw1")

	rr := ts.request(http.MethodPut, "/players/nope", ortiz(), token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodePlayerNotFound, decode[apierr.ErrorResponse](t, rr).Error.Code)

	rr = ts.request(http.MethodDelete, "/players/nope", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "alice", "pw1")

	rr := ts.request(http.MethodPost, "/logout", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[response.LogoutResponse](t, rr)
	assert.True(t, resp.Success)
	assert.Equal(t, "Logged out successfully", resp.Message)

	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)

	rr = ts.request(http.MethodGet, "/players", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Logging out without a session still succeeds
	rr = ts.request(http.MethodPost, "/logout", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "alice", "pw1")
	ts.request(http.MethodPost, "/players", ortiz(), token)

	rr := ts.request(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, `bstats_auth_logins_total{outcome="created"} 1`)
	assert.Contains(t, body, `bstats_players_mutations_total{operation="create",result="ok"} 1`)
	assert.Contains(t, body, `bstats_http_requests_total{method="POST",route="/players",status_code="200"} 1`)
}
