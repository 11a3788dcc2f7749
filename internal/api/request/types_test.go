package request

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatValueAcceptsNumbersAndStrings(t *testing.T) {
	var req PlayerRequest
	body := `{"name":"Ortiz","position":"DH","avg":0.285,"obp":"0.380","slg":null}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	draft := req.Draft()
	assert.Equal(t, "0.285", draft.AVG)
	assert.Equal(t, "0.380", draft.OBP)
	assert.Equal(t, "", draft.SLG)
}

func TestStatValueKeepsNonNumericText(t *testing.T) {
	var req PlayerRequest
	require.NoError(t, json.Unmarshal([]byte(`{"avg":true,"obp":"abc"}`), &req))

	assert.Equal(t, StatValue("true"), req.AVG)
	assert.Equal(t, StatValue("abc"), req.OBP)
}

func TestDecodeLoginJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"pw1"}`))
	r.Header.Set("Content-Type", "application/json")

	req, err := DecodeLogin(httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.Equal(t, LoginRequest{Username: "alice", Password: "pw1"}, req)
}

func TestDecodeLoginForm(t *testing.T) {
	form := url.Values{"username": {"alice"}, "password": {"pw1"}}
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	req, err := DecodeLogin(httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.Equal(t, LoginRequest{Username: "alice", Password: "pw1"}, req)
}

func TestDecodeLoginRejectsBadJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":`))
	r.Header.Set("Content-Type", "application/json")

	_, err := DecodeLogin(httptest.NewRecorder(), r)
	assert.ErrorIs(t, err, ErrInvalidBody)
}
