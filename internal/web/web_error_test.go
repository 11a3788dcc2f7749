package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/battingstats/internal/testutil"
	"github.com/mcoot/battingstats/internal/web/middleware"
)

func TestPanicRendersErrorPage(t *testing.T) {
	h := middleware.Recovery(testutil.NopLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("template exploded")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "h1", "Something went wrong")
	assertContainsElement(t, doc, "a[href='/']")
}

func TestFlashSurvivesSpecialCharacters(t *testing.T) {
	rr := httptest.NewRecorder()
	middleware.SetFlash(rr, "error", "Bad input; try again, please")

	var got string
	h := middleware.Flash()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		if f := middleware.GetFlash(r.Context()); f != nil {
			got = f.Type + "|" + f.Message
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "error|Bad input; try again, please", got)
}
