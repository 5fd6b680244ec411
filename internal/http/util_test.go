package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeRedirectPath(t *testing.T) {
	tests := map[string]string{
		"":                      "/",
		"/host":                 "/host",
		"/host?tab=bookings":    "/host?tab=bookings",
		"https://evil.example/": "/",
		"//evil.example/x":      "/",
		"host":                  "/",
		"/\\evil.example":       "/",
		"/\\/evil.example":      "/",
		"/host\\..\\x":          "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeRedirectPath(in), "input %q", in)
	}
}

func TestSafeRedirectFromURL(t *testing.T) {
	assert.Equal(t, "/host?x=1", safeRedirectFromURL("https://minbak.example/host?x=1"))
	assert.Empty(t, safeRedirectFromURL(""))
	assert.Equal(t, "/", safeRedirectFromURL("https://minbak.example"))
}

func TestParseLimitOffset(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{query: "", wantLimit: defaultPageLimit, wantOffset: 0},
		{query: "limit=5&offset=10", wantLimit: 5, wantOffset: 10},
		{query: "limit=1000&offset=-4", wantLimit: maxPageLimit, wantOffset: 0},
		{query: "limit=0", wantLimit: 1, wantOffset: 0},
		{query: "limit=abc", wantLimit: defaultPageLimit, wantOffset: 0},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/listings?"+tt.query, nil)
		lim, off := ParseLimitOffset(req, defaultPageLimit, maxPageLimit)
		assert.Equal(t, tt.wantLimit, lim, tt.query)
		assert.Equal(t, tt.wantOffset, off, tt.query)
	}
}
