package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestFromCookieHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   Locale
	}{
		{name: "alternate with other cookies", header: "host-locale=ja; other=x", want: Japanese},
		{name: "alternate last", header: "session_id=abc; host-locale=ja", want: Japanese},
		{name: "surrounding whitespace", header: "  host-locale =  ja  ;other=x", want: Japanese},
		{name: "cookie missing", header: "other=x", want: Korean},
		{name: "empty header", header: "", want: Korean},
		{name: "unknown value", header: "host-locale=xx", want: Korean},
		{name: "explicit primary", header: "host-locale=ko", want: Korean},
		{name: "empty value", header: "host-locale=", want: Korean},
		{name: "case sensitive value", header: "host-locale=JA", want: Korean},
		{name: "prefix of other cookie name", header: "xhost-locale=ja", want: Korean},
		{name: "malformed pairs skipped", header: "garbage; ;host-locale=ja", want: Japanese},
		{name: "first match wins", header: "host-locale=ko; host-locale=ja", want: Korean},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromCookieHeader(tt.header))
		})
	}
}

func TestFromCookieHeaderNamed(t *testing.T) {
	assert.Equal(t, Japanese, FromCookieHeaderNamed("lang=ja", "lang"))
	assert.Equal(t, Korean, FromCookieHeaderNamed("host-locale=ja", "lang"))
	assert.Equal(t, Korean, FromCookieHeaderNamed("lang=ja", ""))
}

func TestFromCookieHeader_Idempotent(t *testing.T) {
	header := "host-locale=ja; other=x"
	assert.Equal(t, FromCookieHeader(header), FromCookieHeader(header))
}

func TestLocaleHelpers(t *testing.T) {
	assert.True(t, Japanese.IsAlternate())
	assert.False(t, Korean.IsAlternate())
	assert.Equal(t, "ja", Japanese.String())
	assert.Equal(t, language.Japanese, Japanese.Tag())
	assert.Equal(t, language.Korean, Korean.Tag())
	assert.Equal(t, Japanese, ParseLocale(" ja "))
	assert.Equal(t, Korean, ParseLocale("en"))
}
