// Package i18n selects the display language of host pages and looks up their phrases.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale is one of the two supported display languages.
type Locale string

const (
	// Korean is the primary locale and the default for every request.
	Korean Locale = "ko"
	// Japanese is the alternate locale.
	Japanese Locale = "ja"

	// Primary is the locale used when no valid preference is present.
	Primary = Korean
	// Alternate is the only other locale a preference can select.
	Alternate = Japanese

	// DefaultCookieName is the cookie carrying the host locale preference.
	DefaultCookieName = "host-locale"
)

// String returns the locale token as stored in the cookie.
func (l Locale) String() string { return string(l) }

// IsAlternate reports whether l is the alternate locale.
func (l Locale) IsAlternate() bool { return l == Alternate }

// Tag returns the language tag used for number formatting.
func (l Locale) Tag() language.Tag {
	if l == Japanese {
		return language.Japanese
	}
	return language.Korean
}

// ParseLocale maps a token to a Locale. Anything but the alternate token is Primary.
func ParseLocale(token string) Locale {
	if strings.TrimSpace(token) == string(Alternate) {
		return Alternate
	}
	return Primary
}

// FromCookieHeader extracts the locale preference from a raw Cookie header
// using DefaultCookieName. An empty header yields Primary.
func FromCookieHeader(raw string) Locale {
	return FromCookieHeaderNamed(raw, DefaultCookieName)
}

// FromCookieHeaderNamed is FromCookieHeader with a configurable cookie name.
// Malformed pairs are skipped; the first pair whose name matches exactly wins.
func FromCookieHeaderNamed(raw, name string) Locale {
	if raw == "" || name == "" {
		return Primary
	}
	for _, part := range strings.Split(raw, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || strings.TrimSpace(k) != name {
			continue
		}
		if strings.TrimSpace(v) == string(Alternate) {
			return Alternate
		}
		return Primary
	}
	return Primary
}
