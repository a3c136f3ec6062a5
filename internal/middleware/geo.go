package middleware

import (
	"strings"

	"github.com/m1z23r/drift/pkg/drift"
)

const (
	CountryKey  = "country"
	LanguageKey = "language"

	defaultCountry  = "US"
	defaultLanguage = "en"
)

// Geo derives the request's country and language, used to localize template
// recommendations. Country comes from the CF-IPCountry header the CDN edge
// injects; language from the first Accept-Language entry.
func Geo() drift.HandlerFunc {
	return func(c *drift.Context) {
		country := strings.ToUpper(c.GetHeader("CF-IPCountry"))
		if country == "" || country == "XX" {
			country = defaultCountry
		}

		lang := parseLanguage(c.GetHeader("Accept-Language"))

		c.Set(CountryKey, country)
		c.Set(LanguageKey, lang)

		c.Next()
	}
}

// parseLanguage extracts the primary subtag of the first entry, so
// "zh-CN,zh;q=0.9" yields "zh".
func parseLanguage(header string) string {
	if header == "" {
		return defaultLanguage
	}
	first := header
	if i := strings.IndexByte(first, ','); i >= 0 {
		first = first[:i]
	}
	if i := strings.IndexByte(first, ';'); i >= 0 {
		first = first[:i]
	}
	if i := strings.IndexByte(first, '-'); i >= 0 {
		first = first[:i]
	}
	first = strings.ToLower(strings.TrimSpace(first))
	if first == "" || first == "*" {
		return defaultLanguage
	}
	return first
}

func GetCountry(c *drift.Context) string {
	if v, ok := c.Get(CountryKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return defaultCountry
}

func GetLanguage(c *drift.Context) string {
	if v, ok := c.Get(LanguageKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return defaultLanguage
}
