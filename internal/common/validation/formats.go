// internal/common/validation/formats.go
package validation

import (
	"net/url"
	"regexp"

	"github.com/xeipuuv/gojsonschema"
)

// Custom formats usable from any schema compiled by this package.
const (
	FormatEmailAddress  = "email-address"
	FormatOptionalEmail = "optional-email"
	FormatOptionalURL   = "optional-url"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func init() {
	gojsonschema.FormatCheckers.Add(FormatEmailAddress, emailChecker{optional: false})
	gojsonschema.FormatCheckers.Add(FormatOptionalEmail, emailChecker{optional: true})
	gojsonschema.FormatCheckers.Add(FormatOptionalURL, urlChecker{optional: true})
}

type emailChecker struct{ optional bool }

func (c emailChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok {
		return false
	}
	if s == "" {
		return c.optional
	}
	return IsEmail(s)
}

type urlChecker struct{ optional bool }

func (c urlChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok {
		return false
	}
	if s == "" {
		return c.optional
	}
	return IsURL(s)
}

func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsURL accepts absolute URLs: a scheme plus a host or opaque part.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}
