package validator

import (
	"net/url"
	"strings"

	"github.com/apivet/apivet/internal/stringutil"
)

// isValidURL performs URL validation using the standard library's
// url.Parse. OAS URL fields accept absolute URLs of any scheme, relative
// references starting with "/", "./", or "../", and same-document
// fragments such as the operationRef form "#/paths/~1pets/get".
func isValidURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "" {
		return true
	}
	return strings.HasPrefix(s, "/") ||
		strings.HasPrefix(s, "./") ||
		strings.HasPrefix(s, "../") ||
		strings.HasPrefix(s, "#")
}

// isValidEmail validates an email address by delegating to
// [stringutil.IsValidEmail]. Empty is valid because the field is optional.
func isValidEmail(s string) bool {
	if s == "" {
		return true
	}
	return stringutil.IsValidEmail(s)
}
