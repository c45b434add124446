// Package httputil provides HTTP-related validation utilities used when
// checking responses objects and operation keys.
package httputil

import (
	"strconv"
	"strings"
)

const (
	statusCodeLength = 3   // Standard length of HTTP status codes (e.g., "200", "404")
	minStatusCode    = 100 // Minimum valid HTTP status code
	maxStatusCode    = 599 // Maximum valid HTTP status code
	wildcardChar     = 'X' // Wildcard character used in status code ranges (e.g., "2XX")
)

// Methods lists the HTTP methods a path item may carry in OAS 3.1,
// in the order the specification defines them.
var Methods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// IsMethod reports whether name is one of the OAS 3.1 path item methods.
func IsMethod(name string) bool {
	for _, m := range Methods {
		if name == m {
			return true
		}
	}
	return false
}

// standardStatusCodes contains RFC 9110 officially defined HTTP status codes.
var standardStatusCodes = map[string]bool{
	// 1xx Informational
	"100": true, "101": true, "102": true, "103": true,
	// 2xx Success
	"200": true, "201": true, "202": true, "203": true, "204": true, "205": true,
	"206": true, "207": true, "208": true, "226": true,
	// 3xx Redirection
	"300": true, "301": true, "302": true, "303": true, "304": true, "305": true,
	"307": true, "308": true,
	// 4xx Client Error
	"400": true, "401": true, "402": true, "403": true, "404": true, "405": true,
	"406": true, "407": true, "408": true, "409": true, "410": true, "411": true,
	"412": true, "413": true, "414": true, "415": true, "416": true, "417": true,
	"418": true, "421": true, "422": true, "423": true, "424": true, "425": true,
	"426": true, "428": true, "429": true, "431": true, "451": true,
	// 5xx Server Error
	"500": true, "501": true, "502": true, "503": true, "504": true, "505": true,
	"506": true, "507": true, "508": true, "510": true, "511": true,
}

// ValidStatusKey checks if a responses-object key is valid in OAS 3.1.
// Valid values are:
//   - "default" for the default response
//   - Range patterns: 1XX, 2XX, 3XX, 4XX, 5XX
//   - Numeric codes: 100-599
func ValidStatusKey(code string) bool {
	if code == "default" {
		return true
	}

	if len(code) != statusCodeLength {
		return false
	}

	// Range patterns (e.g., "2XX", "4XX")
	if code[1] == wildcardChar && code[2] == wildcardChar {
		return code[0] >= '1' && code[0] <= '5'
	}

	n, err := strconv.Atoi(code)
	if err != nil {
		return false
	}
	return n >= minStatusCode && n <= maxStatusCode
}

// IsStandardStatusCode reports whether code is one of the status codes
// defined by the HTTP RFCs. Non-standard codes are legal in OAS but worth
// a warning.
func IsStandardStatusCode(code string) bool {
	if code == "default" || strings.HasSuffix(code, "XX") {
		return true
	}
	return standardStatusCodes[code]
}
