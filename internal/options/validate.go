// Package options provides shared utilities for option validation across packages.
package options

import "github.com/apivet/apivet/oaserrors"

// ValidateSingleInputSource ensures exactly one input source is specified.
// sources is a variadic list of booleans indicating whether each source is
// set. Returns a ConfigError when zero or more than one is set.
func ValidateSingleInputSource(noSourceMsg, multiSourceMsg string, sources ...bool) error {
	count := 0
	for _, hasSource := range sources {
		if hasSource {
			count++
		}
	}
	if count == 0 {
		return &oaserrors.ConfigError{Message: noSourceMsg}
	}
	if count > 1 {
		return &oaserrors.ConfigError{Message: multiSourceMsg}
	}
	return nil
}
