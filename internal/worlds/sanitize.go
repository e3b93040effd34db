// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package worlds

import "regexp"

var nonWordPattern = regexp.MustCompile(`\W+`)

// Sanitize turns a user supplied world name into a storage identifier by
// dropping every character outside [0-9A-Za-z_].
// Sanitize(Sanitize(s)) == Sanitize(s) for every s.
func Sanitize(name string) string {
	return nonWordPattern.ReplaceAllString(name, "")
}
