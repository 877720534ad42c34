package utils

import "regexp"

// MaxUsernameLength is GitHub's handle length limit
const MaxUsernameLength = 39

// Alphanumerics and hyphens, no leading or trailing hyphen
var usernameRegexp = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)

// IsValidUsername reports whether a string is a well-formed GitHub handle
func IsValidUsername(username string) bool {
	if len(username) == 0 || len(username) > MaxUsernameLength {
		return false
	}
	return usernameRegexp.MatchString(username)
}
