package nota

import (
	"regexp"
	"strconv"
)

var (
	intRegexp   = regexp.MustCompile(`^[+-]?[0-9]+$`)
	floatRegexp = regexp.MustCompile(`^[+-]?[0-9]+\.[0-9]+([eE][+-]?[0-9]+)?$`)
)

// coerceScalar maps an inline token to a typed value. The precedence is
// fixed: boolean literal, integer, float, nil, then string. Only the string
// fallback is escape-decoded, so `true` is a Bool but `\true` is not.
// Coercion itself never fails; the only possible error is a bad escape in
// the string fallback, reported as the offending sequence and its 0-based
// offset in token.
func coerceScalar(token string) (v *Value, badEscape string, offset int) {
	switch token {
	case "true":
		return BoolValue(true), "", 0
	case "false":
		return BoolValue(false), "", 0
	case "nil":
		return nilValue, "", 0
	}
	if intRegexp.MatchString(token) {
		if i, err := strconv.ParseInt(token, 10, 64); err == nil {
			return IntValue(i), "", 0
		}
		// Out of int64 range; fall through to the string fallback.
	} else if floatRegexp.MatchString(token) {
		f, _ := strconv.ParseFloat(token, 64)
		return FloatValue(f), "", 0
	}
	s, bad, off := decodeEscapes(token)
	if bad != "" {
		return nil, bad, off
	}
	return StringValue(s), "", 0
}
