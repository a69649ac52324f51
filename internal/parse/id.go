package parse

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrEmptyID is returned when the raw value carries no id at all.
var ErrEmptyID = errors.New("empty id")

// IsEmpty reports whether a raw selection value means "nothing selected".
func IsEmpty(raw string) bool {
	return strings.TrimSpace(raw) == ""
}

// CategoryID converts the string value posted by the category control into the
// numeric id stored on assets. Integral decimal forms such as "12", " 12 " and
// "12.0" are accepted; anything else is an error.
func CategoryID(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrEmptyID
	}

	// 1) plain integers, the common case
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}

	// 2) numeric strings with a fractional part that happens to be zero
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("unable to parse category id: %q", raw)
	}
	if f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("category id is not an integer: %q", raw)
	}
	return int64(f), nil
}

// AssetID parses an asset id taken from a URL path segment. Only positive
// decimal integers are accepted.
func AssetID(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrEmptyID
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unable to parse asset id %q: %w", raw, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("asset id must be positive: %q", raw)
	}
	return n, nil
}
