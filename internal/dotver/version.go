// Package dotver implements the dotted numeric version model used by stamp:
// up to four components (major.minor.build.revision) compared numerically.
package dotver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// absent marks an optional component (build or revision) that the parsed text omitted.
const absent = -1

// Version is a dotted numeric version. Build and Revision are -1 when the
// source text did not contain them; an absent component sorts before 0.
type Version struct {
	Major    int
	Minor    int
	Build    int
	Revision int
}

// Unset is the uninitialized version ("0.0" with build and revision absent).
// A scan whose maximum is still Unset found nothing.
var Unset = Version{Major: 0, Minor: 0, Build: absent, Revision: absent}

// ErrInvalidVersion is returned when a string is not a dotted numeric version.
var ErrInvalidVersion = errors.New("invalid version format")

// maxVersionLength bounds the input accepted by Parse.
const maxVersionLength = 128

// Parse parses a dotted version of 2 to 4 non-negative integer components.
//
// Supported formats:
//   - "1.2" (build and revision absent)
//   - "1.2.3" (revision absent)
//   - "1.2.3.4"
//
// Returns an error wrapping ErrInvalidVersion for anything else.
func Parse(s string) (Version, error) {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) > maxVersionLength {
		return Version{}, fmt.Errorf("%w: version string exceeds maximum length of %d", ErrInvalidVersion, maxVersionLength)
	}

	parts := strings.Split(trimmed, ".")
	if len(parts) < 2 || len(parts) > 4 {
		return Version{}, fmt.Errorf("%w: %q must have 2 to 4 components", ErrInvalidVersion, s)
	}

	nums := [4]int{0, 0, absent, absent}
	for i, p := range parts {
		if p == "" || !isAllDigits(p) {
			return Version{}, fmt.Errorf("%w: component %q of %q is not a number", ErrInvalidVersion, p, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("%w: component %q of %q: %s", ErrInvalidVersion, p, s, err.Error())
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Build: nums[2], Revision: nums[3]}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String renders only the components that are present, so that
// Parse(v.String()) == v for every parsed value.
func (v Version) String() string {
	var sb strings.Builder
	sb.Grow(16)
	sb.WriteString(strconv.Itoa(v.Major))
	sb.WriteByte('.')
	sb.WriteString(strconv.Itoa(v.Minor))
	if v.Build >= 0 {
		sb.WriteByte('.')
		sb.WriteString(strconv.Itoa(v.Build))
		if v.Revision >= 0 {
			sb.WriteByte('.')
			sb.WriteString(strconv.Itoa(v.Revision))
		}
	}
	return sb.String()
}

// Compare returns -1 if v < other, 0 if they are equal and +1 if v > other.
func (v Version) Compare(other Version) int {
	if c := compareInt(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := compareInt(v.Build, other.Build); c != 0 {
		return c
	}
	return compareInt(v.Revision, other.Revision)
}

// GreaterThan reports whether v is strictly greater than other.
func (v Version) GreaterThan(other Version) bool {
	return v.Compare(other) > 0
}

// Equal reports component-wise equality.
func (v Version) Equal(other Version) bool {
	return v == other
}

// IsUnset reports whether v is the uninitialized version.
func (v Version) IsUnset() bool {
	return v == Unset
}

// HasBuild reports whether the build component was present.
func (v Version) HasBuild() bool {
	return v.Build >= 0
}

// HasRevision reports whether the revision component was present.
func (v Version) HasRevision() bool {
	return v.Revision >= 0
}

// DotCount returns the number of '.' separators in a version token.
func DotCount(token string) int {
	return strings.Count(token, ".")
}

func isAllDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
