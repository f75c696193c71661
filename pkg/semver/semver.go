// Package semver implements the version handling typm needs: parsing
// major.minor.patch triples and evaluating space-separated constraint
// requirements such as ">=0.12.0 <0.13.0".
//
// Parsing is deliberately forgiving about trailing text ("0.12.0-rc1"
// parses as 0.12.0) because the Typst compiler reports versions with
// revision suffixes. Requirement evaluation skips tokens it does not
// recognize, but fails the whole requirement when a recognized operator
// carries an operand that is not a version.
package semver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jassielof/typm/pkg/errors"
)

// versionRegex matches a major.minor.patch triple at the start of a string,
// after optional whitespace. Trailing characters are ignored.
var versionRegex = regexp.MustCompile(`^\s*(\d+)\.(\d+)\.(\d+)`)

// operators lists the recognized comparison operators, longest first so
// that ">=" wins over ">" during prefix detection.
var operators = []string{">=", "<=", "==", "!=", ">", "<", "="}

// Version is a parsed semantic version triple.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses a version triple from the start of s. Pre-release and
// build suffixes are ignored.
func ParseVersion(s string) (Version, error) {
	m := versionRegex.FindStringSubmatch(s)
	if m == nil {
		return Version{}, errors.Newf(errors.ErrInvalidVersion, "invalid semantic version: %q", s)
	}

	major, err := strconv.Atoi(m[1])
	if err != nil {
		return Version{}, errors.Wrapf(err, errors.ErrInvalidVersion, "invalid major version in %q", s)
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return Version{}, errors.Wrapf(err, errors.ErrInvalidVersion, "invalid minor version in %q", s)
	}
	patch, err := strconv.Atoi(m[3])
	if err != nil {
		return Version{}, errors.Wrapf(err, errors.ErrInvalidVersion, "invalid patch version in %q", s)
	}

	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// String returns the version as "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare compares two versions lexicographically.
// Returns -1 if v < other, 0 if v == other, 1 if v > other.
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		if v.Major < other.Major {
			return -1
		}
		return 1
	}

	if v.Minor != other.Minor {
		if v.Minor < other.Minor {
			return -1
		}
		return 1
	}

	if v.Patch != other.Patch {
		if v.Patch < other.Patch {
			return -1
		}
		return 1
	}

	return 0
}

// Matches reports whether v satisfies every recognized constraint in
// requirement. Tokens that carry no recognized operator are skipped; a
// recognized operator whose operand does not parse as a version makes the
// whole requirement fail. An empty or fully-unrecognized requirement
// matches any version.
func Matches(requirement string, v Version) bool {
	tokens := strings.Fields(requirement)

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		var op, operand string
		for _, candidate := range operators {
			if strings.HasPrefix(tok, candidate) {
				op = candidate
				operand = tok[len(candidate):]
				break
			}
		}

		if op == "" {
			// The operator may stand alone with its operand in the
			// following token.
			if isOperator(tok) && i+1 < len(tokens) {
				op = tok
				operand = tokens[i+1]
				i++
			} else {
				// Unknown token, ignore for lenience.
				continue
			}
		}

		want, err := ParseVersion(operand)
		if err != nil {
			return false
		}

		if !satisfies(op, v.Compare(want)) {
			return false
		}
	}

	return true
}

func isOperator(s string) bool {
	for _, op := range operators {
		if s == op {
			return true
		}
	}
	return false
}

// satisfies reports whether a comparison result c (from Compare) fulfills
// the given operator.
func satisfies(op string, c int) bool {
	switch op {
	case ">":
		return c > 0
	case "<":
		return c < 0
	case ">=":
		return c >= 0
	case "<=":
		return c <= 0
	case "==", "=":
		return c == 0
	case "!=":
		return c != 0
	}
	return false
}
