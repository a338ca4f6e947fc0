package update

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// Comparator orders two version strings. It returns a negative number when a < b,
// zero when they are equal and a positive number when a > b.
type Comparator func(a, b string) int

var (
	// looseTagRegex finds the first x.y.z triple anywhere in a tag.
	looseTagRegex = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)`)

	// strictTagRegex allows only a letter prefix and suffix around the triple.
	strictTagRegex = regexp.MustCompile(`^[A-Za-z]*(\d+)\.(\d+)\.(\d+)[A-Za-z]*$`)
)

// Tag is the numeric core of a release tag.
type Tag struct {
	Major int
	Minor int
	Patch int
}

// ParseTag extracts the first major.minor.patch triple found in s.
// "v1.2.3", "release-1.2.3-rc1" and "1.2.3" all parse; "1.2" does not.
func ParseTag(s string) (Tag, bool) {
	return tagFromMatch(looseTagRegex.FindStringSubmatch(s))
}

// ParseTagStrict accepts only an optional letter run, exactly three dot-separated
// integers, then an optional letter run ("v1.2.3", "1.2.3beta").
func ParseTagStrict(s string) (Tag, bool) {
	return tagFromMatch(strictTagRegex.FindStringSubmatch(strings.TrimSpace(s)))
}

func tagFromMatch(m []string) (Tag, bool) {
	if len(m) != 4 {
		return Tag{}, false
	}

	var parts [3]int
	for i, raw := range m[1:] {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Tag{}, false
		}
		parts[i] = n
	}

	return Tag{Major: parts[0], Minor: parts[1], Patch: parts[2]}, true
}

// String returns the tag as "major.minor.patch".
func (t Tag) String() string {
	return fmt.Sprintf("%d.%d.%d", t.Major, t.Minor, t.Patch)
}

// Compare returns -1, 0 or 1 ordering t against o on (major, minor, patch).
func (t Tag) Compare(o Tag) int {
	if d := compareInt(t.Major, o.Major); d != 0 {
		return d
	}
	if d := compareInt(t.Minor, o.Minor); d != 0 {
		return d
	}

	return compareInt(t.Patch, o.Patch)
}

// CompareTags is the default release comparator. Tags are parsed with ParseTag; if
// either side does not parse the two are reported equal, so sorting never fails
// and unparseable tags keep their fetch order relative to their neighbours.
func CompareTags(a, b string) int {
	return compareParsed(ParseTag, a, b)
}

// CompareTagsStrict is CompareTags over ParseTagStrict.
func CompareTagsStrict(a, b string) int {
	return compareParsed(ParseTagStrict, a, b)
}

// CompareSemver orders tags by full semantic-version precedence, including
// prerelease identifiers. A missing "v" prefix is added. Invalid versions sort
// before valid ones and two invalid versions compare equal.
func CompareSemver(a, b string) int {
	return semver.Compare(canonicalSemver(a), canonicalSemver(b))
}

// ComparatorByName maps a configuration name to a comparator.
// The empty name selects the default.
func ComparatorByName(name string) (Comparator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "simple":
		return CompareTags, nil
	case "strict":
		return CompareTagsStrict, nil
	case "semver":
		return CompareSemver, nil
	default:
		return nil, fmt.Errorf("%w: %q (want simple, strict or semver)", ErrUnknownComparator, name)
	}
}

func compareParsed(parse func(string) (Tag, bool), a, b string) int {
	ta, okA := parse(a)
	tb, okB := parse(b)
	if !okA || !okB {
		return 0
	}

	return ta.Compare(tb)
}

func canonicalSemver(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}

	return v
}

func compareInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}

	return 0
}
