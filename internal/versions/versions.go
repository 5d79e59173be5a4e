// Package versions offers helpers for the loosely-semver version labels used
// by the upstream application ("1.12", "1.12.0", "1.13.2").
package versions

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Parse parses a version label. Partial labels are accepted the way the
// upstream registry tags them: "1.12" parses as 1.12.0.
func Parse(v string) (*semver.Version, error) {
	if strings.TrimSpace(v) == "" {
		return nil, fmt.Errorf("empty version")
	}
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", v, err)
	}
	return parsed, nil
}

// IsValid reports whether v parses as a version label.
func IsValid(v string) bool {
	_, err := Parse(v)
	return err == nil
}

// Same reports whether two labels name the same version, ignoring the
// partial/full form difference ("1.12" vs "1.12.0").
func Same(a, b string) (bool, error) {
	va, err := Parse(a)
	if err != nil {
		return false, err
	}
	vb, err := Parse(b)
	if err != nil {
		return false, err
	}
	return va.Equal(vb), nil
}

// Compare returns -1, 0 or 1 ordering a relative to b.
func Compare(a, b string) (int, error) {
	va, err := Parse(a)
	if err != nil {
		return 0, err
	}
	vb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}

// NotBefore reports whether a >= b. Used to reject builds that would
// "upgrade" a snapshot onto an older application version.
func NotBefore(a, b string) (bool, error) {
	cmp, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return cmp >= 0, nil
}
