// Package version exposes the build version of uistate.
package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// version is overridden at build time:
//
//	go build -ldflags "-X github.com/rshade/uistate/pkg/version.version=1.2.3"
//
//nolint:gochecknoglobals // Set through -ldflags.
var version = "0.1.0-dev"

// GetVersion returns the raw build version string.
func GetVersion() string {
	return version
}

// Semver parses the build version.
func Semver() (*semver.Version, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, fmt.Errorf("parsing build version %q: %w", version, err)
	}
	return v, nil
}

// IsDevelopment reports whether the build is a pre-release.
func IsDevelopment() bool {
	v, err := Semver()
	if err != nil {
		return true
	}
	return v.Prerelease() != ""
}
