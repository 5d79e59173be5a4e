// Package version exposes the build-time version of the seekimages binary.
package version

// set via -ldflags "-X github.com/crs4/seekimages/internal/version.version=v1.2.3"
var version = "local"

func Get() string {
	return version
}
