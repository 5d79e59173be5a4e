package appconfig

import (
	"fmt"
	"os"
	"path/filepath"
)

// Fixed names of the SEEK fixture workflow. These mirror the layout of the
// upstream application image and must not change without rebuilding every
// snapshot: captured archives and snapshot images both assume them.
const (
	// UpstreamRepository is the official application image repository.
	UpstreamRepository = "fairdom/seek"

	// ImageRepository is the repository fixture images are tagged into,
	// below the configured namespace.
	ImageRepository = "lifemonitor-tests"

	// DefaultNamespace is the registry namespace used when --namespace is
	// not given.
	DefaultNamespace = "crs4"

	// TagPrefix prefixes every fixture image tag: seek-<version>.
	TagPrefix = "seek-"

	// FirstSupportedVersion is the oldest application version we build
	// fixtures for. It is the only version built from scratch; every later
	// version upgrades from an existing snapshot or seed archive.
	FirstSupportedVersion = "1.12"

	// DefaultCaptureVersion is the version label used by `capture` when no
	// argument is given.
	DefaultCaptureVersion = "1.12.0"

	// ComposeServiceName is the compose service the capture workflow looks
	// up to find the running application container.
	ComposeServiceName = "seek"

	// RelayImageRepository is the repository of the webhook-relay sidecar
	// image, below the configured namespace.
	RelayImageRepository = "lifemonitor-smee"
)

// In-image filesystem layout of the application.
const (
	ImageWorkdir       = "/seek"
	ImageFilestorePath = "/seek/filestore"
	ImageDatabasePath  = "/seek/sqlite3-db/production.sqlite3"
	ImageCertsDir      = "/seek/certs"
	ImageNginxConfPath = "/seek/nginx.conf"
	ImageRuntimeUser   = "www-data"

	// MigrateCommand updates a seeded database to the schema expected by
	// the image's application version. It must run exactly once per build,
	// after seed data and overlay files are in place.
	MigrateCommand = "docker/upgrade.sh --migrate"
)

// UpstreamImageRef returns the official application image reference for a
// version, e.g. "fairdom/seek:1.12".
func UpstreamImageRef(version string) string {
	return UpstreamRepository + ":" + version
}

// FixtureImageRef returns the fixture image reference for a version, e.g.
// "crs4/lifemonitor-tests:seek-1.12".
func FixtureImageRef(namespace, version string) string {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return namespace + "/" + ImageRepository + ":" + TagPrefix + version
}

// RelayImageRef returns the webhook-relay sidecar image reference, e.g.
// "crs4/lifemonitor-smee:latest".
func RelayImageRef(namespace string) string {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return namespace + "/" + RelayImageRepository + ":latest"
}

// ensureFolder recursively creates a folder if it does not exist.
func ensureFolder(path string) error {
	return os.MkdirAll(path, 0o755)
}

// ensureFile ensures that the parent folder exists and the file exists.
// If the file already exists, it does nothing.
func ensureFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create/open file: %w", err)
	}
	defer f.Close()

	return nil
}

func ConfigBasePath() string {
	homedir, err := os.UserHomeDir()
	if err != nil {
		homedir = "/usr/local/config/seekimages"
	}

	return filepath.Join(homedir, ".config", "seekimages")
}

func StateDBFile() string {
	return filepath.Join(ConfigBasePath(), "state.db")
}

// BackupsPath is where `capture` stores versioned seed archives.
func BackupsPath() string {
	p := filepath.Join(ConfigBasePath(), "backups")
	ensureFolder(p)
	return p
}

// DataOutputPath is where `build --save-data` drops the seed archive,
// relative to the invocation directory.
func DataOutputPath() string {
	return "data"
}

func RunLogPath(runID string) string {
	p := filepath.Join(ConfigBasePath(), "logs", "run-"+runID+".log")
	ensureFile(p)
	return p
}
