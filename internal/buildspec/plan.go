// Package buildspec turns a build request into a concrete build definition:
// the Dockerfile, its build arguments and the docker build context.
package buildspec

import (
	"fmt"
	"os"

	appconfig "github.com/crs4/seekimages/internal/apps/seekimages/config"
	"github.com/crs4/seekimages/internal/versions"
)

// Variant selects which build definition a plan generates.
type Variant int

const (
	// VariantBase builds the first supported version from the official
	// image alone, with no seed data dependency.
	VariantBase Variant = iota

	// VariantUpgradeSnapshot seeds the target image from a previously
	// built snapshot image of the source version.
	VariantUpgradeSnapshot

	// VariantUpgradeArchive seeds the target image from a captured seed
	// data archive instead of a snapshot image.
	VariantUpgradeArchive
)

func (v Variant) String() string {
	switch v {
	case VariantBase:
		return "base"
	case VariantUpgradeSnapshot:
		return "upgrade"
	case VariantUpgradeArchive:
		return "upgrade-archive"
	default:
		return "unknown"
	}
}

// Plan fully determines one image build. It has no lifecycle beyond the
// invocation that created it.
type Plan struct {
	TargetVersion string
	SourceVersion string
	Namespace     string

	// ArchivePath is the host path of a seed data archive; setting it
	// switches an upgrade build from the snapshot image to the archive.
	ArchivePath string

	variant Variant
}

// NewPlan validates a build request and decides the build variant: the first
// supported version takes the base path, everything later upgrades from the
// source version's snapshot image or, when archivePath is set, from a seed
// archive.
func NewPlan(targetVersion, sourceVersion, namespace, archivePath string) (*Plan, error) {
	if !versions.IsValid(targetVersion) {
		return nil, fmt.Errorf("invalid target version %q", targetVersion)
	}
	if sourceVersion == "" {
		sourceVersion = targetVersion
	}
	if !versions.IsValid(sourceVersion) {
		return nil, fmt.Errorf("invalid source version %q", sourceVersion)
	}
	if namespace == "" {
		namespace = appconfig.DefaultNamespace
	}

	p := &Plan{
		TargetVersion: targetVersion,
		SourceVersion: sourceVersion,
		Namespace:     namespace,
		ArchivePath:   archivePath,
	}

	first, err := versions.Same(targetVersion, appconfig.FirstSupportedVersion)
	if err != nil {
		return nil, err
	}

	switch {
	case first:
		if archivePath != "" {
			return nil, fmt.Errorf("version %s builds from scratch and takes no seed archive", targetVersion)
		}
		p.variant = VariantBase
	case archivePath != "":
		if _, err := os.Stat(archivePath); err != nil {
			return nil, fmt.Errorf("seed archive %s: %w", archivePath, err)
		}
		p.variant = VariantUpgradeArchive
	default:
		ok, err := versions.NotBefore(targetVersion, sourceVersion)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("target version %s is older than source version %s", targetVersion, sourceVersion)
		}
		p.variant = VariantUpgradeSnapshot
	}

	return p, nil
}

func (p *Plan) Variant() Variant {
	return p.variant
}

// UpstreamRef is the official application image the build starts from.
func (p *Plan) UpstreamRef() string {
	return appconfig.UpstreamImageRef(p.TargetVersion)
}

// ImageTag is the fixture tag the build produces.
func (p *Plan) ImageTag() string {
	return appconfig.FixtureImageRef(p.Namespace, p.TargetVersion)
}

// SnapshotRef is the snapshot image an upgrade build seeds from.
func (p *Plan) SnapshotRef() string {
	return appconfig.FixtureImageRef(p.Namespace, p.SourceVersion)
}

// BuildArgs returns the build-time parameters passed to the docker build.
func (p *Plan) BuildArgs() map[string]*string {
	target := p.TargetVersion
	source := p.SourceVersion
	return map[string]*string{
		"TARGET_VERSION": &target,
		"SOURCE_VERSION": &source,
	}
}
