package buildspec

import (
	"encoding/json"
	"fmt"

	appconfig "github.com/crs4/seekimages/internal/apps/seekimages/config"
	"github.com/crs4/seekimages/internal/overlay"
)

type Dockerfile []string

func (df Dockerfile) String() string {
	out := ""
	for _, line := range df {
		out += line + "\n"
	}
	return out
}

// Labels stamped on every fixture image; `list` and `clean` filter on the
// marker label.
const (
	MarkerLabel  = "lifemonitor.tests"
	VersionLabel = "lifemonitor.tests.version"
	SourceLabel  = "lifemonitor.tests.source"
	VariantLabel = "lifemonitor.tests.variant"
)

// ArchiveContextPath is where the seed archive sits inside the build context
// of an archive-seeded upgrade build.
const ArchiveContextPath = "seed-data.tar.gz"

// seedStagingDir is where upgrade builds land seed data before merging it
// into the application's storage paths.
const seedStagingDir = "/tmp/seed"

// GenerateDockerfile renders the plan's build definition. The migration
// command appears exactly once, after seed data and overlay files are in
// place, in every variant.
func (p *Plan) GenerateDockerfile() Dockerfile {
	lines := Dockerfile{}

	switch p.variant {
	case VariantBase:
		lines = append(lines, fmt.Sprintf("ARG TARGET_VERSION=%s", p.TargetVersion))
		lines = append(lines, fmt.Sprintf("FROM %s:${TARGET_VERSION}", appconfig.UpstreamRepository))

	case VariantUpgradeSnapshot:
		lines = append(lines, fmt.Sprintf("ARG SOURCE_VERSION=%s", p.SourceVersion))
		lines = append(lines, fmt.Sprintf("ARG TARGET_VERSION=%s", p.TargetVersion))
		lines = append(lines, fmt.Sprintf("FROM %s/%s:%s${SOURCE_VERSION} AS seed",
			p.Namespace, appconfig.ImageRepository, appconfig.TagPrefix))
		lines = append(lines, fmt.Sprintf("FROM %s:${TARGET_VERSION}", appconfig.UpstreamRepository))
		lines = append(lines, "USER root")
		lines = append(lines, fmt.Sprintf("COPY --from=seed %s %s/filestore", appconfig.ImageFilestorePath, seedStagingDir))
		lines = append(lines, fmt.Sprintf("COPY --from=seed %s %s/db.sqlite3", appconfig.ImageDatabasePath, seedStagingDir))
		lines = append(lines, mergeSeedLine())

	case VariantUpgradeArchive:
		lines = append(lines, fmt.Sprintf("ARG TARGET_VERSION=%s", p.TargetVersion))
		lines = append(lines, fmt.Sprintf("FROM %s:${TARGET_VERSION}", appconfig.UpstreamRepository))
		lines = append(lines, "USER root")
		// ADD auto-extracts the gzip tar; its fixed internal layout puts
		// the members below <staging>/data/.
		lines = append(lines, fmt.Sprintf("ADD %s %s/", ArchiveContextPath, seedStagingDir))
		lines = append(lines, mergeArchiveLine())
	}

	if p.variant == VariantBase {
		lines = append(lines, "USER root")
	}

	lines = append(lines, overlayLines()...)

	lines = append(lines, fmt.Sprintf("USER %s", appconfig.ImageRuntimeUser))
	lines = append(lines, fmt.Sprintf("WORKDIR %s", appconfig.ImageWorkdir))
	lines = append(lines, "RUN "+jsonExec("docker/upgrade.sh", "--migrate"))

	lines = append(lines, fmt.Sprintf("LABEL %s=true", MarkerLabel))
	lines = append(lines, fmt.Sprintf("LABEL %s=%s", VersionLabel, p.TargetVersion))
	lines = append(lines, fmt.Sprintf("LABEL %s=%s", SourceLabel, p.SourceVersion))
	lines = append(lines, fmt.Sprintf("LABEL %s=%s", VariantLabel, p.variant.String()))

	return lines
}

// mergeSeedLine moves staged snapshot data into the application's storage
// paths and hands ownership to the runtime user.
func mergeSeedLine() string {
	return fmt.Sprintf(
		"RUN cp -a %[1]s/filestore/. %[2]s/ && mv %[1]s/db.sqlite3 %[3]s && chown -R %[4]s:%[4]s %[2]s %[3]s && rm -rf %[1]s",
		seedStagingDir,
		appconfig.ImageFilestorePath,
		appconfig.ImageDatabasePath,
		appconfig.ImageRuntimeUser,
	)
}

// mergeArchiveLine is the same merge for the extracted archive layout
// (<staging>/data/{filestore,db.sqlite3}).
func mergeArchiveLine() string {
	return fmt.Sprintf(
		"RUN cp -a %[1]s/data/filestore/. %[2]s/ && mv %[1]s/data/db.sqlite3 %[3]s && chown -R %[4]s:%[4]s %[2]s %[3]s && rm -rf %[1]s",
		seedStagingDir,
		appconfig.ImageFilestorePath,
		appconfig.ImageDatabasePath,
		appconfig.ImageRuntimeUser,
	)
}

func overlayLines() Dockerfile {
	return Dockerfile{
		"RUN " + jsonExec("mkdir", "-p", appconfig.ImageCertsDir),
		fmt.Sprintf("COPY %s %s %s/", overlay.CertContextPath, overlay.KeyContextPath, appconfig.ImageCertsDir),
		fmt.Sprintf("COPY %s %s", overlay.NginxContextPath, appconfig.ImageNginxConfPath),
		"RUN " + jsonExec("chown", "-R",
			appconfig.ImageRuntimeUser+":"+appconfig.ImageRuntimeUser,
			appconfig.ImageCertsDir, appconfig.ImageNginxConfPath),
	}
}

func jsonExec(argv ...string) string {
	b, _ := json.Marshal(argv)
	return string(b)
}
