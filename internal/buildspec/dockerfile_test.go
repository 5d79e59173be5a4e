package buildspec

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mustPlan(t *testing.T, target, source, namespace, archive string) *Plan {
	t.Helper()
	p, err := NewPlan(target, source, namespace, archive)
	if err != nil {
		t.Fatalf("NewPlan(%q, %q) failed: %v", target, source, err)
	}
	return p
}

func migrateCount(df Dockerfile) int {
	count := 0
	for _, line := range df {
		if strings.Contains(line, "upgrade.sh") && strings.Contains(line, "--migrate") {
			count++
		}
	}
	return count
}

func TestBasePlanReferencesNoSeedData(t *testing.T) {
	t.Parallel()

	p := mustPlan(t, "1.12", "", "", "")
	if p.Variant() != VariantBase {
		t.Fatalf("expected base variant, got %s", p.Variant())
	}
	if p.ImageTag() != "crs4/lifemonitor-tests:seek-1.12" {
		t.Errorf("unexpected image tag %q", p.ImageTag())
	}
	if p.UpstreamRef() != "fairdom/seek:1.12" {
		t.Errorf("unexpected upstream ref %q", p.UpstreamRef())
	}

	df := p.GenerateDockerfile().String()
	if strings.Contains(df, "lifemonitor-tests") {
		t.Error("base build must not reference a snapshot image")
	}
	if strings.Contains(df, ArchiveContextPath) {
		t.Error("base build must not reference a seed archive")
	}
}

func TestFirstSupportedVersionMatchesPartialForm(t *testing.T) {
	t.Parallel()

	p := mustPlan(t, "1.12.0", "", "", "")
	if p.Variant() != VariantBase {
		t.Fatalf("1.12.0 should take the base path, got %s", p.Variant())
	}
}

func TestOmittedSourceDefaultsToTarget(t *testing.T) {
	t.Parallel()

	defaulted := mustPlan(t, "1.13", "", "", "")
	explicit := mustPlan(t, "1.13", "1.13", "", "")

	if defaulted.SourceVersion != "1.13" {
		t.Errorf("source not defaulted: %q", defaulted.SourceVersion)
	}
	if defaulted.GenerateDockerfile().String() != explicit.GenerateDockerfile().String() {
		t.Error("omitted source must behave exactly like source == target")
	}
}

func TestUpgradePlanSeedsFromSnapshot(t *testing.T) {
	t.Parallel()

	p := mustPlan(t, "1.13", "1.12", "", "")
	if p.Variant() != VariantUpgradeSnapshot {
		t.Fatalf("expected upgrade variant, got %s", p.Variant())
	}
	if p.SnapshotRef() != "crs4/lifemonitor-tests:seek-1.12" {
		t.Errorf("unexpected snapshot ref %q", p.SnapshotRef())
	}

	df := p.GenerateDockerfile()
	text := df.String()
	if !strings.Contains(text, "FROM crs4/lifemonitor-tests:seek-${SOURCE_VERSION} AS seed") {
		t.Errorf("snapshot stage missing:\n%s", text)
	}
	if !strings.Contains(text, "FROM fairdom/seek:${TARGET_VERSION}") {
		t.Errorf("target stage missing:\n%s", text)
	}
	if !strings.Contains(text, "/seek/sqlite3-db/production.sqlite3") {
		t.Errorf("database path missing:\n%s", text)
	}
}

func TestMigrationRunsExactlyOnceAfterSeedAndOverlay(t *testing.T) {
	t.Parallel()

	for _, p := range []*Plan{
		mustPlan(t, "1.12", "", "", ""),
		mustPlan(t, "1.13", "1.12", "", ""),
	} {
		df := p.GenerateDockerfile()
		if got := migrateCount(df); got != 1 {
			t.Fatalf("%s: migration must appear exactly once, got %d", p.Variant(), got)
		}

		migrateAt, lastCopyAt := -1, -1
		for i, line := range df {
			if strings.Contains(line, "--migrate") {
				migrateAt = i
			}
			if strings.HasPrefix(line, "COPY") || strings.HasPrefix(line, "ADD") {
				lastCopyAt = i
			}
		}
		if migrateAt < lastCopyAt {
			t.Errorf("%s: migration must run after data and overlay are in place", p.Variant())
		}
	}
}

func TestBuildArgsCarryBothVersions(t *testing.T) {
	t.Parallel()

	args := mustPlan(t, "1.13", "1.12", "", "").BuildArgs()
	if v := args["TARGET_VERSION"]; v == nil || *v != "1.13" {
		t.Errorf("TARGET_VERSION = %v", v)
	}
	if v := args["SOURCE_VERSION"]; v == nil || *v != "1.12" {
		t.Errorf("SOURCE_VERSION = %v", v)
	}
}

func TestArchivePlanRequiresExistingArchive(t *testing.T) {
	t.Parallel()

	if _, err := NewPlan("1.13", "1.12", "", filepath.Join(t.TempDir(), "missing.tar.gz")); err == nil {
		t.Fatal("expected error for missing archive")
	}

	archive := filepath.Join(t.TempDir(), "1.12.tar.gz")
	if err := os.WriteFile(archive, []byte("stub"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := mustPlan(t, "1.13", "1.12", "", archive)
	if p.Variant() != VariantUpgradeArchive {
		t.Fatalf("expected archive variant, got %s", p.Variant())
	}

	text := p.GenerateDockerfile().String()
	if !strings.Contains(text, "ADD "+ArchiveContextPath) {
		t.Errorf("archive ADD missing:\n%s", text)
	}
	if strings.Contains(text, "AS seed") {
		t.Errorf("archive build must not also pull the snapshot stage:\n%s", text)
	}
}

func TestFirstSupportedVersionRejectsArchive(t *testing.T) {
	t.Parallel()

	archive := filepath.Join(t.TempDir(), "1.12.tar.gz")
	if err := os.WriteFile(archive, []byte("stub"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewPlan("1.12", "", "", archive); err == nil {
		t.Fatal("first supported version must not accept seed data")
	}
}

func TestDowngradeRejected(t *testing.T) {
	t.Parallel()

	if _, err := NewPlan("1.13", "1.14", "", ""); err == nil {
		t.Fatal("expected error when target is older than source")
	}
}

func TestContextTarContents(t *testing.T) {
	t.Parallel()

	r, err := mustPlan(t, "1.12", "", "", "").ContextTar()
	if err != nil {
		t.Fatalf("ContextTar failed: %v", err)
	}

	names := map[string]bool{}
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read context tar: %v", err)
		}
		names[hdr.Name] = true
	}

	for _, want := range []string{"Dockerfile", "certs/lm.crt", "certs/lm.key", "nginx.conf"} {
		if !names[want] {
			t.Errorf("context tar missing %q (have %v)", want, names)
		}
	}
	if names[ArchiveContextPath] {
		t.Error("base context must not include a seed archive")
	}
}

func TestRelayDockerfile(t *testing.T) {
	t.Parallel()

	rp := &RelayPlan{Channel: "abc123", Target: "lm:8000", HandlerPath: "integrations/github"}
	text := rp.GenerateDockerfile().String()

	for _, want := range []string{
		`ENV SMEE_CHANNEL="abc123"`,
		`ENV SMEE_TARGET="lm:8000"`,
		`ENV EVENT_HANDLER_URL="integrations/github"`,
		"smee-client",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("relay Dockerfile missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "--migrate") {
		t.Error("relay sidecar must not run the application migration")
	}
}
