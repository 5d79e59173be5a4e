package builder

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	appconfig "github.com/crs4/seekimages/internal/apps/seekimages/config"
	"github.com/crs4/seekimages/internal/buildspec"
	"github.com/crs4/seekimages/internal/dockerclient/mocks"
	"github.com/crs4/seekimages/internal/seedarchive"
	"go.uber.org/mock/gomock"
)

func mustPlan(t *testing.T, target, source string) *buildspec.Plan {
	t.Helper()
	plan, err := buildspec.NewPlan(target, source, "", "")
	if err != nil {
		t.Fatalf("NewPlan(%s, %s): %v", target, source, err)
	}
	return plan
}

func tarStream(t *testing.T, dirs []string, files map[string]string) io.ReadCloser {
	t.Helper()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	for _, d := range dirs {
		if err := tw.WriteHeader(&tar.Header{
			Name:     d + "/",
			Mode:     0o755,
			Typeflag: tar.TypeDir,
		}); err != nil {
			t.Fatalf("write dir header: %v", err)
		}
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		content := []byte(files[name])
		if err := tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0o644,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}); err != nil {
			t.Fatalf("write file header: %v", err)
		}
		if _, err := tw.Write(content); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatalf("close tar: %v", err)
	}

	return io.NopCloser(&buf)
}

func TestRunPullsUpstreamBeforeBuild(t *testing.T) {
	ctrl := gomock.NewController(t)
	docker := mocks.NewMockDockerClient(ctrl)

	plan := mustPlan(t, "1.12", "")

	gomock.InOrder(
		docker.EXPECT().PullImage(gomock.Any(), "fairdom/seek:1.12").Return(nil),
		docker.EXPECT().BuildImage(gomock.Any(), gomock.Any(), "crs4/lifemonitor-tests:seek-1.12", gomock.Any()).Return("crs4/lifemonitor-tests:seek-1.12", nil),
	)

	err := New(docker, nil).Run(context.Background(), Options{Plan: plan})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestUpgradeRequiresSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	docker := mocks.NewMockDockerClient(ctrl)

	plan := mustPlan(t, "1.13.0", "1.12.0")

	docker.EXPECT().PullImage(gomock.Any(), "fairdom/seek:1.13.0").Return(nil)
	docker.EXPECT().ImageExists(gomock.Any(), "crs4/lifemonitor-tests:seek-1.12.0").Return(false)

	err := New(docker, nil).Run(context.Background(), Options{Plan: plan})
	if err == nil {
		t.Fatal("expected error for missing snapshot image")
	}
	if !strings.Contains(err.Error(), "snapshot image") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUpgradeBuildsWhenSnapshotPresent(t *testing.T) {
	ctrl := gomock.NewController(t)
	docker := mocks.NewMockDockerClient(ctrl)

	plan := mustPlan(t, "1.13.0", "1.12.0")

	gomock.InOrder(
		docker.EXPECT().PullImage(gomock.Any(), "fairdom/seek:1.13.0").Return(nil),
		docker.EXPECT().ImageExists(gomock.Any(), "crs4/lifemonitor-tests:seek-1.12.0").Return(true),
		docker.EXPECT().BuildImage(gomock.Any(), gomock.Any(), "crs4/lifemonitor-tests:seek-1.13.0", gomock.Any()).Return("crs4/lifemonitor-tests:seek-1.13.0", nil),
	)

	err := New(docker, nil).Run(context.Background(), Options{Plan: plan})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestPullFailureAbortsBuild(t *testing.T) {
	ctrl := gomock.NewController(t)
	docker := mocks.NewMockDockerClient(ctrl)

	plan := mustPlan(t, "1.12", "")

	pullErr := errors.New("manifest unknown")
	docker.EXPECT().PullImage(gomock.Any(), "fairdom/seek:1.12").Return(pullErr)

	err := New(docker, nil).Run(context.Background(), Options{Plan: plan})
	if !errors.Is(err, pullErr) {
		t.Fatalf("expected pull error, got %v", err)
	}
}

func TestPushFailureIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	docker := mocks.NewMockDockerClient(ctrl)

	plan := mustPlan(t, "1.12", "")

	pushErr := errors.New("denied")
	gomock.InOrder(
		docker.EXPECT().PullImage(gomock.Any(), gomock.Any()).Return(nil),
		docker.EXPECT().BuildImage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("crs4/lifemonitor-tests:seek-1.12", nil),
		docker.EXPECT().PushImage(gomock.Any(), "crs4/lifemonitor-tests:seek-1.12").Return(pushErr),
	)

	err := New(docker, nil).Run(context.Background(), Options{Plan: plan, Push: true})
	if !errors.Is(err, pushErr) {
		t.Fatalf("expected push error, got %v", err)
	}
}

func TestSaveDataExportsArchive(t *testing.T) {
	t.Chdir(t.TempDir())

	ctrl := gomock.NewController(t)
	docker := mocks.NewMockDockerClient(ctrl)

	plan := mustPlan(t, "1.12", "")

	filestore := tarStream(t,
		[]string{"filestore", "filestore/assets"},
		map[string]string{"filestore/assets/logo.png": "png-bytes"},
	)
	database := tarStream(t, nil, map[string]string{"production.sqlite3": "sqlite-bytes"})

	docker.EXPECT().PullImage(gomock.Any(), gomock.Any()).Return(nil)
	docker.EXPECT().BuildImage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("crs4/lifemonitor-tests:seek-1.12", nil)
	docker.EXPECT().CreateContainer(gomock.Any(), "crs4/lifemonitor-tests:seek-1.12", gomock.Any(), gomock.Any()).Return("cid123", nil)
	docker.EXPECT().CopyFromContainer(gomock.Any(), "cid123", appconfig.ImageFilestorePath).Return(filestore, nil)
	docker.EXPECT().CopyFromContainer(gomock.Any(), "cid123", appconfig.ImageDatabasePath).Return(database, nil)
	docker.EXPECT().RemoveContainer(gomock.Any(), "cid123").Return(nil)

	err := New(docker, nil).Run(context.Background(), Options{Plan: plan, SaveData: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	info, err := seedarchive.InspectFile(filepath.Join("data", "1.12.tar.gz"))
	if err != nil {
		t.Fatalf("InspectFile: %v", err)
	}
	if !info.HasFilestore {
		t.Error("archive is missing the filestore tree")
	}
	if !info.HasDatabase {
		t.Error("archive is missing the database file")
	}
}

func TestSaveDataRemovesContainerOnCopyFailure(t *testing.T) {
	t.Chdir(t.TempDir())

	ctrl := gomock.NewController(t)
	docker := mocks.NewMockDockerClient(ctrl)

	plan := mustPlan(t, "1.12", "")

	copyErr := errors.New("no such file")
	docker.EXPECT().PullImage(gomock.Any(), gomock.Any()).Return(nil)
	docker.EXPECT().BuildImage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("crs4/lifemonitor-tests:seek-1.12", nil)
	docker.EXPECT().CreateContainer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("cid123", nil)
	docker.EXPECT().CopyFromContainer(gomock.Any(), "cid123", appconfig.ImageFilestorePath).Return(nil, copyErr)
	docker.EXPECT().RemoveContainer(gomock.Any(), "cid123").Return(nil)

	err := New(docker, nil).Run(context.Background(), Options{Plan: plan, SaveData: true})
	if !errors.Is(err, copyErr) {
		t.Fatalf("expected copy error, got %v", err)
	}
}
