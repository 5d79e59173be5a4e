package seedarchive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func seedFixture(t *testing.T) (filestoreDir, dbFile string) {
	t.Helper()

	root := t.TempDir()
	filestoreDir = filepath.Join(root, "filestore")
	if err := os.MkdirAll(filepath.Join(filestoreDir, "assets"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(filestoreDir, "workflow.crate"), []byte("crate-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(filestoreDir, "assets", "logo.png"), []byte{0x89, 0x50, 0x4e, 0x47}, 0o644); err != nil {
		t.Fatal(err)
	}

	dbFile = filepath.Join(root, "production.sqlite3")
	if err := os.WriteFile(dbFile, []byte("sqlite-content"), 0o644); err != nil {
		t.Fatal(err)
	}

	return filestoreDir, dbFile
}

func TestPackExtractRoundTrip(t *testing.T) {
	t.Parallel()

	filestoreDir, dbFile := seedFixture(t)

	var buf bytes.Buffer
	if err := Pack(&buf, filestoreDir, dbFile); err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	dst := t.TempDir()
	if err := Extract(bytes.NewReader(buf.Bytes()), dst); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	gotDB, err := os.ReadFile(filepath.Join(dst, "data", "db.sqlite3"))
	if err != nil {
		t.Fatalf("database missing after extract: %v", err)
	}
	if string(gotDB) != "sqlite-content" {
		t.Errorf("database content changed: %q", gotDB)
	}

	gotFile, err := os.ReadFile(filepath.Join(dst, "data", "filestore", "workflow.crate"))
	if err != nil {
		t.Fatalf("filestore member missing after extract: %v", err)
	}
	if string(gotFile) != "crate-bytes" {
		t.Errorf("filestore content changed: %q", gotFile)
	}

	if _, err := os.Stat(filepath.Join(dst, "data", "filestore", "assets", "logo.png")); err != nil {
		t.Errorf("nested filestore member missing: %v", err)
	}
}

func TestInspectAcceptsFixedLayout(t *testing.T) {
	t.Parallel()

	filestoreDir, dbFile := seedFixture(t)

	var buf bytes.Buffer
	if err := Pack(&buf, filestoreDir, dbFile); err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	info, err := Inspect(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if !info.HasDatabase || !info.HasFilestore {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.FileCount != 3 { // two filestore files + database
		t.Errorf("expected 3 files, got %d", info.FileCount)
	}
}

func writeStubArchive(t *testing.T, names map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range names {
		hdr := &tar.Header{Name: name, Mode: 0o644, Size: int64(len(content))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestInspectRejectsForeignMembers(t *testing.T) {
	t.Parallel()

	raw := writeStubArchive(t, map[string]string{
		"data/db.sqlite3":     "db",
		"data/filestore/f":    "x",
		"etc/passwd":          "nope",
	})
	if _, err := Inspect(bytes.NewReader(raw)); err == nil {
		t.Fatal("expected error for member outside data/")
	}
}

func TestInspectRejectsMissingDatabase(t *testing.T) {
	t.Parallel()

	raw := writeStubArchive(t, map[string]string{
		"data/filestore/f": "x",
	})
	if _, err := Inspect(bytes.NewReader(raw)); err == nil {
		t.Fatal("expected error for archive without database")
	}
}

func TestExtractRejectsPathEscape(t *testing.T) {
	t.Parallel()

	raw := writeStubArchive(t, map[string]string{
		"data/../../outside": "x",
	})
	if err := Extract(bytes.NewReader(raw), t.TempDir()); err == nil {
		t.Fatal("expected error for path escape")
	}
}

func TestPackFromStreamsRemapsLayout(t *testing.T) {
	t.Parallel()

	// emulate the docker copy streams: filestore/ tree and a lone db file
	var fsBuf bytes.Buffer
	tw := tar.NewWriter(&fsBuf)
	tw.WriteHeader(&tar.Header{Name: "filestore/", Mode: 0o755, Typeflag: tar.TypeDir})
	content := "payload"
	tw.WriteHeader(&tar.Header{Name: "filestore/a.txt", Mode: 0o644, Size: int64(len(content))})
	tw.Write([]byte(content))
	tw.Close()

	var dbBuf bytes.Buffer
	tw = tar.NewWriter(&dbBuf)
	db := "sqlite"
	tw.WriteHeader(&tar.Header{Name: "production.sqlite3", Mode: 0o644, Size: int64(len(db))})
	tw.Write([]byte(db))
	tw.Close()

	var out bytes.Buffer
	if err := PackFromStreams(&out, &fsBuf, &dbBuf); err != nil {
		t.Fatalf("PackFromStreams failed: %v", err)
	}

	info, err := Inspect(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("repacked archive failed inspection: %v", err)
	}
	if info.FileCount != 2 {
		t.Errorf("expected 2 files, got %d", info.FileCount)
	}

	dst := t.TempDir()
	if err := Extract(bytes.NewReader(out.Bytes()), dst); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dst, "data", "filestore", "a.txt"))
	if err != nil || string(got) != content {
		t.Errorf("filestore member lost in repack: %q, %v", got, err)
	}
	gotDB, err := os.ReadFile(filepath.Join(dst, "data", "db.sqlite3"))
	if err != nil || string(gotDB) != db {
		t.Errorf("database lost in repack: %q, %v", gotDB, err)
	}
}

func TestPackFromStreamsRequiresDatabase(t *testing.T) {
	t.Parallel()

	var fsBuf bytes.Buffer
	tw := tar.NewWriter(&fsBuf)
	tw.WriteHeader(&tar.Header{Name: "filestore/", Mode: 0o755, Typeflag: tar.TypeDir})
	tw.Close()

	var dbBuf bytes.Buffer
	tw = tar.NewWriter(&dbBuf)
	tw.Close()

	var out bytes.Buffer
	if err := PackFromStreams(&out, &fsBuf, &dbBuf); err == nil {
		t.Fatal("expected error for empty database stream")
	}
}
