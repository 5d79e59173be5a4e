// Package seedarchive reads and writes the portable seed data archive: a
// gzip tar whose fixed internal layout is a top-level data/ directory holding
// the application's filestore tree and its sqlite database. Snapshot builds,
// capture and --save-data all round-trip through this one layout.
package seedarchive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Fixed member paths inside the archive. Consumers (the upgrade build path
// in particular) rely on these exact names.
const (
	RootDir      = "data"
	FilestoreDir = "data/filestore"
	DatabaseFile = "data/db.sqlite3"
)

// Pack writes the archive from a filestore directory tree and a database
// file on disk.
func Pack(dst io.Writer, filestoreDir, databaseFile string) error {
	gz := gzip.NewWriter(dst)
	tw := tar.NewWriter(gz)

	if err := writeDirHeader(tw, RootDir+"/"); err != nil {
		return err
	}

	if err := packTree(tw, filestoreDir, FilestoreDir); err != nil {
		return err
	}

	if err := packFile(tw, databaseFile, DatabaseFile); err != nil {
		return err
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("close archive tar: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("close archive gzip: %w", err)
	}
	return nil
}

// PackFromStreams writes the archive from two container copy streams: a tar
// of the filestore directory (entries rooted at "filestore/") and a tar
// holding the single database file. Entry names are remapped into the fixed
// layout; contents pass through untouched.
func PackFromStreams(dst io.Writer, filestore, database io.Reader) error {
	gz := gzip.NewWriter(dst)
	tw := tar.NewWriter(gz)

	if err := writeDirHeader(tw, RootDir+"/"); err != nil {
		return err
	}

	if err := remapStream(tw, filestore, func(name string) (string, bool) {
		rest, ok := strings.CutPrefix(name, "filestore")
		if !ok {
			return "", false
		}
		return FilestoreDir + rest, true
	}); err != nil {
		return fmt.Errorf("repack filestore: %w", err)
	}

	dbSeen := false
	if err := remapStream(tw, database, func(name string) (string, bool) {
		if dbSeen {
			return "", false
		}
		dbSeen = true
		return DatabaseFile, true
	}); err != nil {
		return fmt.Errorf("repack database: %w", err)
	}
	if !dbSeen {
		return fmt.Errorf("database stream held no file")
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("close archive tar: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("close archive gzip: %w", err)
	}
	return nil
}

// PackFromStreamsToFile writes the PackFromStreams archive to path, creating
// parent directories as needed. A partial file is removed on failure.
func PackFromStreamsToFile(path string, filestore, database io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	if err := PackFromStreams(f, filestore, database); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close archive: %w", err)
	}

	return nil
}

// remapStream copies entries from one tar stream into tw, renaming each with
// rename. Entries the rename func rejects are dropped.
func remapStream(tw *tar.Writer, src io.Reader, rename func(name string) (string, bool)) error {
	tr := tar.NewReader(src)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read stream: %w", err)
		}

		name, ok := rename(strings.TrimSuffix(hdr.Name, "/"))
		if !ok {
			continue
		}
		if hdr.Typeflag == tar.TypeDir {
			name += "/"
		}

		out := *hdr
		out.Name = name
		if err := tw.WriteHeader(&out); err != nil {
			return fmt.Errorf("write header %q: %w", name, err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := io.Copy(tw, tr); err != nil {
				return fmt.Errorf("write %q: %w", name, err)
			}
		}
	}
}

// Extract unpacks the archive below dstDir, enforcing the fixed layout: any
// entry outside data/ is rejected.
func Extract(src io.Reader, dstDir string) error {
	gz, err := gzip.NewReader(src)
	if err != nil {
		return fmt.Errorf("open archive gzip: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read archive: %w", err)
		}

		clean, err := memberPath(hdr.Name)
		if err != nil {
			return err
		}
		target := filepath.Join(dstDir, filepath.FromSlash(clean))

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create dir %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create dir for %s: %w", target, err)
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode)&0o777)
			if err != nil {
				return fmt.Errorf("create file %s: %w", target, err)
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return fmt.Errorf("write file %s: %w", target, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close file %s: %w", target, err)
			}
		default:
			// symlinks and the like have no business in seed data
			return fmt.Errorf("archive member %q has unsupported type %d", hdr.Name, hdr.Typeflag)
		}
	}

	return nil
}

// Info summarizes an archive's contents.
type Info struct {
	HasFilestore bool
	HasDatabase  bool
	FileCount    int
}

// Inspect scans an archive and verifies the fixed layout without extracting
// anything.
func Inspect(src io.Reader) (Info, error) {
	var info Info

	gz, err := gzip.NewReader(src)
	if err != nil {
		return info, fmt.Errorf("open archive gzip: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return info, fmt.Errorf("read archive: %w", err)
		}

		clean, err := memberPath(hdr.Name)
		if err != nil {
			return info, err
		}

		switch {
		case clean == DatabaseFile:
			info.HasDatabase = true
			info.FileCount++
		case strings.HasPrefix(clean, FilestoreDir+"/") || clean == FilestoreDir:
			info.HasFilestore = true
			if hdr.Typeflag == tar.TypeReg {
				info.FileCount++
			}
		case clean == RootDir:
			// archive root
		default:
			return info, fmt.Errorf("archive member %q outside the fixed layout", hdr.Name)
		}
	}

	if !info.HasDatabase {
		return info, fmt.Errorf("archive holds no %s", DatabaseFile)
	}
	if !info.HasFilestore {
		return info, fmt.Errorf("archive holds no %s", FilestoreDir)
	}

	return info, nil
}

// InspectFile is Inspect for an archive on disk.
func InspectFile(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open archive %s: %w", path, err)
	}
	defer f.Close()
	return Inspect(f)
}

// memberPath normalizes and validates one archive entry name.
func memberPath(name string) (string, error) {
	clean := strings.TrimSuffix(filepath.ToSlash(filepath.Clean(name)), "/")
	if clean != RootDir && !strings.HasPrefix(clean, RootDir+"/") {
		return "", fmt.Errorf("archive member %q outside %s/", name, RootDir)
	}
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("archive member %q escapes the archive root", name)
	}
	return clean, nil
}

func writeDirHeader(tw *tar.Writer, name string) error {
	hdr := &tar.Header{
		Name:     name,
		Mode:     0o755,
		Typeflag: tar.TypeDir,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write dir header %q: %w", name, err)
	}
	return nil
}

func packTree(tw *tar.Writer, srcDir, dstPrefix string) error {
	return filepath.WalkDir(srcDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}

		name := dstPrefix
		if rel != "." {
			name = dstPrefix + "/" + filepath.ToSlash(rel)
		}

		if d.IsDir() {
			return writeDirHeader(tw, name+"/")
		}
		return packFile(tw, path, name)
	})
}

func packFile(tw *tar.Writer, src, dst string) error {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	hdr := &tar.Header{
		Name: dst,
		Mode: int64(fi.Mode().Perm()),
		Size: fi.Size(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write header %q: %w", dst, err)
	}

	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer f.Close()

	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("write %q: %w", dst, err)
	}
	return nil
}
