package buildspec

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/crs4/seekimages/internal/overlay"
)

// ContextTar assembles the docker build context for the plan: the generated
// Dockerfile, the overlay files and, for archive-seeded builds, the seed
// archive itself.
func (p *Plan) ContextTar() (io.Reader, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	if err := writeTarFile(tw, "Dockerfile", []byte(p.GenerateDockerfile().String())); err != nil {
		return nil, err
	}

	overlayFiles, err := overlay.Files()
	if err != nil {
		return nil, fmt.Errorf("load overlay files: %w", err)
	}
	for _, f := range overlayFiles {
		if err := writeTarFile(tw, f.ContextPath, f.Content); err != nil {
			return nil, err
		}
	}

	if p.variant == VariantUpgradeArchive {
		content, err := os.ReadFile(p.ArchivePath)
		if err != nil {
			return nil, fmt.Errorf("read seed archive: %w", err)
		}
		if err := writeTarFile(tw, ArchiveContextPath, content); err != nil {
			return nil, err
		}
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("close context tar: %w", err)
	}

	return &buf, nil
}

// ContextTar assembles the sidecar's build context: just the Dockerfile.
func (rp *RelayPlan) ContextTar() (io.Reader, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	if err := writeTarFile(tw, "Dockerfile", []byte(rp.GenerateDockerfile().String())); err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("close context tar: %w", err)
	}

	return &buf, nil
}

func writeTarFile(tw *tar.Writer, name string, content []byte) error {
	hdr := &tar.Header{
		Name: name,
		Mode: 0o600,
		Size: int64(len(content)),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write tar header %q: %w", name, err)
	}
	if _, err := tw.Write(content); err != nil {
		return fmt.Errorf("write tar file %q: %w", name, err)
	}
	return nil
}
