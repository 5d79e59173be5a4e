// Package overlay carries the fixed certificate and reverse-proxy files that
// go into every fixture image, embedded so the binary is self-contained.
package overlay

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed files/lm.crt
//go:embed files/lm.key
//go:embed files/nginx.conf
var files embed.FS

// File is one overlay member together with its destination inside the build
// context (and, mirrored by the generated Dockerfile, inside the image).
type File struct {
	// ContextPath is the path of the file inside the docker build context.
	ContextPath string
	Content     []byte
}

// Context paths of the overlay members. The generated Dockerfiles COPY these
// literal paths; keep in sync with buildspec.
const (
	CertContextPath  = "certs/lm.crt"
	KeyContextPath   = "certs/lm.key"
	NginxContextPath = "nginx.conf"
)

var members = map[string]string{
	"files/lm.crt":     CertContextPath,
	"files/lm.key":     KeyContextPath,
	"files/nginx.conf": NginxContextPath,
}

// Files returns every overlay file, sorted by context path.
func Files() ([]File, error) {
	out := make([]File, 0, len(members))

	err := fs.WalkDir(files, "files", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		dst, ok := members[path]
		if !ok {
			return fmt.Errorf("embedded file %q has no context destination", path)
		}
		content, err := files.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read embedded %q: %w", path, err)
		}
		out = append(out, File{ContextPath: dst, Content: content})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
