package overlay

import (
	"bytes"
	"testing"
)

func TestFilesReturnsAllMembers(t *testing.T) {
	t.Parallel()

	got, err := Files()
	if err != nil {
		t.Fatalf("Files failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 overlay files, got %d", len(got))
	}

	byPath := map[string][]byte{}
	for _, f := range got {
		if len(f.Content) == 0 {
			t.Errorf("overlay file %q is empty", f.ContextPath)
		}
		byPath[f.ContextPath] = f.Content
	}

	for _, want := range []string{CertContextPath, KeyContextPath, NginxContextPath} {
		if _, ok := byPath[want]; !ok {
			t.Errorf("missing overlay file %q", want)
		}
	}

	if !bytes.Contains(byPath[CertContextPath], []byte("BEGIN CERTIFICATE")) {
		t.Error("lm.crt does not look like a PEM certificate")
	}
	if !bytes.Contains(byPath[KeyContextPath], []byte("PRIVATE KEY")) {
		t.Error("lm.key does not look like a PEM key")
	}
	if !bytes.Contains(byPath[NginxContextPath], []byte("ssl_certificate")) {
		t.Error("nginx.conf does not reference the certificate")
	}
}
