package env_test

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// writeFiles creates files (slash separated names) below dir.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

// writeArchive creates a zip archive holding files.
func writeArchive(t *testing.T, path string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range files {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

type staticLoader map[string]*url.URL

func (l staticLoader) Resource(name string) (*url.URL, bool) {
	u, ok := l[name]
	return u, ok
}

type listingLoader struct {
	staticLoader
	urls []*url.URL
}

func (l listingLoader) URLs() []*url.URL {
	return l.urls
}

func boolPtr(b bool) *bool {
	return &b
}
