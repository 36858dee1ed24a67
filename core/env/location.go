package env

import (
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// ResourceLocation is the resolved static web-resource root.
type ResourceLocation struct {
	// URL is the folder URL, e.g. file:///app/resources/webapp or
	// jar:file:///app/lib/app.jar!/webapp.
	URL *url.URL
	// Dir is the directory holding the static resources, when not archived.
	Dir string
	// Archive is the archive holding the static resources, when archived.
	Archive string
	// Path is the folder path inside Archive.
	Path string
}

// IsArchive reports whether the resources live inside an archive.
func (l ResourceLocation) IsArchive() bool {
	return l.Archive != ""
}

func (l ResourceLocation) String() string {
	if l.URL == nil {
		return ""
	}
	return l.URL.String()
}

// Open returns the resource root as a file system. The closer releases the archive, if any.
func (l ResourceLocation) Open() (fs.FS, io.Closer, error) {
	if l.IsArchive() {
		return openTree(l.Archive, true, l.Path)
	}
	return openTree(l.Dir, false, "")
}

// ClassLocation is a directory or archive holding the application's own code and resources.
type ClassLocation struct {
	Path    string
	Archive bool
}

func (c ClassLocation) String() string {
	return c.Path
}

// Open returns the sub tree of the location as a file system; ErrNotFound when sub is absent.
func (c ClassLocation) Open(sub string) (fs.FS, io.Closer, error) {
	return openTree(c.Path, c.Archive, sub)
}

// FileURL returns the file: URL of an absolute path.
func FileURL(p string) *url.URL {
	s := filepath.ToSlash(p)
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	return &url.URL{Scheme: "file", Path: s}
}

// ArchiveURL returns the jar: URL of an entry inside an archive.
func ArchiveURL(archive, name string) *url.URL {
	return &url.URL{Scheme: "jar", Opaque: FileURL(archive).String() + "!/" + strings.TrimPrefix(name, "/")}
}

// FilePath converts a file: URL to a filesystem path. ok is false for other schemes.
func FilePath(u *url.URL) (string, bool) {
	if u == nil || u.Scheme != "file" {
		return "", false
	}
	p := u.Path
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		// file:///C:/dir
		p = p[1:]
	}
	return filepath.FromSlash(p), true
}

// ArchiveParts splits a jar: URL into the archive path and the path inside it.
func ArchiveParts(u *url.URL) (archive string, inner string, err error) {
	if u == nil || u.Scheme != "jar" {
		return "", "", fmt.Errorf("%w: %v: unsupported URL type", ErrFormat, u)
	}
	s := u.Opaque
	idx := strings.Index(s, "!/")
	if idx < 0 {
		return "", "", fmt.Errorf("%w: %s: missing !/ separator", ErrFormat, u)
	}
	fileURL, err := url.Parse(s[:idx])
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %v", ErrFormat, u, err)
	}
	archive, ok := FilePath(fileURL)
	if !ok {
		return "", "", fmt.Errorf("%w: %s: can't convert to file", ErrFormat, u)
	}
	return archive, s[idx+2:], nil
}

// ReadURL reads the content of a file: or jar: URL.
func ReadURL(u *url.URL) ([]byte, error) {
	if p, ok := FilePath(u); ok {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIO, err)
		}
		return data, nil
	}
	archive, inner, err := ArchiveParts(u)
	if err != nil {
		return nil, err
	}
	rc, err := zip.OpenReader(archive)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer rc.Close()

	data, err := fs.ReadFile(&rc.Reader, inner)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return data, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openTree(base string, archive bool, sub string) (fs.FS, io.Closer, error) {
	if !archive {
		dir := base
		if sub != "" {
			dir = filepath.Join(base, filepath.FromSlash(sub))
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return nil, nil, fmt.Errorf("%w: %s is not a directory", ErrNotFound, dir)
		}
		return os.DirFS(dir), nopCloser{}, nil
	}

	rc, err := zip.OpenReader(base)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	if sub == "" {
		return &rc.Reader, rc, nil
	}
	info, err := fs.Stat(&rc.Reader, sub)
	if err != nil || !info.IsDir() {
		_ = rc.Close()
		return nil, nil, fmt.Errorf("%w: %s!/%s is not a directory", ErrNotFound, base, sub)
	}
	tree, err := fs.Sub(&rc.Reader, sub)
	if err != nil {
		_ = rc.Close()
		return nil, nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return tree, rc, nil
}
