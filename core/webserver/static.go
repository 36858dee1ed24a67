package webserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"

	"webboot/core/boot"
	"webboot/core/env"
)

// ClassResourcesDir is the static content folder inside every class location.
const ClassResourcesDir = "META-INF/resources"

// IndexFile is served for directory requests.
const IndexFile = "index.html"

// ProductionMaxAge is the static content cache lifetime in production mode, in seconds.
const ProductionMaxAge = 3600

// Overlay merges file systems. The first one holding a name wins.
type Overlay []fs.FS

// Open implements fs.FS.
func (o Overlay) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	for _, fsys := range o {
		f, err := fsys.Open(name)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

type closers []io.Closer

func (c closers) Close() error {
	var errs []error
	for _, cl := range c {
		errs = append(errs, cl.Close())
	}
	return errors.Join(errs...)
}

// OpenStatic opens the static content of a deployment: the resource root, then the
// META-INF/resources folder of every class location that has one. The closer
// releases the archives opened on the way.
func OpenStatic(d *boot.Deployment) (fs.FS, io.Closer, error) {
	root, rootCloser, err := d.ResourceRoot.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open resource root %s: %w", d.ResourceRoot, err)
	}
	overlay := Overlay{root}
	all := closers{rootCloser}
	for _, loc := range d.ClassLocations {
		fsys, c, err := loc.Open(ClassResourcesDir)
		if errors.Is(err, env.ErrNotFound) {
			continue
		}
		if err != nil {
			_ = all.Close()
			return nil, nil, fmt.Errorf("failed to open %s: %w", loc, err)
		}
		overlay = append(overlay, fsys)
		all = append(all, c)
	}
	return overlay, all, nil
}

// StaticHandler serves files of fsys below prefix. Directories are served through
// their index.html and never listed. A positive maxAge sets Cache-Control.
func StaticHandler(fsys fs.FS, prefix string, maxAge int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}
		rel, ok := strings.CutPrefix(r.URL.Path, prefix)
		if !ok || (rel != "" && !strings.HasPrefix(rel, "/")) {
			http.NotFound(w, r)
			return
		}
		name := strings.TrimPrefix(path.Clean("/"+rel), "/")
		if name == "" {
			name = "."
		}
		info, err := fs.Stat(fsys, name)
		if err == nil && info.IsDir() {
			name = path.Join(name, IndexFile)
			info, err = fs.Stat(fsys, name)
		}
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}
		f, err := fsys.Open(name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer f.Close()
		content, err := readSeeker(f)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if maxAge > 0 {
			w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(maxAge))
		}
		http.ServeContent(w, r, info.Name(), info.ModTime(), content)
	})
}

// readSeeker adapts f for http.ServeContent. Archive entries can't seek and are
// read into memory.
func readSeeker(f fs.File) (io.ReadSeeker, error) {
	if rs, ok := f.(io.ReadSeeker); ok {
		return rs, nil
	}
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}
