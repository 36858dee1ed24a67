package webserver_test

import (
	"io/fs"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"webboot/core/boot"
	"webboot/core/env"
	"webboot/core/server"
	"webboot/core/webserver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func TestOverlay(t *testing.T) {
	o := webserver.Overlay{
		fstest.MapFS{"a.txt": {Data: []byte("first")}},
		fstest.MapFS{"a.txt": {Data: []byte("second")}, "b.txt": {Data: []byte("b")}},
	}

	b, err := fs.ReadFile(o, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "first", string(b))

	b, err = fs.ReadFile(o, "b.txt")
	require.NoError(t, err)
	assert.Equal(t, "b", string(b))

	_, err = o.Open("missing")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, err = o.Open("../escape")
	assert.ErrorIs(t, err, fs.ErrInvalid)
}

func TestOpenStatic(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"webapp/ROOT":                           "root",
		"webapp/index.html":                     "index",
		"classes/META-INF/resources/index.html": "shadowed",
		"classes/META-INF/resources/styles.css": "body{}",
		"other/Main.class":                      "",
	})
	webapp := filepath.Join(dir, "webapp")
	d := &boot.Deployment{
		ResourceRoot:   env.ResourceLocation{URL: env.FileURL(webapp), Dir: webapp},
		ClassLocations: []env.ClassLocation{
			{Path: filepath.Join(dir, "classes")},
			{Path: filepath.Join(dir, "other")},
		},
	}

	fsys, closer, err := webserver.OpenStatic(d)
	require.NoError(t, err)
	defer closer.Close()

	b, err := fs.ReadFile(fsys, "index.html")
	require.NoError(t, err)
	assert.Equal(t, "index", string(b))
	b, err = fs.ReadFile(fsys, "styles.css")
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(b))

	t.Run("missing resource root", func(t *testing.T) {
		missing := &boot.Deployment{ResourceRoot: env.ResourceLocation{Dir: filepath.Join(dir, "nope")}}
		_, _, err := webserver.OpenStatic(missing)
		assert.ErrorIs(t, err, env.ErrNotFound)
	})
}

func TestStaticHandler(t *testing.T) {
	fsys := fstest.MapFS{
		"ROOT":             {Data: []byte("Don't delete this file")},
		"index.html":       {Data: []byte("<html>home</html>")},
		"docs/index.html":  {Data: []byte("docs")},
		"assets/app.js":    {Data: []byte("console.log(1)")},
		"empty/readme.txt": {Data: []byte("x")},
	}

	tests := []struct {
		name   string
		method string
		path   string
		prefix string
		status int
		body   string
	}{
		{name: "file", path: "/ROOT", status: http.StatusOK, body: "Don't delete this file"},
		{name: "root index", path: "/", status: http.StatusOK, body: "<html>home</html>"},
		{name: "nested index", path: "/docs/", status: http.StatusOK, body: "docs"},
		{name: "nested index without slash", path: "/docs", status: http.StatusOK, body: "docs"},
		{name: "no listing", path: "/empty/", status: http.StatusNotFound},
		{name: "missing", path: "/nope.txt", status: http.StatusNotFound},
		{name: "post", method: http.MethodPost, path: "/ROOT", status: http.StatusNotFound},
		{name: "under prefix", prefix: "/app", path: "/app/assets/app.js", status: http.StatusOK, body: "console.log(1)"},
		{name: "prefix root", prefix: "/app", path: "/app", status: http.StatusOK, body: "<html>home</html>"},
		{name: "outside prefix", prefix: "/app", path: "/ROOT", status: http.StatusNotFound},
		{name: "prefix lookalike", prefix: "/app", path: "/apple/ROOT", status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			w := httptest.NewRecorder()
			webserver.StaticHandler(fsys, tt.prefix, 0).ServeHTTP(w, httptest.NewRequest(method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
			assert.Empty(t, w.Header().Get("Cache-Control"))
		})
	}

	t.Run("cache control", func(t *testing.T) {
		w := httptest.NewRecorder()
		webserver.StaticHandler(fsys, "", webserver.ProductionMaxAge).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ROOT", nil))
		assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))
	})
}

func TestListen(t *testing.T) {
	ln, err := webserver.Listen(server.Config{Address: "127.0.0.1", Port: 0})
	require.NoError(t, err)
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	_, err = webserver.Listen(server.Config{Address: "127.0.0.1", Port: port})
	assert.Error(t, err)
}
