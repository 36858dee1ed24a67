package env_test

import (
	"io/fs"
	"net/url"
	"path/filepath"
	"testing"

	"webboot/core/env"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClasspathLoader(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"res/a.txt": "dir"})
	jar := filepath.Join(dir, "lib", "app.jar")
	writeArchive(t, jar, map[string]string{"a.txt": "jar", "b/c.txt": "nested"})

	l := env.NewClasspathLoader(dir, []string{"res", "missing", jar}, nil)
	assert.Equal(t, []string{filepath.Join(dir, "res"), jar}, l.Entries())
	assert.Len(t, l.URLs(), 2)

	u, ok := l.Resource("a.txt")
	require.True(t, ok)
	assert.Equal(t, "file", u.Scheme, "first entry wins")

	u, ok = l.Resource("/b/c.txt")
	require.True(t, ok)
	assert.Equal(t, "jar", u.Scheme)
	data, err := env.ReadURL(u)
	require.NoError(t, err)
	assert.Equal(t, "nested", string(data))

	_, ok = l.Resource("nope.txt")
	assert.False(t, ok)
}

func TestParseClasspath(t *testing.T) {
	sep := string(filepath.ListSeparator)
	assert.Equal(t, []string{"a", "b"}, env.ParseClasspath("a"+sep+sep+"b"+sep+" "))
	assert.Empty(t, env.ParseClasspath(""))
}

func TestDefaultClasspath(t *testing.T) {
	dir := t.TempDir()
	entries := env.DefaultClasspath(dir)
	assert.Contains(t, entries, filepath.Join(dir, "resources"))
	assert.Contains(t, entries, filepath.Join(dir, "target", "classes"))
	assert.Contains(t, entries, filepath.Join(dir, "build", "classes"))
}

func TestArchiveParts(t *testing.T) {
	u, err := url.Parse("jar:file:///opt/app/lib/app%20x.jar!/webapp")
	require.NoError(t, err)

	archive, inner, err := env.ArchiveParts(u)
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/opt/app/lib/app x.jar"), archive)
	assert.Equal(t, "webapp", inner)

	u, err = url.Parse("jar:file:///opt/app.jar")
	require.NoError(t, err)
	_, _, err = env.ArchiveParts(u)
	assert.ErrorIs(t, err, env.ErrFormat)

	_, _, err = env.ArchiveParts(env.FileURL("/opt"))
	assert.ErrorIs(t, err, env.ErrFormat)
}

func TestFileURLRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "with space")
	got, ok := env.FilePath(env.FileURL(p))
	require.True(t, ok)
	assert.Equal(t, p, got)
}

func TestResourceLocation_Open(t *testing.T) {
	t.Run("Directory", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{"webapp/index.html": "<html/>"})
		loc := env.ResourceLocation{URL: env.FileURL(filepath.Join(dir, "webapp")), Dir: filepath.Join(dir, "webapp")}

		tree, closer, err := loc.Open()
		require.NoError(t, err)
		defer closer.Close()
		data, err := fs.ReadFile(tree, "index.html")
		require.NoError(t, err)
		assert.Equal(t, "<html/>", string(data))
	})

	t.Run("Archive", func(t *testing.T) {
		jar := filepath.Join(t.TempDir(), "app.jar")
		writeArchive(t, jar, map[string]string{"webapp/index.html": "<html/>", "other.txt": ""})
		loc := env.ResourceLocation{URL: env.ArchiveURL(jar, "webapp"), Archive: jar, Path: "webapp"}

		tree, closer, err := loc.Open()
		require.NoError(t, err)
		defer closer.Close()
		data, err := fs.ReadFile(tree, "index.html")
		require.NoError(t, err)
		assert.Equal(t, "<html/>", string(data))
		_, err = fs.Stat(tree, "other.txt")
		assert.Error(t, err)
	})
}

func TestClassLocation_Open(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"META-INF/resources/extra.css": "body{}"})

	tree, closer, err := env.ClassLocation{Path: dir}.Open("META-INF/resources")
	require.NoError(t, err)
	defer closer.Close()
	data, err := fs.ReadFile(tree, "extra.css")
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(data))

	_, _, err = env.ClassLocation{Path: dir}.Open("static")
	assert.ErrorIs(t, err, env.ErrNotFound)

	jar := filepath.Join(dir, "app.jar")
	writeArchive(t, jar, map[string]string{"a.txt": ""})
	_, _, err = env.ClassLocation{Path: jar, Archive: true}.Open("META-INF/resources")
	assert.ErrorIs(t, err, env.ErrNotFound)
}
