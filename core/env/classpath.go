package env

import (
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"
)

// ResourceLoader resolves resource names (slash separated, relative) to URLs.
type ResourceLoader interface {
	// Resource returns the URL of the first search path entry holding name.
	Resource(name string) (*url.URL, bool)
}

// URLLister is implemented by loaders that expose their constituent entries.
type URLLister interface {
	URLs() []*url.URL
}

// ParseClasspath splits a search path string on os.PathListSeparator, dropping blank entries.
func ParseClasspath(classpath string) []string {
	var entries []string
	for _, e := range filepath.SplitList(classpath) {
		if strings.TrimSpace(e) != "" {
			entries = append(entries, e)
		}
	}
	return entries
}

// DefaultClasspath returns the search path for the supported packaging layouts:
// the resources folder next to the working directory or the executable, every
// archive in the distribution's lib folder, and the Maven/Gradle build outputs.
func DefaultClasspath(workDir string) []string {
	entries := []string{filepath.Join(workDir, "resources")}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		entries = append(entries, filepath.Join(exeDir, "resources"))
		for _, pattern := range []string{"*.jar", "*.zip"} {
			matches, _ := filepath.Glob(filepath.Join(exeDir, "..", "lib", pattern))
			entries = append(entries, matches...)
		}
	}

	return append(entries,
		filepath.Join(workDir, "target", "classes"),
		filepath.Join(workDir, "build", "resources", "main"),
		filepath.Join(workDir, "build", "classes"),
	)
}

// ClasspathLoader resolves resources against directories and zip/jar archives.
type ClasspathLoader struct {
	entries []string
	logger  *zap.Logger
}

// NewClasspathLoader creates a loader over the given entries. Relative entries are
// resolved against workDir; entries that don't exist are dropped.
func NewClasspathLoader(workDir string, entries []string, logger *zap.Logger) *ClasspathLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &ClasspathLoader{logger: logger}
	for _, e := range entries {
		abs := absPath(workDir, e)
		if _, err := os.Stat(abs); err != nil {
			logger.Debug("Dropping search path entry", zap.String("entry", abs), zap.Error(err))
			continue
		}
		l.entries = append(l.entries, abs)
	}
	return l
}

// Entries returns the absolute paths of the existing entries.
func (l *ClasspathLoader) Entries() []string {
	return append([]string(nil), l.entries...)
}

// Resource implements ResourceLoader.
func (l *ClasspathLoader) Resource(name string) (*url.URL, bool) {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	for _, entry := range l.entries {
		info, err := os.Stat(entry)
		if err != nil {
			continue
		}
		if info.IsDir() {
			if _, err := os.Stat(filepath.Join(entry, filepath.FromSlash(name))); err == nil {
				return FileURL(filepath.Join(entry, filepath.FromSlash(name))), true
			}
			continue
		}
		if !isArchive(entry) {
			continue
		}
		found, err := archiveContains(entry, name)
		if err != nil {
			l.logger.Debug("Skipping unreadable archive", zap.String("archive", entry), zap.Error(err))
			continue
		}
		if found {
			return ArchiveURL(entry, name), true
		}
	}
	return nil, false
}

// URLs implements URLLister.
func (l *ClasspathLoader) URLs() []*url.URL {
	urls := make([]*url.URL, 0, len(l.entries))
	for _, e := range l.entries {
		urls = append(urls, FileURL(e))
	}
	return urls
}

func archiveContains(archive, name string) (bool, error) {
	rc, err := zip.OpenReader(archive)
	if err != nil {
		return false, err
	}
	defer rc.Close()

	if _, err := fs.Stat(&rc.Reader, name); err == nil {
		return true, nil
	}
	return false, nil
}

func isArchive(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	return ext == ".jar" || ext == ".zip"
}

func absPath(workDir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(workDir, p)
}
