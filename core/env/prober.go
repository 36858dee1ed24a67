package env

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const (
	// ProductionModeMarker is packaged only into production builds.
	ProductionModeMarker = "META-INF/maven/com.vaadin/flow-server-production-mode/pom.xml"
	// BuildInfoResource is the build metadata written by the front-end build.
	BuildInfoResource = "META-INF/VAADIN/config/flow-build-info.json"
	// WebRootDir is the static resource folder on the search path.
	WebRootDir = "webapp"
	// WebRootSentinel is looked up instead of the folder itself: directory lookups
	// don't work reliably for archive entries.
	WebRootSentinel = WebRootDir + "/ROOT"
	// ClassesMarker is the path segment identifying compiled-classes folders.
	ClassesMarker = "/classes"
	// TestClassesMarker identifies test-classes folders, accepted on request.
	TestClassesMarker = "/test-classes"
)

// BuildDescriptors are the build-tool files marking a source checkout.
var BuildDescriptors = []string{"pom.xml", "build.gradle", "build.gradle.kts"}

// FallbackClassDirs are tried, in order, when neither the search path nor the
// loader yield a class folder. Maven first, then Gradle.
var FallbackClassDirs = []string{filepath.Join("target", "classes"), filepath.Join("build", "classes")}

// Deliberately a regex rather than a JSON parse: any text holding the key/value pair
// counts, wherever it appears.
var productionModeRegex = regexp.MustCompile(`"productionMode"\s*:\s*true`)

// ContainsProductionModeTrue reports whether the build metadata switches production mode on.
func ContainsProductionModeTrue(buildInfo string) bool {
	return productionModeRegex.MatchString(buildInfo)
}

// Options configures a Prober. Zero values pick the process defaults.
type Options struct {
	// WorkDir is the directory the process was launched from.
	WorkDir string
	// Classpath holds the raw search path entries.
	Classpath []string
	// Loader resolves resources; defaults to a ClasspathLoader over Classpath.
	Loader ResourceLoader
	// BuildDescriptors override the build-tool marker files.
	BuildDescriptors []string
	// ScanTestClasses also accepts test-classes folders as class locations.
	ScanTestClasses bool
	// ProductionMode and DevelopmentEnvironment, when set, skip the detection.
	ProductionMode         *bool
	DevelopmentEnvironment *bool
	Logger                 *zap.Logger
}

// Prober answers environment questions. Every answer is computed once and cached.
type Prober struct {
	workDir          string
	classpath        []string
	loader           ResourceLoader
	buildDescriptors []string
	scanTestClasses  bool
	logger           *zap.Logger

	prodOnce sync.Once
	prod     bool
	devOnce  sync.Once
	dev      bool

	rootOnce sync.Once
	root     ResourceLocation
	rootErr  error
}

// NewProber creates a prober from the options.
func NewProber(opts Options) *Prober {
	p := &Prober{
		workDir:          opts.WorkDir,
		classpath:        opts.Classpath,
		loader:           opts.Loader,
		buildDescriptors: opts.BuildDescriptors,
		scanTestClasses:  opts.ScanTestClasses,
		logger:           opts.Logger,
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			p.workDir = wd
		} else {
			p.workDir = "."
		}
	}
	if p.classpath == nil {
		p.classpath = DefaultClasspath(p.workDir)
	}
	if p.loader == nil {
		p.loader = NewClasspathLoader(p.workDir, p.classpath, p.logger)
	}
	if p.buildDescriptors == nil {
		p.buildDescriptors = BuildDescriptors
	}
	if opts.ProductionMode != nil {
		p.prod = *opts.ProductionMode
		p.prodOnce.Do(func() {})
	}
	if opts.DevelopmentEnvironment != nil {
		p.dev = *opts.DevelopmentEnvironment
		p.devOnce.Do(func() {})
	}
	return p
}

// WorkDir returns the directory relative paths are resolved against.
func (p *Prober) WorkDir() string {
	return p.workDir
}

// IsProductionMode detects whether the front-end assets were built for production.
func (p *Prober) IsProductionMode() bool {
	p.prodOnce.Do(func() {
		p.prod = p.detectProductionMode()
	})
	return p.prod
}

func (p *Prober) detectProductionMode() bool {
	if u, ok := p.loader.Resource(ProductionModeMarker); ok {
		p.logger.Info("Production mode is on: marker is present", zap.Stringer("url", u))
		return true
	}

	u, ok := p.loader.Resource(BuildInfoResource)
	if !ok {
		p.logger.Info("Production mode is off: build info is missing", zap.String("resource", BuildInfoResource))
		return false
	}
	data, err := ReadURL(u)
	if err != nil {
		p.logger.Warn("Production mode is off: build info is unreadable", zap.Stringer("url", u), zap.Error(err))
		return false
	}
	if ContainsProductionModeTrue(string(data)) {
		p.logger.Info(`Production mode is on: build info contains "productionMode": true`, zap.Stringer("url", u))
		return true
	}
	p.logger.Info(`Production mode is off: build info doesn't contain "productionMode": true`, zap.Stringer("url", u))
	return false
}

// IsDevelopmentEnvironment reports whether the process runs from a source checkout,
// i.e. a build descriptor exists in the working directory. It may disagree with
// IsProductionMode.
func (p *Prober) IsDevelopmentEnvironment() bool {
	p.devOnce.Do(func() {
		for _, name := range p.buildDescriptors {
			if _, err := os.Stat(filepath.Join(p.workDir, name)); err == nil {
				p.logger.Debug("Development environment detected", zap.String("descriptor", name))
				p.dev = true
				return
			}
		}
	})
	return p.dev
}

// ResolveResourceRoot locates the static web-resource folder via its sentinel file.
func (p *Prober) ResolveResourceRoot() (ResourceLocation, error) {
	p.rootOnce.Do(func() {
		p.root, p.rootErr = p.resolveResourceRoot()
	})
	return p.root, p.rootErr
}

func (p *Prober) resolveResourceRoot() (ResourceLocation, error) {
	u, ok := p.loader.Resource(WebRootSentinel)
	if !ok {
		return ResourceLocation{}, fmt.Errorf("%w: %s doesn't exist, has the %q folder been packaged in as a resource?",
			ErrNotFound, WebRootSentinel, WebRootDir)
	}
	s := u.String()
	if !strings.HasSuffix(s, "/ROOT") {
		return ResourceLocation{}, fmt.Errorf("%w: %s doesn't end with /ROOT", ErrFormat, s)
	}
	folder, err := url.Parse(strings.TrimSuffix(s, "/ROOT"))
	if err != nil {
		return ResourceLocation{}, fmt.Errorf("%w: %s: %v", ErrFormat, s, err)
	}

	loc := ResourceLocation{URL: folder}
	if dir, ok := FilePath(folder); ok {
		loc.Dir = dir
	} else {
		archive, inner, err := ArchiveParts(folder)
		if err != nil {
			return ResourceLocation{}, err
		}
		loc.Archive = archive
		loc.Path = inner
	}
	p.logger.Info("WebRoot is served from", zap.Stringer("url", folder))
	return loc, nil
}

// ResolveClassLocations returns the folders or the archive holding the application's
// own code. Third-party archives are never part of the result; it is never empty.
func (p *Prober) ResolveClassLocations(root ResourceLocation) ([]ClassLocation, error) {
	if !p.IsDevelopmentEnvironment() {
		// packaged run: code and resources share one archive or folder
		loc, err := p.resourcesArchiveOrFolder(root)
		if err != nil {
			return nil, err
		}
		return []ClassLocation{loc}, nil
	}

	// search path entries
	var candidates []string
	for _, e := range p.classpath {
		candidates = append(candidates, absPath(p.workDir, e))
	}
	found, err := p.classFolders(candidates)
	if err != nil {
		return nil, err
	}
	if len(found) > 0 {
		return found, nil
	}

	// loader entries
	if lister, ok := p.loader.(URLLister); ok {
		candidates = candidates[:0]
		for _, u := range lister.URLs() {
			if path, ok := FilePath(u); ok {
				candidates = append(candidates, path)
			}
		}
		found, err := p.classFolders(candidates)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			return found, nil
		}
	}

	// Depends on the working directory: breaks when an IDE launches a submodule
	// from the parent project's folder.
	var tried string
	for _, dir := range FallbackClassDirs {
		tried = filepath.Join(p.workDir, dir)
		info, err := os.Stat(tried)
		if err == nil && info.IsDir() {
			return []ClassLocation{{Path: tried}}, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %v", ErrIO, err)
		}
	}
	return nil, fmt.Errorf("%w: %s does not exist", ErrIllegalState, tried)
}

// classFolders keeps the existing class directories. Missing entries are skipped,
// any other stat failure is an ErrIO.
func (p *Prober) classFolders(candidates []string) ([]ClassLocation, error) {
	seen := map[string]bool{}
	var found []ClassLocation
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		seen[c] = true
		info, err := os.Stat(c)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %v", ErrIO, err)
		}
		if err != nil || !info.IsDir() {
			continue
		}
		slashed := filepath.ToSlash(c)
		if strings.Contains(slashed, ClassesMarker) || (p.scanTestClasses && strings.Contains(slashed, TestClassesMarker)) {
			found = append(found, ClassLocation{Path: c})
		}
	}
	return found, nil
}

func (p *Prober) resourcesArchiveOrFolder(root ResourceLocation) (ClassLocation, error) {
	if dir, ok := FilePath(root.URL); ok {
		classDir := filepath.Dir(dir)
		info, err := os.Stat(classDir)
		if err != nil {
			return ClassLocation{}, fmt.Errorf("%w: %s doesn't exist", ErrIllegalState, classDir)
		}
		if !info.IsDir() {
			return ClassLocation{}, fmt.Errorf("%w: %s is not a directory", ErrIllegalState, classDir)
		}
		return ClassLocation{Path: classDir}, nil
	}

	if root.URL == nil || root.URL.Scheme != "jar" {
		return ClassLocation{}, fmt.Errorf("%w: %v: unsupported URL type", ErrFormat, root.URL)
	}
	if !strings.HasSuffix(root.URL.Opaque, "!/"+WebRootDir) {
		return ClassLocation{}, fmt.Errorf("%w: unexpected path %s", ErrIllegalState, root.URL.Opaque)
	}
	archive, _, err := ArchiveParts(root.URL)
	if err != nil {
		return ClassLocation{}, fmt.Errorf("%w: %v", ErrIllegalState, err)
	}
	info, err := os.Stat(archive)
	if err != nil {
		return ClassLocation{}, fmt.Errorf("%w: doesn't exist: %s", ErrIllegalState, archive)
	}
	if !info.Mode().IsRegular() {
		return ClassLocation{}, fmt.Errorf("%w: not a file: %s", ErrIllegalState, archive)
	}
	return ClassLocation{Path: archive, Archive: true}, nil
}
