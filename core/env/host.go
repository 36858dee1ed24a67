package env

import (
	"fmt"
	"runtime"
)

// DumpHost returns a short runtime and OS description, for example
// "Go: go1.24.0 gc, GOMAXPROCS 8, OS: amd64 linux 6.8.0-45-generic".
func DumpHost() string {
	osInfo := runtime.GOARCH + " " + runtime.GOOS
	if release := kernelRelease(); release != "" {
		osInfo += " " + release
	}
	return fmt.Sprintf("Go: %s %s, GOMAXPROCS %d, OS: %s",
		runtime.Version(), runtime.Compiler, runtime.GOMAXPROCS(0), osInfo)
}
