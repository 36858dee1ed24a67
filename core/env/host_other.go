//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package env

func kernelRelease() string {
	return ""
}
