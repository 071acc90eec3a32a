// Package version holds build metadata, set at link time with
// -ldflags "-X github.com/onelson/fizzbuzz-scheduler/pkg/version.GitTag=..."
package version

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

var (
	GitSource   string
	GitTag      string
	GitBranch   string
	GitHash     string
	GoBuildTime string
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ExecName returns the name of the executable
func ExecName() string {
	if name, err := os.Executable(); err == nil {
		return filepath.Base(name)
	}
	return filepath.Base(os.Args[0])
}

// Version returns the git tag, the module version or the git hash,
// whichever is set first
func Version() string {
	if GitTag != "" {
		return GitTag
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	if GitHash != "" {
		return GitHash
	}
	return "dev"
}

// Compiler returns the go version and platform
func Compiler() string {
	return runtime.Version() + " " + runtime.GOOS + "/" + runtime.GOARCH
}
