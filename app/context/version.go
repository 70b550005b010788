package context

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// VersionInfo describes the build of the running binary.
type VersionInfo struct {
	Semantic string
	Commit   string
	Dirty    bool
	Go       string
}

// GetVersion returns the version information embedded in the binary by the Go
// toolchain.
func GetVersion() (*VersionInfo, error) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, errors.New("failed reading build information")
	}

	vi := &VersionInfo{Semantic: bi.Main.Version, Go: bi.GoVersion}
	if vi.Semantic == "" {
		vi.Semantic = "(devel)"
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			vi.Commit = s.Value
		case "vcs.modified":
			vi.Dirty = s.Value == "true"
		}
	}

	return vi, nil
}

func (vi *VersionInfo) String() string {
	v := vi.Semantic
	if vi.Commit != "" {
		commit := vi.Commit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		v = fmt.Sprintf("%s (%s", v, commit)
		if vi.Dirty {
			v += "-dirty"
		}
		v += ")"
	}

	return fmt.Sprintf("%s %s", v, vi.Go)
}
