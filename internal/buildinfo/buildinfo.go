// Package buildinfo reports what the running binary was built from.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"strings"
)

type Info struct {
	Version  string
	Revision string
	Dirty    bool
	Tags     string
}

// Read returns the build information embedded by the Go toolchain. Missing
// fields are left empty and Version falls back to "dev".
func Read() Info {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return Info{Version: "dev"}
	}
	return fromBuildInfo(info)
}

func fromBuildInfo(info *debug.BuildInfo) Info {
	out := Info{Version: info.Main.Version}
	if out.Version == "" || out.Version == "(devel)" {
		out.Version = "dev"
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "-tags":
			out.Tags = setting.Value
		case "vcs.revision":
			out.Revision = setting.Value
		case "vcs.modified":
			out.Dirty = setting.Value == "true"
		}
	}
	return out
}

// String renders e.g. "v1.2.0 (rev 1a2b3c4d, dirty, tags: netgo)".
func (i Info) String() string {
	var extra []string
	if i.Revision != "" {
		rev := i.Revision
		if len(rev) > 8 {
			rev = rev[:8]
		}
		extra = append(extra, "rev "+rev)
	}
	if i.Dirty {
		extra = append(extra, "dirty")
	}
	if i.Tags != "" {
		extra = append(extra, "tags: "+i.Tags)
	}
	if len(extra) == 0 {
		return i.Version
	}
	return fmt.Sprintf("%s (%s)", i.Version, strings.Join(extra, ", "))
}
