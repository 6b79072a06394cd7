package version

import "runtime/debug"

// Version is the current application version.
// This is a var (not const) so it can be overridden at build time via:
//
//	go build -ldflags "-X github.com/vanderheijden86/sentiboard/pkg/version.Version=v0.2.0"
var Version = "v0.1.0"

// Commit returns the VCS revision embedded by the Go toolchain, or "".
func Commit() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			if len(s.Value) > 12 {
				return s.Value[:12]
			}
			return s.Value
		}
	}
	return ""
}

// String formats the version line printed by `sentiboard version`.
func String() string {
	if c := Commit(); c != "" {
		return "sentiboard " + Version + " (" + c + ")"
	}
	return "sentiboard " + Version
}
