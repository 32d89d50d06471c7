// Package version exposes the mcdpp build identity recorded in
// verification_manifest.json, so a scoring run can be traced back to the
// exact binary that produced it. Go 1.18+ embeds VCS info (commit, dirty
// flag) into the binary via runtime/debug.BuildInfo; no -ldflags required.
package version

import "runtime/debug"

// AppName identifies the tool in manifests and log lines.
const AppName = "mcdpp"

// GitCommit is the short git commit hash (8 chars) from build info.
// "dev" when build info is unavailable (e.g. go test, non-VCS builds).
var GitCommit = initGitCommit()

func initGitCommit() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			if len(s.Value) > 8 {
				return s.Value[:8]
			}
			return s.Value
		}
	}
	return "dev"
}

// Full returns "mcdpp/<commit>" for the verification manifest's
// tool_version field and startup log line.
func Full() string {
	return AppName + "/" + GitCommit
}
