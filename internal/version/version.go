// Package version holds unilang build information.
// Values are injected at build time with -ldflags "-X unilang/internal/version.Version=...".
package version

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// Build information that can be set at compile time via -ldflags
var (
	// Version is the semantic version of the application
	Version = "0.1.0"

	// GitCommit is the git commit hash when the binary was built
	GitCommit = "unknown"

	// BuildDate is the date when the binary was built
	BuildDate = "unknown"
)

const unknown = "unknown"

// buildDateFormats are tried in order by Info.BuildTime.
var buildDateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Info describes the running binary.
type Info struct {
	Version   string          `json:"version"`
	GitCommit string          `json:"gitCommit"`
	BuildDate string          `json:"buildDate"`
	GoVersion string          `json:"goVersion"`
	Platform  string          `json:"platform"`
	SemVer    *semver.Version `json:"-"`
}

// Current returns the build information of this binary.
// It fails when Version is not a semantic version.
func Current() (*Info, error) {
	sv, err := semver.NewVersion(Version)
	if err != nil {
		return nil, fmt.Errorf("invalid semantic version '%s': %w", Version, err)
	}
	return &Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		SemVer:    sv,
	}, nil
}

// String returns the one-line form, e.g. "unilang v0.1.0, commit abc1234, built 2025-01-02".
func (i *Info) String() string {
	parts := []string{"unilang v" + i.Version}
	if i.GitCommit != unknown && i.GitCommit != "" {
		parts = append(parts, "commit "+shortCommit(i.GitCommit))
	}
	if i.BuildDate != unknown && i.BuildDate != "" {
		parts = append(parts, "built "+i.BuildDate)
	}
	return strings.Join(parts, ", ")
}

// Detailed returns one "Label: value" line per field.
func (i *Info) Detailed() string {
	lines := []string{
		"unilang v" + i.Version,
		"Git Commit: " + i.GitCommit,
		"Build Date: " + i.BuildDate,
	}
	if meta := i.SemVer.Metadata(); meta != "" {
		lines = append(lines, "Build Metadata: "+meta)
	}
	if pre := i.SemVer.Prerelease(); pre != "" {
		lines = append(lines, "Prerelease: "+pre)
	}
	lines = append(lines,
		"Go Version: "+i.GoVersion,
		"Platform: "+i.Platform,
	)
	return strings.Join(lines, "\n")
}

// IsPrerelease reports whether the version carries a prerelease suffix.
func (i *Info) IsPrerelease() bool {
	return i.SemVer.Prerelease() != ""
}

// IsDevelopment reports whether the binary was built without release metadata.
func (i *Info) IsDevelopment() bool {
	return i.GitCommit == unknown || i.BuildDate == unknown
}

// BuildTime parses BuildDate.
func (i *Info) BuildTime() (time.Time, error) {
	if i.BuildDate == unknown || i.BuildDate == "" {
		return time.Time{}, fmt.Errorf("build date not available")
	}
	for _, format := range buildDateFormats {
		if t, err := time.Parse(format, i.BuildDate); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse build date '%s'", i.BuildDate)
}

// Formatted returns the one-line version string, or a fallback when
// Version is malformed.
func Formatted() string {
	info, err := Current()
	if err != nil {
		return fmt.Sprintf("unilang v%s (invalid version)", Version)
	}
	return info.String()
}

// Compare compares two semantic versions and returns -1, 0 or 1.
func Compare(v1, v2 string) (int, error) {
	sv1, err := semver.NewVersion(v1)
	if err != nil {
		return 0, fmt.Errorf("invalid version '%s': %w", v1, err)
	}
	sv2, err := semver.NewVersion(v2)
	if err != nil {
		return 0, fmt.Errorf("invalid version '%s': %w", v2, err)
	}
	return sv1.Compare(sv2), nil
}

// Satisfies reports whether version meets a constraint such as ">= 1.2, < 2".
func Satisfies(version, constraint string) (bool, error) {
	sv, err := semver.NewVersion(version)
	if err != nil {
		return false, fmt.Errorf("invalid version '%s': %w", version, err)
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid version constraint '%s': %w", constraint, err)
	}
	return c.Check(sv), nil
}

// SetBuildInfo overrides the build information, for tests.
func SetBuildInfo(version, gitCommit, buildDate string) {
	Version = version
	GitCommit = gitCommit
	BuildDate = buildDate
}

func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
