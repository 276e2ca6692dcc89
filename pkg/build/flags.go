// SPDX-License-Identifier: MIT
//
// Package build exposes the metadata stamped into the binary at link time.
// Fields are set with -ldflags, for example:
//
//	go build -ldflags "-X freqscope/pkg/build.buildVersion=0.2.0 \
//	  -X freqscope/pkg/build.buildCommit=$(git rev-parse --short HEAD) \
//	  -X freqscope/pkg/build.buildTime=$(date -u +%FT%TZ)"
//
// Development builds run without flags and keep the defaults below.
package build

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingFlags is returned by Initialize when one or more ldflags are empty.
var ErrMissingFlags = errors.New("build flags missing")

type ldFlags struct {
	Name        string
	Description string
	Time        string
	Commit      string
	Version     string
}

// Populated by -ldflags.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = defaultFlags()
)

func defaultFlags() *ldFlags {
	return &ldFlags{
		Name:        "freqscope",
		Description: "Real-time microphone spectrum and pitch analyzer",
		Time:        "unknown",
		Commit:      "unknown",
		Version:     "dev",
	}
}

// Initialize copies every non-empty ldflags value into the build info. The
// values that were set are applied even when others are missing; the
// returned error lists the missing ones so the caller can decide whether a
// development build is acceptable.
func Initialize() error {
	var missing []string
	set := func(dst *string, val, name string) {
		if val == "" {
			missing = append(missing, name)
			return
		}
		*dst = val
	}

	set(&buildFlags.Name, buildName, "BuildName")
	set(&buildFlags.Time, buildTime, "BuildTime")
	set(&buildFlags.Commit, buildCommit, "BuildCommit")
	set(&buildFlags.Version, buildVersion, "BuildVersion")

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFlags, strings.Join(missing, ", "))
	}
	return nil
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *ldFlags {
	return buildFlags
}

// String renders a one-line version banner.
func (f *ldFlags) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", f.Name, f.Version, f.Commit, f.Time)
}
