// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

const buildInfoNotAvailable = "N/A"

// AppBuildInfo carries build-time metadata embedded into binaries.
//
// Values are injected by linker flags during CI/CD. The server exposes them
// on the version endpoint and the CLI prints them on start.
type AppBuildInfo struct {
	Version     string `json:"version"`
	BuildDate   string `json:"buildDate"`
	BuildCommit string `json:"buildCommit"`
}

// NewAppBuildInfo constructs [AppBuildInfo]. Empty values are reported as
// "N/A".
func NewAppBuildInfo(buildVersion, buildDate, buildCommit string) AppBuildInfo {
	return AppBuildInfo{
		Version:     orNotAvailable(buildVersion),
		BuildDate:   orNotAvailable(buildDate),
		BuildCommit: orNotAvailable(buildCommit),
	}
}

// HasVersion reports whether a real version was linked in.
func (a AppBuildInfo) HasVersion() bool {
	return a.Version != "" && a.Version != buildInfoNotAvailable
}

func (a AppBuildInfo) String() string {
	return fmt.Sprintf("Build version: %s\nBuild date: %s\nBuild commit: %s", a.Version, a.BuildDate, a.BuildCommit)
}

func orNotAvailable(v string) string {
	if v == "" {
		return buildInfoNotAvailable
	}
	return v
}
